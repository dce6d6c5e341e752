// Package spline builds piecewise cubic polynomials in coefficient form.
//
// It is deliberately independent of package dense: a Cubic stores
// per-segment polynomial coefficients instead of sample triples, which makes
// it a useful cross-check for Hermite dense outputs.
package spline

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrTooFewBreaks     = errors.New("spline: need at least two break times")
	ErrBreaksNotSorted  = errors.New("spline: break times must strictly increase")
	ErrSampleShape      = errors.New("spline: sample count or dimension mismatch")
	ErrOutsideBreakSpan = errors.New("spline: time outside break span")
)

// Cubic is a piecewise cubic vector-valued polynomial. On segment k,
// component i is c[k][i][0] + c[k][i][1]τ + c[k][i][2]τ² + c[k][i][3]τ³
// with τ = t - breaks[k].
type Cubic struct {
	breaks []float64
	coeffs [][][4]float64
	dim    int
}

// NewCubicHermite builds the C¹ cubic matching values and derivatives at
// every break time.
func NewCubicHermite(breaks []float64, values, derivs [][]float64) (*Cubic, error) {
	n := len(breaks)
	if n < 2 {
		return nil, ErrTooFewBreaks
	}
	if len(values) != n || len(derivs) != n {
		return nil, fmt.Errorf("%w: %d breaks, %d values, %d derivatives", ErrSampleShape, n, len(values), len(derivs))
	}
	dim := len(values[0])
	for k := 0; k < n; k++ {
		if len(values[k]) != dim || len(derivs[k]) != dim {
			return nil, fmt.Errorf("%w: sample %d", ErrSampleShape, k)
		}
		if k > 0 && breaks[k] <= breaks[k-1] {
			return nil, fmt.Errorf("%w: breaks[%d]=%g", ErrBreaksNotSorted, k, breaks[k])
		}
	}

	c := &Cubic{
		breaks: append([]float64(nil), breaks...),
		coeffs: make([][][4]float64, n-1),
		dim:    dim,
	}
	for k := 0; k < n-1; k++ {
		h := breaks[k+1] - breaks[k]
		c.coeffs[k] = make([][4]float64, dim)
		for i := 0; i < dim; i++ {
			y0, y1 := values[k][i], values[k+1][i]
			m0, m1 := derivs[k][i], derivs[k+1][i]
			slope := (y1 - y0) / h
			c.coeffs[k][i] = [4]float64{
				y0,
				m0,
				(3*slope - 2*m0 - m1) / h,
				(m0 + m1 - 2*slope) / (h * h),
			}
		}
	}
	return c, nil
}

func (c *Cubic) Dimensions() int    { return c.dim }
func (c *Cubic) StartTime() float64 { return c.breaks[0] }
func (c *Cubic) EndTime() float64   { return c.breaks[len(c.breaks)-1] }

// Breaks returns a copy of the break times.
func (c *Cubic) Breaks() []float64 { return append([]float64(nil), c.breaks...) }

// Value evaluates every component at t.
func (c *Cubic) Value(t float64) ([]float64, error) {
	k, err := c.segment(t)
	if err != nil {
		return nil, err
	}
	tau := t - c.breaks[k]
	out := make([]float64, c.dim)
	for i, p := range c.coeffs[k] {
		out[i] = p[0] + tau*(p[1]+tau*(p[2]+tau*p[3]))
	}
	return out, nil
}

// Derivative evaluates the time derivative of every component at t.
func (c *Cubic) Derivative(t float64) ([]float64, error) {
	k, err := c.segment(t)
	if err != nil {
		return nil, err
	}
	tau := t - c.breaks[k]
	out := make([]float64, c.dim)
	for i, p := range c.coeffs[k] {
		out[i] = p[1] + tau*(2*p[2]+tau*3*p[3])
	}
	return out, nil
}

func (c *Cubic) segment(t float64) (int, error) {
	if !(t >= c.StartTime() && t <= c.EndTime()) {
		return 0, fmt.Errorf("%w: t=%g, span=[%g, %g]", ErrOutsideBreakSpan, t, c.StartTime(), c.EndTime())
	}
	k := sort.SearchFloat64s(c.breaks, t) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(c.coeffs) {
		k = len(c.coeffs) - 1
	}
	return k, nil
}
