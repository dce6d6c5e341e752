package scalar

import (
	"fmt"
	"strings"
)

// Dual is a forward-mode automatic differentiation number: a value and its
// gradient with respect to some set of parameters. A nil gradient stands for
// all zeros, so constants and seeded variables mix freely.
type Dual struct {
	V    float64
	Grad []float64
}

var _ Scalar[Dual] = Dual{}

// Variable returns a dual seeded as parameter i out of n.
func Variable(v float64, i, n int) Dual {
	g := make([]float64, n)
	g[i] = 1
	return Dual{V: v, Grad: g}
}

// Constant returns a dual with zero gradient.
func Constant(v float64) Dual { return Dual{V: v} }

func (d Dual) Add(o Dual) Dual {
	return Dual{V: d.V + o.V, Grad: combine(d.Grad, 1, o.Grad, 1)}
}

func (d Dual) Sub(o Dual) Dual {
	return Dual{V: d.V - o.V, Grad: combine(d.Grad, 1, o.Grad, -1)}
}

// Mul applies the product rule: (uv)' = u'v + uv'.
func (d Dual) Mul(o Dual) Dual {
	return Dual{V: d.V * o.V, Grad: combine(d.Grad, o.V, o.Grad, d.V)}
}

// Div applies the quotient rule: (u/v)' = (u'v - uv')/v².
func (d Dual) Div(o Dual) Dual {
	inv := 1 / o.V
	return Dual{V: d.V * inv, Grad: combine(d.Grad, inv, o.Grad, -d.V*inv*inv)}
}

func (d Dual) Less(o Dual) bool { return d.V < o.V }

func (d Dual) Equal(o Dual) bool {
	if d.V != o.V {
		return false
	}
	n := max(len(d.Grad), len(o.Grad))
	for i := 0; i < n; i++ {
		if gradAt(d.Grad, i) != gradAt(o.Grad, i) {
			return false
		}
	}
	return true
}

func (Dual) FromFloat(v float64) Dual { return Dual{V: v} }
func (d Dual) Float() float64         { return d.V }

// Clone returns d with its own copy of the gradient.
func (d Dual) Clone() Dual {
	if d.Grad == nil {
		return d
	}
	g := make([]float64, len(d.Grad))
	copy(g, d.Grad)
	return Dual{V: d.V, Grad: g}
}

// Derivative returns ∂/∂pᵢ, zero when i is beyond the gradient.
func (d Dual) Derivative(i int) float64 { return gradAt(d.Grad, i) }

func (d Dual) String() string {
	if len(d.Grad) == 0 {
		return fmt.Sprintf("%g", d.V)
	}
	parts := make([]string, len(d.Grad))
	for i, g := range d.Grad {
		parts[i] = fmt.Sprintf("%g", g)
	}
	return fmt.Sprintf("%g[%s]", d.V, strings.Join(parts, " "))
}

func gradAt(g []float64, i int) float64 {
	if i < len(g) {
		return g[i]
	}
	return 0
}

// combine returns a*ga + b*gb, keeping nil when both are nil.
func combine(ga []float64, a float64, gb []float64, b float64) []float64 {
	n := max(len(ga), len(gb))
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = a*gradAt(ga, i) + b*gradAt(gb, i)
	}
	return out
}
