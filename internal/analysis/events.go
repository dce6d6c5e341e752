package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/scalar"
)

var (
	ErrDimension = errors.New("analysis: dimension out of range")
	ErrNoPeriod  = errors.New("analysis: fewer than two rising crossings")
)

// Trajectory is a consolidated dense output together with its steps.
type Trajectory interface {
	dense.Output[scalar.Real]
	Steps() []*dense.IntegrationStep[scalar.Real]
}

type Direction int

const (
	Both Direction = iota
	Rising
	Falling
)

// Event is a crossing located on the interpolant.
type Event struct {
	Time   float64
	State  []float64
	Rising bool
}

// Options tune event location. The zero value scans both directions with
// DefaultSubdivisions per sample interval.
type Options struct {
	Direction    Direction
	Subdivisions int
	// Tolerance on the event time, relative to the output's span.
	Tolerance float64
}

const (
	DefaultSubdivisions = 4
	DefaultTolerance    = 1e-12
	maxBisections       = 200
)

// Crossings returns the times at which x[dim] crosses level, in increasing
// order. A crossing is reported in (a, b] for each scanned interval [a, b],
// so a trajectory starting exactly on level does not report t0.
func Crossings(tr Trajectory, dim int, level float64, opts Options) ([]Event, error) {
	n, err := tr.Dimensions()
	if err != nil {
		return nil, err
	}
	if dim < 0 || dim >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrDimension, dim, n)
	}
	sub := opts.Subdivisions
	if sub <= 0 {
		sub = DefaultSubdivisions
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	start, _ := tr.StartTime()
	end, _ := tr.EndTime()
	tol *= math.Max((end - start).Float(), 1)

	g := func(t float64) (float64, error) {
		v, err := tr.EvaluateNth(scalar.Real(t), dim)
		return v.Float() - level, err
	}

	var events []Event
	for _, step := range tr.Steps() {
		times := step.Times()
		for k := 1; k < len(times); k++ {
			a0, b0 := times[k-1].Float(), times[k].Float()
			ga, err := g(a0)
			if err != nil {
				return nil, err
			}
			a := a0
			for j := 1; j <= sub; j++ {
				b := a0 + (b0-a0)*float64(j)/float64(sub)
				if j == sub {
					b = b0
				}
				gb, err := g(b)
				if err != nil {
					return nil, err
				}
				rising := ga < 0 && gb >= 0
				falling := ga > 0 && gb <= 0
				if (rising && opts.Direction != Falling) || (falling && opts.Direction != Rising) {
					ev, err := refine(tr, g, a, b, ga, tol)
					if err != nil {
						return nil, err
					}
					ev.Rising = rising
					events = append(events, ev)
				}
				a, ga = b, gb
			}
		}
	}
	return events, nil
}

// refine narrows a sign change of g on [a, b] by bisection. g(b) may be
// zero, in which case b is returned.
func refine(tr Trajectory, g func(float64) (float64, error), a, b, ga, tol float64) (Event, error) {
	for i := 0; i < maxBisections && b-a > tol; i++ {
		m := a + (b-a)/2
		gm, err := g(m)
		if err != nil {
			return Event{}, err
		}
		if (gm < 0) == (ga < 0) && gm != 0 {
			a, ga = m, gm
		} else {
			b = m
		}
	}
	x, err := tr.Evaluate(scalar.Real(b))
	if err != nil {
		return Event{}, err
	}
	return Event{Time: b, State: x.Floats()}, nil
}

// PoincareSection returns, for every crossing of x[dim] through level in
// direction dir, the state projected onto keep.
func PoincareSection(tr Trajectory, dim int, level float64, dir Direction, keep ...int) ([][]float64, error) {
	events, err := Crossings(tr, dim, level, Options{Direction: dir})
	if err != nil {
		return nil, err
	}
	n, _ := tr.Dimensions()
	for _, k := range keep {
		if k < 0 || k >= n {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrDimension, k, n)
		}
	}

	section := make([][]float64, len(events))
	for i, ev := range events {
		p := make([]float64, len(keep))
		for j, k := range keep {
			p[j] = ev.State[k]
		}
		section[i] = p
	}
	return section, nil
}

// Period estimates the oscillation period of x[dim] from the spacing of its
// rising crossings through the midpoint of its sampled range.
func Period(tr Trajectory, dim int) (float64, error) {
	n, err := tr.Dimensions()
	if err != nil {
		return 0, err
	}
	if dim < 0 || dim >= n {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrDimension, dim, n)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, step := range tr.Steps() {
		for _, x := range step.States() {
			v, _ := x.At(dim, 0)
			lo = math.Min(lo, v.Float())
			hi = math.Max(hi, v.Float())
		}
	}

	events, err := Crossings(tr, dim, (lo+hi)/2, Options{Direction: Rising})
	if err != nil {
		return 0, err
	}
	if len(events) < 2 {
		return 0, ErrNoPeriod
	}
	return (events[len(events)-1].Time - events[0].Time) / float64(len(events)-1), nil
}
