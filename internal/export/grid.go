// Package export resamples a dense output onto a uniform time grid and
// writes the samples out. Only evaluated samples leave the process; the
// output's steps are never serialized.
package export

import (
	"errors"
	"fmt"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/scalar"
)

var ErrResolution = errors.New("export: need at least two samples")

// Grid holds States[i] = x(Times[i]).
type Grid struct {
	Times  []float64
	States [][]float64
}

func (g Grid) Len() int { return len(g.Times) }

func (g Grid) Dimensions() int {
	if len(g.States) == 0 {
		return 0
	}
	return len(g.States[0])
}

// Column returns the series of dimension i.
func (g Grid) Column(i int) []float64 {
	col := make([]float64, len(g.States))
	for k, x := range g.States {
		col[k] = x[i]
	}
	return col
}

// Resample evaluates out at n uniformly spaced times across its span. The
// first and last samples sit exactly on the start and end times.
func Resample(out dense.Output[scalar.Real], n int) (Grid, error) {
	if n < 2 {
		return Grid{}, fmt.Errorf("%w: got %d", ErrResolution, n)
	}
	start, err := out.StartTime()
	if err != nil {
		return Grid{}, err
	}
	end, err := out.EndTime()
	if err != nil {
		return Grid{}, err
	}

	g := Grid{Times: make([]float64, n), States: make([][]float64, n)}
	span := end - start
	for i := range n {
		t := start + span*scalar.Real(i)/scalar.Real(n-1)
		if i == n-1 {
			t = end
		}
		x, err := out.Evaluate(t)
		if err != nil {
			return Grid{}, fmt.Errorf("export: evaluate at %g: %w", t.Float(), err)
		}
		g.Times[i] = t.Float()
		g.States[i] = x.Floats()
	}
	return g, nil
}
