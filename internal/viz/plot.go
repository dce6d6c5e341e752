package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dynout/internal/export"
)

// Plot charts every dimension of g in its own graph.
func Plot(g export.Grid, width, height int) string {
	var b strings.Builder
	for i := range g.Dimensions() {
		caption := fmt.Sprintf("x%d over [%.3g, %.3g]", i, g.Times[0], g.Times[g.Len()-1])
		b.WriteString(asciigraph.Plot(g.Column(i),
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		))
		b.WriteString("\n\n")
	}
	return b.String()
}

// PlotOverlay charts several series on shared axes, for instance the dense
// output next to a reference solution.
func PlotOverlay(series [][]float64, width, height int, caption string) string {
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PhasePortrait draws dimension j against dimension i on a Braille canvas
// of w by h cells.
func PhasePortrait(g export.Grid, i, j, w, h int) (string, error) {
	if d := g.Dimensions(); i < 0 || j < 0 || i >= d || j >= d {
		return "", fmt.Errorf("viz: dimensions %d/%d outside [0,%d)", i, j, d)
	}
	xs, ys := g.Column(i), g.Column(j)
	x0, x1 := span(xs)
	y0, y1 := span(ys)

	c := NewCanvas(w, h)
	px := func(k int) (int, int) {
		x := (xs[k] - x0) / (x1 - x0) * float64(w*2-1)
		y := (y1 - ys[k]) / (y1 - y0) * float64(h*4-1)
		return int(x + 0.5), int(y + 0.5)
	}
	ax, ay := px(0)
	for k := 1; k < len(xs); k++ {
		bx, by := px(k)
		c.DrawLine(ax, ay, bx, by)
		ax, ay = bx, by
	}
	return c.String(), nil
}

func span(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}
