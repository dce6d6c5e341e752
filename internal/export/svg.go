package export

import (
	"fmt"
	"io"
	"strings"
)

// TimeAxis selects time as the horizontal axis of WriteSVG.
const TimeAxis = -1

// WriteSVG draws dimension dimY against dimX (or against time when dimX is
// TimeAxis) as a single polyline.
func WriteSVG(w io.Writer, g Grid, dimX, dimY, width, height int, stroke string) error {
	if g.Len() < 2 {
		return ErrResolution
	}
	if dimY < 0 || dimY >= g.Dimensions() || dimX < TimeAxis || dimX >= g.Dimensions() {
		return fmt.Errorf("export: dimensions %d/%d outside [0,%d)", dimX, dimY, g.Dimensions())
	}

	xs := g.Times
	if dimX != TimeAxis {
		xs = g.Column(dimX)
	}
	ys := g.Column(dimY)

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke)

	for i := range xs {
		x := (xs[i] - minX) / (maxX - minX) * float64(width)
		y := float64(height) - (ys[i]-minY)/(maxY-minY)*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// bounds returns the range of vs padded by a tenth on each side.
func bounds(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*0.1, hi + r*0.1
}
