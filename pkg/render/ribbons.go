package render

import (
	"github.com/fogleman/gg"

	"github.com/matzehuels/trazo/pkg/descriptor"
	"github.com/matzehuels/trazo/pkg/phase"
	"github.com/matzehuels/trazo/pkg/trace"
)

// Stroke policy for the ribbon path.
const (
	BaseStrokeWidth = 2.0
	MinStrokeWidth  = 1.0
	TaperStart      = 0.7 // fraction of a ribbon after which low calm tapers it
	TaperCalm       = 0.5 // calm at or above this never tapers
)

// WidthScale is the overall stroke factor: it grows with intensity and with
// the absence of calm.
func WidthScale(ni, nc float64) float64 {
	return 1 + 0.5*ni + 0.5*(1-nc)
}

// StrokeWidth returns the width of segment j of n in a ribbon.
func StrokeWidth(j, n int, ni, nc float64) float64 {
	w := BaseStrokeWidth * WidthScale(ni, nc)
	if nc < TaperCalm && n > 1 {
		at := float64(j) / float64(n-1)
		if at > TaperStart {
			progress := (at - TaperStart) / (1 - TaperStart)
			w *= max(0, 1-progress*(1-nc)*2)
		}
	}
	return max(MinStrokeWidth, w)
}

// Ribbons renders a ribbon set on the canvas. Points are in canvas pixels.
// Without ribbons the central trace is stroked instead; a trace shorter than
// two points renders as the bare backdrop.
func Ribbons(tr trace.Trace, ribbons trace.Ribbons, bag descriptor.Bag, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	dc := newContext(opts)
	ni, nc := phase.Normalize(bag)

	dc.SetHexColor(Ink)
	dc.SetLineCap(gg.LineCapRound)
	if len(ribbons) == 0 {
		strokeRibbon(dc, tr, ni, nc)
	}
	for _, line := range ribbons {
		strokeRibbon(dc, line, ni, nc)
	}

	overlay(dc, opts, TraceTitle)
	return encode(dc)
}

func strokeRibbon(dc *gg.Context, line []trace.Point, ni, nc float64) {
	segments := len(line) - 1
	for j := range segments {
		a, b := line[j], line[j+1]
		dc.SetLineWidth(StrokeWidth(j, segments, ni, nc))
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
}
