package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/trazo/pkg/fonts"
	"github.com/matzehuels/trazo/pkg/lexicon"
	"github.com/matzehuels/trazo/pkg/river"
)

// River drawing constants. Sizes in points unless noted.
const (
	RiverLineWidth = 15.0
	MarkerRadius   = 0.4 // data units
	MarkerAlpha    = 0.7
	HorizonAlpha   = 0.5
	GlyphSize      = 32.0
	LabelSize      = 12.0
	FooterSize     = 14.0
	LabelDrop      = 0.7 // data units below a stop
	FooterY        = 1.5 // data units
)

// SegmentAlpha is the opacity of piece j of a segment sampled with n points.
// It grows from 0.6 towards 1.
func SegmentAlpha(j, n int) float64 {
	if n <= 0 {
		return 0.6
	}
	return 0.6 + 0.4*float64(j)/float64(n)
}

// Footer is the caption under the river.
func Footer(steps int) string {
	word := "pasos"
	if steps == 1 {
		word = "paso"
	}
	return fmt.Sprintf("Un camino de %d %s emocionales", steps, word)
}

// dataSpace maps the river's 10x10 data space onto the canvas, y up.
type dataSpace struct{ w, h float64 }

func (d dataSpace) x(v float64) float64 { return v / river.Extent * d.w }
func (d dataSpace) y(v float64) float64 { return d.h - v/river.Extent*d.h }

// River renders an emoji river. An empty layout is rebuilt from the
// placeholder symbol.
func River(r river.River, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if len(r.Stops) == 0 {
		r = river.Build(nil)
	}
	dc := newContext(opts)
	ds := dataSpace{w: float64(dc.Width()), h: float64(dc.Height())}

	drawHorizon(dc, ds, opts)

	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineWidth(opts.Canvas.Px(RiverLineWidth))
	for _, seg := range r.Segments {
		n := len(seg.Points)
		for j := 0; j < n-1; j++ {
			a, b := seg.Points[j], seg.Points[j+1]
			dc.SetColor(lexicon.HexRGBA(seg.Color, SegmentAlpha(j, n)))
			dc.DrawLine(ds.x(a.X), ds.y(a.Y), ds.x(b.X), ds.y(b.Y))
			dc.Stroke()
		}
	}

	glyph := fonts.ResolveSymbols(opts.SymbolFontPath, GlyphSize, opts.Canvas.DPI)
	initial := opts.face(GlyphSize, fonts.Bold)
	label := opts.face(LabelSize, fonts.Bold)
	rx, ry := ds.x(MarkerRadius), ds.h-ds.y(MarkerRadius)
	for _, s := range r.Stops {
		x, y := ds.x(s.X), ds.y(s.Y)

		dc.SetColor(lexicon.HexRGBA(s.Color, MarkerAlpha))
		dc.DrawEllipse(x, y, rx, ry)
		dc.Fill()

		text, ok := StopGlyph(glyph, s)
		if ok {
			dc.SetFontFace(glyph.Face)
		} else {
			dc.SetFontFace(initial)
		}
		dc.SetHexColor(Ink)
		dc.DrawStringAnchored(text, x, y, 0.5, 0.35)

		dc.SetFontFace(label)
		dc.SetHexColor(Muted)
		dc.DrawStringAnchored(strconv.Itoa(s.Index), x, ds.y(s.Y-LabelDrop), 0.5, 1)
	}

	dc.SetFontFace(opts.face(FooterSize, fonts.Regular))
	dc.SetHexColor(Muted)
	dc.DrawStringAnchored(Footer(len(r.Stops)), ds.w/2, ds.y(FooterY), 0.5, 0.35)

	overlay(dc, opts, RiverTitle)
	return encode(dc)
}

// StopGlyph is what gets drawn on a stop's marker. When the symbol face
// cannot draw the symbol, ok is false and text is the upper-case initial of
// the symbol's register, or its 1-based index for unknown symbols.
func StopGlyph(face fonts.Symbols, s river.Stop) (text string, ok bool) {
	if face.Has(s.Symbol) {
		return fonts.Drawable(s.Symbol), true
	}
	if e, found := lexicon.Lookup(s.Symbol); found {
		return strings.ToUpper(string(e.Register[:1])), false
	}
	return strconv.Itoa(s.Index), false
}

// drawHorizon draws the dashed lines at the top and bottom of the data space.
func drawHorizon(dc *gg.Context, ds dataSpace, opts Options) {
	dc.SetColor(lexicon.HexRGBA(Horizon, HorizonAlpha))
	dc.SetLineWidth(opts.Canvas.Px(1))
	dc.SetLineCap(gg.LineCapButt)
	dc.SetDash(opts.Canvas.Px(4), opts.Canvas.Px(2))
	for _, v := range []float64{0, river.Extent} {
		y := ds.y(v)
		dc.DrawLine(0, y, ds.w, y)
		dc.Stroke()
	}
	dc.SetDash()
}
