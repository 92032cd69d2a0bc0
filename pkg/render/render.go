package render

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/trazo/pkg/fonts"
)

// Palette.
const (
	Background = "#F5F5F5"
	Ink        = "#2C3E50"
	Muted      = "#555555"
	Horizon    = "#E0E0E0"
)

// Titles drawn at the top of each image.
const (
	TraceTitle = "El Trazo de tu Pensamiento"
	RiverTitle = "El Río de tu Pensamiento"
)

// StampLayout formats the generation timestamp.
const StampLayout = "2006-01-02 15:04:05"

// Canvas is a figure size in inches plus a raster density.
type Canvas struct {
	WidthIn  float64 `json:"width_in" toml:"width_in"`
	HeightIn float64 `json:"height_in" toml:"height_in"`
	DPI      float64 `json:"dpi" toml:"dpi"`
}

// DefaultCanvas is 12x8 in at 150 DPI.
var DefaultCanvas = Canvas{WidthIn: 12, HeightIn: 8, DPI: 150}

// Width in pixels.
func (c Canvas) Width() int { return int(c.WidthIn*c.DPI + 0.5) }

// Height in pixels.
func (c Canvas) Height() int { return int(c.HeightIn*c.DPI + 0.5) }

// Px converts points to pixels.
func (c Canvas) Px(points float64) float64 { return points * c.DPI / 72 }

func (c Canvas) valid() bool {
	return c.WidthIn > 0 && c.HeightIn > 0 && c.DPI > 0
}

// Options configures a render.
type Options struct {
	Canvas         Canvas
	FontPath       string
	SymbolFontPath string // emoji font for river stops
	Now            func() time.Time

	// OmitStamp leaves the timestamp off so it can be added by Stamp.
	OmitStamp bool
}

func (o Options) withDefaults() Options {
	if !o.Canvas.valid() {
		o.Canvas = DefaultCanvas
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// face resolves a face at a point size on this canvas.
func (o Options) face(points float64, w fonts.Weight) font.Face {
	return fonts.Face(fonts.Spec{
		Path:   o.FontPath,
		Points: points,
		DPI:    o.Canvas.DPI,
		Weight: w,
	})
}

func newContext(o Options) *gg.Context {
	dc := gg.NewContext(o.Canvas.Width(), o.Canvas.Height())
	dc.SetHexColor(Background)
	dc.Clear()
	return dc
}

// overlay draws the title at the top and, unless omitted, the timestamp in
// the lower right.
func overlay(dc *gg.Context, o Options, title string) {
	w, h := float64(dc.Width()), float64(dc.Height())

	dc.SetFontFace(o.face(24, fonts.Bold))
	dc.SetHexColor(Ink)
	dc.DrawStringAnchored(title, w/2, h*0.05, 0.5, 1)

	if !o.OmitStamp {
		stamp(dc, o)
	}
}

func stamp(dc *gg.Context, o Options) {
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetFontFace(o.face(9, fonts.Regular))
	dc.SetHexColor(Muted)
	text := "Generado: " + o.Now().Format(StampLayout)
	dc.DrawStringAnchored(text, w-o.Canvas.Px(12), h-o.Canvas.Px(10), 1, 0)
}

// Stamp draws the timestamp onto a PNG rendered with OmitStamp.
func Stamp(data []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	dc := gg.NewContextForImage(img)
	stamp(dc, opts)
	return encode(dc)
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
