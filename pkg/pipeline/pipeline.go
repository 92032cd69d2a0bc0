// Package pipeline provides the generation pipeline for trazo.
//
// This package implements the complete parse → layout → render pipeline that
// is shared by the CLI, the HTTP server and the diary. By centralizing this
// logic, every entry point interprets input, caches renders and names saved
// images the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: interpret text into a descriptor bag (or split an emoji
//     sequence into symbols)
//  2. Layout: plan the phases and walk the trace and its ribbons (or lay the
//     symbols out along the river)
//  3. Render: rasterize the layout into a PNG
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(nil, gallery.NewDirStore(""), logger)
//	res, err := runner.TextTrace(ctx, "¡Hola! ¿Cómo estás?")
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("trazo.png", res.PNG, 0644)
//
// Save straight to the gallery:
//
//	res, err := runner.SaveTextTrace(ctx, text)
//	fmt.Println(res.Image.Location) // imagenes_generadas/trazo_20240301_123000.png
//
// Run individual stages:
//
//	bag := pipeline.ParseText(text)
//	l := pipeline.LayoutTrace(bag)
//	png, err := pipeline.RenderTrace(l, render.Options{})
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/trazo/pkg/cache"
	"github.com/matzehuels/trazo/pkg/descriptor"
	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/gallery"
	"github.com/matzehuels/trazo/pkg/phase"
	"github.com/matzehuels/trazo/pkg/render"
	"github.com/matzehuels/trazo/pkg/river"
	"github.com/matzehuels/trazo/pkg/trace"
)

// Result contains the outputs of a pipeline run. Exactly one of the trace
// fields or River is set, depending on Kind.
type Result struct {
	Kind  gallery.Kind `json:"kind"`
	Input string       `json:"input"`

	// Text path
	Bag     *descriptor.Bag `json:"bag,omitempty"`
	Plan    *phase.Plan     `json:"plan,omitempty"`
	Trace   trace.Trace     `json:"-"`
	Ribbons trace.Ribbons   `json:"-"`

	// Emoji path
	River *river.River `json:"river,omitempty"`

	// PNG is the rendered image.
	PNG []byte `json:"-"`

	// Image is set when the result was saved to the gallery.
	Image *gallery.Image `json:"image,omitempty"`

	// RenderedAt is the timestamp drawn on the image.
	RenderedAt time.Time `json:"rendered_at"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points     int           `json:"points,omitempty"`
	Ribbons    int           `json:"ribbons,omitempty"`
	Stops      int           `json:"stops,omitempty"`
	Bytes      int           `json:"bytes"`
	ParseTime  time.Duration `json:"parse_ns"`
	LayoutTime time.Duration `json:"layout_ns"`
	RenderTime time.Duration `json:"render_ns"`
}

// RenderTextTrace renders text as a trace with a default runner.
func RenderTextTrace(text string) ([]byte, error) {
	return NewRunner(nil, nil, nil).RenderTextTrace(context.Background(), text)
}

// RenderEmojiRiver renders a whitespace-separated emoji sequence with a
// default runner.
func RenderEmojiRiver(seq string) ([]byte, error) {
	return NewRunner(nil, nil, nil).RenderEmojiRiver(context.Background(), seq)
}

// SaveTextTrace renders text and saves it under dir (created on demand) as
// trazo_<YYYYMMDD_HHMMSS>.png. It returns the saved file's path.
func SaveTextTrace(text, dir string) (string, error) {
	res, err := NewRunner(nil, gallery.NewDirStore(dir), nil).SaveTextTrace(context.Background(), text)
	if err != nil {
		return "", err
	}
	return res.Image.Location, nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures how a Runner renders.
type Options struct {
	// Canvas is the figure size. The zero value uses render.DefaultCanvas.
	Canvas render.Canvas

	// FontPath is an optional TrueType file tried before the bundled fonts.
	FontPath string

	// SymbolFontPath is an optional emoji font for river stops. When unset
	// the system fonts are searched.
	SymbolFontPath string

	// Refresh skips cache reads. Fresh renders are still written back.
	Refresh bool
}

// ValidateAndSetDefaults fills zero fields and rejects unusable ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Canvas == (render.Canvas{}) {
		o.Canvas = render.DefaultCanvas
	}
	if err := ValidCanvas(o.Canvas); err != nil {
		return err
	}
	if o.FontPath != "" {
		if _, err := os.Stat(o.FontPath); err != nil {
			return terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "font file %s not readable", o.FontPath)
		}
	}
	if o.SymbolFontPath != "" {
		if _, err := os.Stat(o.SymbolFontPath); err != nil {
			return terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "emoji font file %s not readable", o.SymbolFontPath)
		}
	}
	return nil
}

// ValidCanvas rejects non-positive or oversized canvases.
func ValidCanvas(c render.Canvas) error {
	if c.WidthIn <= 0 || c.HeightIn <= 0 || c.DPI <= 0 {
		return terrors.New(terrors.ErrCodeInvalidConfig, "canvas must be positive, got %gx%g in at %g dpi", c.WidthIn, c.HeightIn, c.DPI)
	}
	if c.Width() > MaxCanvasPixels || c.Height() > MaxCanvasPixels {
		return terrors.New(terrors.ErrCodeInvalidConfig, "canvas exceeds %d px per side", MaxCanvasPixels)
	}
	return nil
}

// MaxCanvasPixels caps each canvas side.
const MaxCanvasPixels = 8000

// bounds maps a canvas to trace bounds.
func bounds(c render.Canvas) trace.Bounds {
	return trace.Bounds{
		Width:  float64(c.Width()),
		Height: float64(c.Height()),
		Margin: trace.DefaultMargin,
	}
}

func (o Options) keyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		WidthIn:    o.Canvas.WidthIn,
		HeightIn:   o.Canvas.HeightIn,
		DPI:        o.Canvas.DPI,
		FontPath:   o.FontPath,
		SymbolFont: o.SymbolFontPath,
	}
}
