package pipeline

import (
	"github.com/matzehuels/trazo/pkg/render"
	"github.com/matzehuels/trazo/pkg/river"
)

// RenderTrace rasterizes a trace layout.
func RenderTrace(l TraceLayout, opts render.Options) ([]byte, error) {
	return render.Ribbons(l.Trace, l.Ribbons, l.Bag, opts)
}

// RenderRiver rasterizes a river layout.
func RenderRiver(r river.River, opts render.Options) ([]byte, error) {
	return render.River(r, opts)
}
