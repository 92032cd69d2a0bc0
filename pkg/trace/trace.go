// Package trace walks a phase plan into a central polyline and its ribbons.
//
// All randomness comes from a single PCG stream seeded with the bag's seed and
// advanced monotonically across the three phases. Nothing else feeds the
// stream, so the same text always yields the same trace, and concurrent
// callers never share state.
//
//	b := descriptor.Interpret(text)
//	tr, ribbons := trace.Generate(b, phase.Build(b), trace.DefaultBounds)
package trace

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/trazo/pkg/descriptor"
	"github.com/matzehuels/trazo/pkg/phase"
)

const (
	// WaveScale converts a phase amplitude into a per-step displacement.
	WaveScale = 0.1

	// StreamSalt derives the second PCG word from the seed.
	StreamSalt = 0x9e3779b97f4a7c15

	// DefaultMargin keeps the trace this many pixels away from the edges.
	DefaultMargin = 50.0
)

// Point is a position in canvas pixels, y growing downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trace is the central polyline.
type Trace []Point

// Ribbons are the parallel offset polylines derived from a trace.
type Ribbons [][]Point

// Bounds is the drawable canvas.
type Bounds struct {
	Width  float64
	Height float64
	Margin float64
}

// DefaultBounds matches the renderer's default canvas (12x8 in at 150 DPI).
var DefaultBounds = Bounds{Width: 1800, Height: 1200, Margin: DefaultMargin}

// clamp limits p to the margin box.
func (b Bounds) clamp(p Point) Point {
	return Point{
		X: max(b.Margin, min(p.X, b.Width-b.Margin)),
		Y: max(b.Margin, min(p.Y, b.Height-b.Margin)),
	}
}

// NewStream returns the deterministic random stream for a seed.
func NewStream(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^StreamSalt))
}

// Generate produces the trace and ribbon set for a bag and its plan.
func Generate(b descriptor.Bag, plan phase.Plan, bounds Bounds) (Trace, Ribbons) {
	tr := Walk(b, plan, bounds)
	ni, nc := phase.Normalize(b)
	return tr, Offset(tr, RibbonCount(ni, nc), RibbonSpacing(ni, nc))
}

// Start returns the first position: lower-middle of the canvas, pushed
// right and up by intensity, down and left by calm.
func Start(ni, nc float64, bounds Bounds) Point {
	return bounds.clamp(Point{
		X: bounds.Width * (0.25 + 0.10*ni - 0.05*nc),
		Y: bounds.Height * (0.65 - 0.10*ni + 0.10*nc),
	})
}

// Walk generates the central trace by stepping through every phase in order.
func Walk(b descriptor.Bag, plan phase.Plan, bounds Bounds) Trace {
	rng := NewStream(b.Seed)
	ni, nc := phase.Normalize(b)
	pos := Start(ni, nc, bounds)

	tr := make(Trace, 0, plan.Total())
	offset := 0
	for _, ph := range plan {
		for i := range ph.Points {
			jitter := 0.8 + 0.4*rng.Float64()
			angle := float64(i+offset) * ph.Frequency * jitter
			waveX := ph.Amplitude * WaveScale * math.Sin(angle)
			waveY := ph.Amplitude * WaveScale * math.Cos(angle)

			pos.X += ph.Advance.DX + ph.Noise*rng.NormFloat64() + waveX
			pos.Y += ph.Advance.DY + ph.Noise*rng.NormFloat64() + waveY
			pos = bounds.clamp(pos)

			tr = append(tr, Point{X: math.Round(pos.X), Y: math.Round(pos.Y)})
		}
		offset += ph.Points
	}
	return tr
}
