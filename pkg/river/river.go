// Package river lays an emoji sequence out along a fixed sinusoid.
//
// The river lives in a 10x10 data space. Stops are spaced evenly between
// x=1 and x=9; the water between two stops is sampled from a fixed grid of
// points and takes the color of the stop it leaves from. It is the simple,
// single-phase sibling of the text trace: no seed, no noise.
package river

import (
	"math"
	"strings"

	"github.com/matzehuels/trazo/pkg/lexicon"
)

// Layout constants in data units.
const (
	Extent     = 10.0
	FirstStop  = 1.0
	LastStop   = 9.0
	BaseY      = 5.0
	WaveHeight = 0.3
	WaveLength = 2.0
	Samples    = 200
)

// Placeholder replaces an empty symbol list.
const Placeholder = "❓"

// Point is a position in data units, y growing upwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stop is one emoji on the river.
type Stop struct {
	Index  int     `json:"index"`
	Symbol string  `json:"symbol"`
	Color  string  `json:"color"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Segment is the stretch of water between two consecutive stops.
type Segment struct {
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// River is the full layout.
type River struct {
	Stops    []Stop    `json:"stops"`
	Segments []Segment `json:"segments"`
}

// Parse splits a whitespace-separated emoji sequence. An empty sequence
// yields the placeholder symbol.
func Parse(seq string) []string {
	symbols := strings.Fields(seq)
	if len(symbols) == 0 {
		return []string{Placeholder}
	}
	return symbols
}

// WaveY is the river's height at x.
func WaveY(x float64) float64 {
	return BaseY + WaveHeight*math.Sin(2*math.Pi*x/WaveLength)
}

// Build lays out symbols. Empty input is replaced by the placeholder.
func Build(symbols []string) River {
	if len(symbols) == 0 {
		symbols = []string{Placeholder}
	}

	xs := linspace(FirstStop, LastStop, len(symbols))
	stops := make([]Stop, len(symbols))
	for i, s := range symbols {
		stops[i] = Stop{
			Index:  i + 1,
			Symbol: s,
			Color:  lexicon.ColorFor(s),
			X:      xs[i],
			Y:      WaveY(xs[i]),
		}
	}

	grid := linspace(0, Extent, Samples)
	segments := make([]Segment, 0, max(len(stops)-1, 0))
	for i := 0; i < len(stops)-1; i++ {
		start, end := stops[i].X, stops[i+1].X
		var pts []Point
		for _, x := range grid {
			if x >= start && x <= end {
				pts = append(pts, Point{X: x, Y: WaveY(x)})
			}
		}
		segments = append(segments, Segment{Color: stops[i].Color, Points: pts})
	}

	return River{Stops: stops, Segments: segments}
}

// linspace returns n evenly spaced values over [start, stop]. A single value
// is start.
func linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
