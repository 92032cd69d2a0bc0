// Package phase plans the three motion regimes of a text trace.
//
// A [Plan] always has exactly three phases, walked in order by the trace
// generator:
//
//  1. Accelerate: a decisive push, fast and tight.
//  2. Expand: a dispersive burst, loose and noisy.
//  3. Contract: an uncertain taper that absorbs the remaining points.
//
// Intensity and calm are normalized against fixed reference maxima and
// saturate at 1. Higher intensity means a larger advance, higher frequency
// and lower amplitude; higher calm means a smaller advance, larger amplitude,
// lower frequency and less noise. The coefficients below are hand-tuned and
// form the reproducibility contract: changing one changes every picture.
package phase

import "github.com/matzehuels/trazo/pkg/descriptor"

// Reference maxima for normalization.
const (
	MaxIntensity = 10.0
	MaxCalm      = 5.0
)

// Point-count shares.
const (
	AccelerateShare = 0.3
	ExpandShare     = 0.4
	MinPhasePoints  = 20
	MinTailPoints   = 10
)

// Kind names a phase.
type Kind string

const (
	KindAccelerate Kind = "accelerate"
	KindExpand     Kind = "expand"
	KindContract   Kind = "contract"
)

// Vector is a per-step advance.
type Vector struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Phase holds the motion parameters of one regime.
type Phase struct {
	Kind      Kind    `json:"kind"`
	Points    int     `json:"points"`
	Advance   Vector  `json:"advance"`
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
	Noise     float64 `json:"noise"`
}

// Plan is the ordered sequence of phases.
type Plan [3]Phase

// Total returns the sum of the phase point counts.
func (p Plan) Total() int {
	return p[0].Points + p[1].Points + p[2].Points
}

// Normalize maps a bag's intensity and calm into [0, 1].
func Normalize(b descriptor.Bag) (intensity, calm float64) {
	return clamp01(b.Intensity / MaxIntensity), clamp01(b.Calm / MaxCalm)
}

// Build computes the three-phase plan for a descriptor bag.
func Build(b descriptor.Bag) Plan {
	ni, nc := Normalize(b)
	wa, wf := b.WaveAmplitude, b.WaveFrequency
	total := b.PointCount

	p1 := share(total, AccelerateShare)
	p2 := share(total, ExpandShare)
	p3 := max(MinTailPoints, total-p1-p2)

	return Plan{
		{
			Kind:      KindAccelerate,
			Points:    p1,
			Advance:   Vector{DX: 2.0 + 3.0*ni - 1.0*nc, DY: -(1.0 + 1.5*ni - 0.5*nc)},
			Amplitude: wa * (0.6 - 0.3*ni + 0.4*nc),
			Frequency: wf * (1.0 + 0.8*ni - 0.4*nc),
			Noise:     1.5 + 2.0*ni - 1.0*nc,
		},
		{
			Kind:      KindExpand,
			Points:    p2,
			Advance:   Vector{DX: 1.5 + 2.0*ni - 0.8*nc, DY: -0.3 + 0.6*ni - 0.4*nc},
			Amplitude: wa * (1.2 - 0.4*ni + 0.6*nc),
			Frequency: wf * (0.8 + 0.6*ni - 0.3*nc),
			Noise:     3.0 + 3.0*ni - 1.5*nc,
		},
		{
			Kind:      KindContract,
			Points:    p3,
			Advance:   Vector{DX: 0.8 + 1.0*ni - 0.5*nc, DY: 0.5 + 0.5*ni - 0.3*nc},
			Amplitude: wa * (0.4 - 0.2*ni + 0.3*nc),
			Frequency: wf * (1.2 + 0.5*ni - 0.5*nc),
			Noise:     2.0 + 1.5*ni - 1.0*nc,
		},
	}
}

// share is a fraction of total, floored at MinPhasePoints and capped at half
// the total. The floor wins when total is tiny.
func share(total int, fraction float64) int {
	n := int(float64(total) * fraction)
	n = min(n, total/2)
	return max(n, MinPhasePoints)
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
