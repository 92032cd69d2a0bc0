package pipeline

import (
	"github.com/matzehuels/trazo/pkg/descriptor"
	"github.com/matzehuels/trazo/pkg/phase"
	"github.com/matzehuels/trazo/pkg/river"
	"github.com/matzehuels/trazo/pkg/trace"
)

// TraceLayout is everything derived from one text before rendering.
type TraceLayout struct {
	Bag     descriptor.Bag
	Plan    phase.Plan
	Trace   trace.Trace
	Ribbons trace.Ribbons
}

// LayoutTrace plans the phases and walks the trace on the default bounds.
func LayoutTrace(bag descriptor.Bag) TraceLayout {
	return LayoutTraceIn(bag, trace.DefaultBounds)
}

// LayoutTraceIn is LayoutTrace on explicit bounds.
func LayoutTraceIn(bag descriptor.Bag, bounds trace.Bounds) TraceLayout {
	plan := phase.Build(bag)
	tr, rb := trace.Generate(bag, plan, bounds)
	return TraceLayout{Bag: bag, Plan: plan, Trace: tr, Ribbons: rb}
}

// LayoutRiver lays symbols out along the river.
func LayoutRiver(symbols []string) river.River {
	return river.Build(symbols)
}
