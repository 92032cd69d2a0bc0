package pipeline

import (
	"github.com/matzehuels/trazo/pkg/descriptor"
	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/river"
)

// ParseText interprets text. Any string is accepted: the descriptor caps the
// point count, so long or unusual text only changes the drawing.
func ParseText(text string) descriptor.Bag {
	return descriptor.Interpret(text)
}

// ParseEmojis splits a sequence into symbols. An empty sequence yields the
// placeholder symbol, and sequences longer than MaxSymbols keep their first
// MaxSymbols symbols.
func ParseEmojis(seq string) []string {
	symbols := river.Parse(seq)
	if len(symbols) > terrors.MaxSymbols {
		symbols = symbols[:terrors.MaxSymbols]
	}
	return symbols
}
