// Package lexicon maps emoji to the colors of their emotional register.
//
// The table is fixed: callers rely on which symbols get a dedicated color, so
// the key set is part of the contract and can be enumerated with [Entries] or
// [Symbols]. Unknown symbols resolve to [DefaultColor].
//
//	lexicon.ColorFor("😊") // "#FFD700"
//	lexicon.ColorFor("🤖") // "#A9A9A9"
package lexicon

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Register groups symbols by the emotion they evoke.
type Register string

// Emotional registers, in table order.
const (
	RegisterJoy     Register = "joy"
	RegisterCalm    Register = "calm"
	RegisterSadness Register = "sadness"
	RegisterEnergy  Register = "energy"
	RegisterGrowth  Register = "growth"
	RegisterMystery Register = "mystery"
	RegisterNeutral Register = "neutral"
)

// DefaultColor is returned for symbols without a dedicated color.
const DefaultColor = "#A9A9A9"

// Entry is one row of the lexicon.
type Entry struct {
	Symbol   string
	Color    string
	Register Register
}

var entries = []Entry{
	{"😊", "#FFD700", RegisterJoy},
	{"😃", "#FFA500", RegisterJoy},
	{"😄", "#FFB347", RegisterJoy},
	{"🥰", "#FF69B4", RegisterJoy},
	{"😍", "#FF1493", RegisterJoy},
	{"🤗", "#FF6B9D", RegisterJoy},
	{"😁", "#FFDB58", RegisterJoy},
	{"🌟", "#FFD700", RegisterJoy},
	{"✨", "#E6E6FA", RegisterJoy},
	{"💖", "#FF69B4", RegisterJoy},
	{"💕", "#FFB6C1", RegisterJoy},
	{"❤️", "#DC143C", RegisterJoy},
	{"🌸", "#FFB7C5", RegisterJoy},
	{"🌺", "#FF6B9D", RegisterJoy},
	{"🌼", "#FFDB58", RegisterJoy},

	{"😌", "#87CEEB", RegisterCalm},
	{"😇", "#B0E0E6", RegisterCalm},
	{"🌊", "#4682B4", RegisterCalm},
	{"💙", "#1E90FF", RegisterCalm},
	{"💚", "#3CB371", RegisterCalm},
	{"🌿", "#90EE90", RegisterCalm},
	{"🍃", "#98FB98", RegisterCalm},
	{"🌱", "#32CD32", RegisterCalm},
	{"☁️", "#E0E0E0", RegisterCalm},
	{"🌙", "#F0E68C", RegisterCalm},
	{"⭐", "#FFFACD", RegisterCalm},

	{"😢", "#4169E1", RegisterSadness},
	{"😭", "#0000CD", RegisterSadness},
	{"😔", "#6495ED", RegisterSadness},
	{"💔", "#8B0000", RegisterSadness},
	{"🌧️", "#778899", RegisterSadness},
	{"☔", "#696969", RegisterSadness},
	{"💧", "#ADD8E6", RegisterSadness},

	{"🔥", "#FF4500", RegisterEnergy},
	{"⚡", "#FFFF00", RegisterEnergy},
	{"💥", "#FF6347", RegisterEnergy},
	{"🌋", "#DC143C", RegisterEnergy},

	{"🌳", "#228B22", RegisterGrowth},
	{"🌲", "#006400", RegisterGrowth},
	{"🌴", "#00FF00", RegisterGrowth},
	{"🪴", "#3CB371", RegisterGrowth},

	{"🌑", "#2F4F4F", RegisterMystery},
	{"🖤", "#000000", RegisterMystery},
	{"💜", "#8B008B", RegisterMystery},
	{"🔮", "#9370DB", RegisterMystery},
}

var bySymbol = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Symbol] = e
	}
	return m
}()

// ColorFor returns the hex color for symbol, or DefaultColor if it is unmapped.
func ColorFor(symbol string) string {
	if e, ok := bySymbol[symbol]; ok {
		return e.Color
	}
	return DefaultColor
}

// Lookup returns the entry for symbol. Unmapped symbols yield a neutral entry
// carrying DefaultColor and ok == false.
func Lookup(symbol string) (Entry, bool) {
	if e, ok := bySymbol[symbol]; ok {
		return e, true
	}
	return Entry{Symbol: symbol, Color: DefaultColor, Register: RegisterNeutral}, false
}

// RegisterFor returns the emotional register of symbol.
func RegisterFor(symbol string) Register {
	e, _ := Lookup(symbol)
	return e.Register
}

// Entries returns a copy of the full table in declaration order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Symbols returns every mapped symbol in declaration order.
func Symbols() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Symbol
	}
	return out
}

// RGBA resolves symbol to a color with the given alpha in [0, 1].
func RGBA(symbol string, alpha float64) color.Color {
	return HexRGBA(ColorFor(symbol), alpha)
}

// HexRGBA parses a "#RRGGBB" color and applies alpha. Malformed input falls
// back to DefaultColor.
func HexRGBA(hex string, alpha float64) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultColor)
	}
	alpha = max(0, min(alpha, 1))
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
