package lexicon

import (
	"image/color"
	"regexp"
	"testing"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"😊", "#FFD700"},
		{"🌊", "#4682B4"},
		{"💚", "#3CB371"},
		{"❤️", "#DC143C"},
		{"🖤", "#000000"},
		{"🤖", DefaultColor},
		{"", DefaultColor},
		{"default", DefaultColor},
	}

	for _, tt := range tests {
		if got := ColorFor(tt.symbol); got != tt.want {
			t.Errorf("ColorFor(%q) = %s, want %s", tt.symbol, got, tt.want)
		}
	}
}

func TestDefaultIsGray(t *testing.T) {
	if ColorFor("🤖") != "#A9A9A9" {
		t.Errorf("unmapped symbol should be #A9A9A9, got %s", ColorFor("🤖"))
	}
}

func TestEntries(t *testing.T) {
	all := Entries()
	if len(all) < 40 {
		t.Fatalf("expected a table of roughly fifty entries, got %d", len(all))
	}

	hexRe := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	seen := make(map[string]bool)
	for _, e := range all {
		if seen[e.Symbol] {
			t.Errorf("duplicate symbol %q", e.Symbol)
		}
		seen[e.Symbol] = true
		if !hexRe.MatchString(e.Color) {
			t.Errorf("%q has malformed color %q", e.Symbol, e.Color)
		}
		if ColorFor(e.Symbol) != e.Color {
			t.Errorf("ColorFor(%q) disagrees with table", e.Symbol)
		}
	}

	// Entries returns a copy.
	all[0].Color = "#000001"
	if Entries()[0].Color == "#000001" {
		t.Error("Entries should not expose the internal table")
	}
}

func TestRegisters(t *testing.T) {
	counts := make(map[Register]int)
	for _, e := range Entries() {
		counts[e.Register]++
	}
	for _, r := range []Register{RegisterJoy, RegisterCalm, RegisterSadness, RegisterEnergy, RegisterGrowth, RegisterMystery} {
		if counts[r] == 0 {
			t.Errorf("register %s has no symbols", r)
		}
	}
	if RegisterFor("😢") != RegisterSadness {
		t.Errorf("RegisterFor(😢) = %s", RegisterFor("😢"))
	}
	if RegisterFor("🤖") != RegisterNeutral {
		t.Errorf("RegisterFor(🤖) = %s", RegisterFor("🤖"))
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("🔥")
	if !ok || e.Color != "#FF4500" || e.Register != RegisterEnergy {
		t.Errorf("Lookup(🔥) = %+v, %v", e, ok)
	}
	e, ok = Lookup("🤖")
	if ok || e.Color != DefaultColor {
		t.Errorf("Lookup(🤖) = %+v, %v", e, ok)
	}
}

func TestSymbols(t *testing.T) {
	syms := Symbols()
	if len(syms) != len(Entries()) {
		t.Fatalf("Symbols() len %d != Entries() len %d", len(syms), len(Entries()))
	}
	if syms[0] != "😊" {
		t.Errorf("first symbol = %q", syms[0])
	}
}

func TestHexRGBA(t *testing.T) {
	got := HexRGBA("#FFD700", 1)
	want := color.NRGBA{R: 255, G: 215, B: 0, A: 255}
	if got != want {
		t.Errorf("HexRGBA = %v, want %v", got, want)
	}

	// Malformed hex falls back to the default gray.
	got = HexRGBA("nope", 0.5)
	if c := got.(color.NRGBA); c.R != 0xA9 || c.A != 128 {
		t.Errorf("fallback color = %v", c)
	}

	// Alpha is clamped.
	if c := HexRGBA("#000000", 3).(color.NRGBA); c.A != 255 {
		t.Errorf("alpha should clamp to 255, got %d", c.A)
	}
}
