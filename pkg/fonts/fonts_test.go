package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestResolveBundled(t *testing.T) {
	face, src, err := Resolve(Spec{Points: 12, DPI: 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != SourceGo {
		t.Errorf("source = %s, want %s", src, SourceGo)
	}
	if face.Metrics().Height <= 0 {
		t.Error("face has no height")
	}
}

func TestResolveMissingFile(t *testing.T) {
	face, src, err := Resolve(Spec{Path: "/nonexistent/font.ttf", Points: 12, DPI: 72})
	if err == nil {
		t.Error("expected the skipped file to be reported")
	}
	if src != SourceGo || face == nil {
		t.Errorf("should fall back to the Go font, got %s", src)
	}
}

func TestResolveCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, src, err := Resolve(Spec{Path: path, Points: 10})
	if err == nil || src != SourceGo {
		t.Errorf("corrupt font: src=%s err=%v", src, err)
	}
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	_, src, err := Resolve(Spec{Path: path, Points: 14, DPI: 150})
	if err != nil || src != SourceFile {
		t.Errorf("src=%s err=%v, want file", src, err)
	}
}

func TestGoWeights(t *testing.T) {
	for _, w := range []Weight{Regular, Bold, Weight(7)} {
		face, err := Go(w, 24, 72)
		if err != nil {
			t.Fatalf("weight %d: %v", w, err)
		}
		if _, ok := face.GlyphAdvance('W'); !ok {
			t.Errorf("weight %d: no glyph for W", w)
		}
	}
}

func TestSymbolsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	s, ok := SymbolsFromFile(path, 32, 150)
	if !ok || s.Source != SourceFile || s.Path != path {
		t.Fatalf("SymbolsFromFile = %+v, %v", s, ok)
	}
	if !s.Has("A") {
		t.Error("Go Regular should draw A")
	}
	for _, sym := range []string{"😊", "🌊", "💚", ""} {
		if s.Has(sym) {
			t.Errorf("Go Regular should not claim %q", sym)
		}
	}
}

func TestResolveSymbolsFallsBack(t *testing.T) {
	s := ResolveSymbols("/nonexistent/emoji.ttf", 32, 150)
	if s.Face == nil || s.Source == SourceFile {
		t.Fatalf("ResolveSymbols = %+v", s)
	}
	if s.Source == SourceGo && s.Has("😊") {
		t.Error("the bundled fallback has no emoji glyphs")
	}
}

func TestDrawable(t *testing.T) {
	tests := []struct{ in, want string }{
		{"❤️", "❤"},
		{"👍🏽", "👍"},
		{"😊", "😊"},
		{"1️⃣", "1"},
	}
	for _, tt := range tests {
		if got := Drawable(tt.in); got != tt.want {
			t.Errorf("Drawable(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
