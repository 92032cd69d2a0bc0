package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// SymbolFonts are the outline fonts with pictograph coverage looked up in
// the system font directories, in order of preference. Color bitmap emoji
// fonts cannot be rasterized by freetype and are not listed.
var SymbolFonts = []string{
	"NotoEmoji-Regular.ttf",
	"NotoEmoji.ttf",
	"Symbola.ttf",
	"NotoSansSymbols2-Regular.ttf",
	"seguisym.ttf",
	"DejaVuSans.ttf",
}

// SourceSystem marks a symbol face found among the system fonts.
const SourceSystem Source = "system"

// Symbols is a face for emoji and pictographs. It knows which runes it can
// really draw, so callers can fall back instead of drawing .notdef boxes.
type Symbols struct {
	Face   font.Face
	Source Source
	Path   string

	has func(r rune) bool
}

// Has reports whether every drawable rune of s has a glyph. Joiners,
// variation selectors and skin tone modifiers are ignored.
func (s Symbols) Has(symbol string) bool {
	n := 0
	for _, r := range symbol {
		if ignorable(r) {
			continue
		}
		if s.has == nil || !s.has(r) {
			return false
		}
		n++
	}
	return n > 0
}

// Drawable strips the runes Has ignores.
func Drawable(symbol string) string {
	out := make([]rune, 0, len(symbol))
	for _, r := range symbol {
		if !ignorable(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

func ignorable(r rune) bool {
	switch {
	case r == 0x200D, r == 0x20E3:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	}
	return false
}

// Parsed symbol fonts by path. A failed parse is remembered as nil.
var (
	symbolMu    sync.Mutex
	symbolFonts = map[string]*truetype.Font{}

	systemOnce sync.Once
	systemPath string
)

func parseSymbolFont(path string) *truetype.Font {
	symbolMu.Lock()
	defer symbolMu.Unlock()
	if f, ok := symbolFonts[path]; ok {
		return f
	}
	var f *truetype.Font
	if data, err := os.ReadFile(path); err == nil {
		f, _ = truetype.Parse(data)
	}
	symbolFonts[path] = f
	return f
}

// systemSymbolPath is the first of SymbolFonts installed on this machine.
func systemSymbolPath() string {
	systemOnce.Do(func() {
		for _, name := range SymbolFonts {
			if p, err := findfont.Find(name); err == nil {
				systemPath = p
				return
			}
		}
	})
	return systemPath
}

// SymbolsFromFile loads a TrueType file as a symbol face.
func SymbolsFromFile(path string, points, dpi float64) (Symbols, bool) {
	f := parseSymbolFont(path)
	if f == nil {
		return Symbols{}, false
	}
	face := truetype.NewFace(f, &truetype.Options{Size: points, DPI: dpi, Hinting: font.HintingFull})
	return Symbols{
		Face:   face,
		Source: SourceFile,
		Path:   path,
		has:    func(r rune) bool { return f.Index(r) != 0 },
	}, true
}

// ResolveSymbols picks a symbol face: the configured file, then the first
// installed entry of SymbolFonts, then the bundled Go font. Only the last
// one is guaranteed, and it has no emoji.
func ResolveSymbols(path string, points, dpi float64) Symbols {
	if dpi <= 0 {
		dpi = 72
	}
	if path != "" {
		if s, ok := SymbolsFromFile(path, points, dpi); ok {
			return s
		}
	}
	if p := systemSymbolPath(); p != "" {
		if s, ok := SymbolsFromFile(p, points, dpi); ok {
			s.Source = SourceSystem
			return s
		}
	}
	face, src, _ := Resolve(Spec{Points: points, DPI: dpi})
	return Symbols{
		Face:   face,
		Source: src,
		has: func(r rune) bool {
			_, ok := face.GlyphAdvance(r)
			return ok
		},
	}
}
