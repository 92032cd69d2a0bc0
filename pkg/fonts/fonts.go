// Package fonts resolves font faces for PNG rendering.
//
// Faces are resolved through a fixed fallback chain: a configured TrueType
// file, then the bundled Go fonts, then [basicfont.Face7x13]. Resolution
// never fails; a broken font file only costs typography.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects the bundled fallback face.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// Source names where a resolved face came from.
type Source string

const (
	SourceFile  Source = "file"
	SourceGo    Source = "go"
	SourceBasic Source = "basic"
)

// Spec describes a face to resolve.
type Spec struct {
	Path   string  // optional TrueType file
	Points float64 // size in points
	DPI    float64
	Weight Weight
}

// Cache for parsed bundled fonts (parsed once on first access).
var (
	goFonts     [2]*opentype.Font
	goFontsErr  [2]error
	goFontsOnce [2]sync.Once
)

func bundled(w Weight) (*opentype.Font, error) {
	if w != Bold {
		w = Regular
	}
	goFontsOnce[w].Do(func() {
		data := goregular.TTF
		if w == Bold {
			data = gobold.TTF
		}
		goFonts[w], goFontsErr[w] = opentype.Parse(data)
	})
	return goFonts[w], goFontsErr[w]
}

// LoadFile parses a TrueType file into a face.
func LoadFile(path string, points, dpi float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    points,
		DPI:     dpi,
		Hinting: font.HintingFull,
	}), nil
}

// Go returns a face from the bundled Go fonts.
func Go(w Weight, points, dpi float64) (font.Face, error) {
	f, err := bundled(w)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    points,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

// Resolve walks the fallback chain and reports which source served the
// face. The error, when non-nil, explains why the preferred source was
// skipped; the face is always usable.
func Resolve(s Spec) (font.Face, Source, error) {
	if s.DPI <= 0 {
		s.DPI = 72
	}
	var skipped error
	if s.Path != "" {
		face, err := LoadFile(s.Path, s.Points, s.DPI)
		if err == nil {
			return face, SourceFile, nil
		}
		skipped = err
	}
	face, err := Go(s.Weight, s.Points, s.DPI)
	if err == nil {
		return face, SourceGo, skipped
	}
	if skipped == nil {
		skipped = err
	}
	return basicfont.Face7x13, SourceBasic, skipped
}

// Face is Resolve without the diagnostics.
func Face(s Spec) font.Face {
	face, _, _ := Resolve(s)
	return face
}
