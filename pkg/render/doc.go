// Package render rasterizes traces and emoji rivers into PNG images.
//
// # Overview
//
// Two drawing policies share one canvas and one overlay:
//
//   - [Ribbons] draws the ribbon set of a text trace in a single neutral ink.
//     Emotion is carried by stroke width alone: intensity and low calm thicken
//     the strokes, and low calm makes the final stretch of every ribbon taper
//     away.
//   - [River] draws an emoji river. Each segment takes the lexicon color of
//     the emoji it leaves from and fades in along its length; every stop gets
//     a colored marker, its glyph, and a 1-based index.
//
// Both add a fixed title and a generation timestamp. The clock is injected
// through [Options], so rendering with a pinned clock is byte-for-byte
// reproducible.
//
//	tr, rb := trace.Generate(bag, phase.Build(bag), trace.DefaultBounds)
//	png, err := render.Ribbons(tr, rb, bag, render.Options{})
//
// # Canvas
//
// The default canvas is 12x8 inches at 150 DPI (1800x1200 px). Sizes given in
// points (line widths, font sizes) scale with the DPI.
//
// # Fonts
//
// Text uses [fonts.Resolve], which falls back from a configured TrueType file
// to the bundled Go fonts and finally to a fixed bitmap face. A missing font
// never fails a render.
//
// [fonts.Resolve]: github.com/matzehuels/trazo/pkg/fonts.Resolve
package render
