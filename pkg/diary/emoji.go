package diary

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// ExtractEmojis returns the emoji grapheme clusters of s in order. Clusters
// such as "❤️" (base plus variation selector) or family sequences joined
// with ZWJ are returned whole.
func ExtractEmojis(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if runes := gr.Runes(); isEmoji(runes) {
			out = append(out, gr.Str())
		}
	}
	return out
}

const (
	variationSelector16 = 0xFE0F
	combiningKeycap     = 0x20E3
)

func isEmoji(cluster []rune) bool {
	if len(cluster) == 0 {
		return false
	}
	for _, r := range cluster[1:] {
		if r == variationSelector16 || r == combiningKeycap {
			return true
		}
	}
	return isPictographic(cluster[0])
}

// isPictographic covers the blocks emoji are drawn from.
func isPictographic(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // symbols, pictographs, flags
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2300 && r <= 0x23FF: // misc technical
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows, stars
		return true
	case r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	}
	return false
}

// Command is a recognized image request.
type Command struct {
	// Name is the trigger as written in the command table.
	Name string
	// Kind selects what gets drawn.
	Kind CommandKind
	// Rest is the message with the trigger removed.
	Rest string
}

// CommandKind selects the image a command produces.
type CommandKind int

const (
	// CommandTrace draws the stored interpretation as a text trace.
	CommandTrace CommandKind = iota
	// CommandRiver draws the accumulated emoji as a river.
	CommandRiver
)

// ImageCommands trigger a trace of the stored interpretation.
var ImageCommands = []string{"/imagen", "!imagen", "visualiza", "crea imagen", "genera imagen"}

// RiverCommands trigger a river of the accumulated emoji.
var RiverCommands = []string{"/rio", "!rio", "/río", "!río"}

// DetectImageCommand reports whether msg asks for an image. Matching is
// case-insensitive and may occur anywhere in the message, as long as the
// trigger stands as its own word.
func DetectImageCommand(msg string) (Command, bool) {
	lower := strings.ToLower(msg)
	for _, table := range []struct {
		kind  CommandKind
		names []string
	}{
		{CommandRiver, RiverCommands},
		{CommandTrace, ImageCommands},
	} {
		for _, name := range table.names {
			i := indexWord(lower, name)
			if i < 0 {
				continue
			}
			rest := msg[:i] + msg[i+len(name):]
			if len(lower) != len(msg) {
				// Lowercasing changed byte offsets; fall back to the lowered text.
				rest = lower[:i] + lower[i+len(name):]
			}
			return Command{Name: name, Kind: table.kind, Rest: strings.TrimSpace(rest)}, true
		}
	}
	return Command{}, false
}

// indexWord is strings.Index restricted to matches not glued to a letter or
// digit on either side.
func indexWord(s, word string) int {
	for off := 0; off <= len(s); {
		i := strings.Index(s[off:], word)
		if i < 0 {
			return -1
		}
		i += off
		end := i + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return i
		}
		off = i + 1
	}
	return -1
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
