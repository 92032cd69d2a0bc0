// Package descriptor derives the numeric summary of a piece of text.
//
// A [Bag] is computed once per input string by [Interpret] and never changes
// afterwards. Every downstream stage (phase planning, trace generation,
// rendering) reads only the bag, so two identical strings always produce the
// same picture.
//
// Derived values use floors instead of failing on degenerate input: the empty
// string yields zero counts, a zero seed and the floor values for wave
// frequency, wave amplitude and point count.
package descriptor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Weights and floors for the derived scalars.
const (
	ExclamationWeight = 2.0
	QuestionWeight    = 1.0
	PeriodWeight      = 1.5

	FrequencyPerVowel     = 0.03
	MinWaveFrequency      = 0.1
	AmplitudePerConsonant = 1.5
	MinWaveAmplitude      = 5.0
	PointsPerRune         = 2
	MinPointCount         = 50
	MaxPointCount         = 3000

	// SeedModulus keeps seeds small. Collisions are accepted: the seed is a
	// reproducibility key, not an identifier.
	SeedModulus = 10000
)

// vowels recognised in addition to plain a/e/i/o/u.
const vowels = "aeiouáéíóú"

// Bag is the descriptor bag of a text. JSON keys follow the diary's Spanish
// vocabulary.
type Bag struct {
	Length       int `json:"longitud"`
	Vowels       int `json:"vocales"`
	Consonants   int `json:"consonantes"`
	Spaces       int `json:"espacios"`
	Words        int `json:"palabras"`
	Exclamations int `json:"signos_exclamacion"`
	Questions    int `json:"signos_pregunta"`
	Periods      int `json:"puntos"`

	Intensity     float64 `json:"intensidad"`
	Calm          float64 `json:"calma"`
	WaveFrequency float64 `json:"frecuencia_onda"`
	WaveAmplitude float64 `json:"amplitud_onda"`
	PointCount    int     `json:"num_puntos"`
	Seed          uint64  `json:"semilla"`
}

// Interpret computes the descriptor bag of text. It never fails.
func Interpret(text string) Bag {
	var b Bag
	var codeSum uint64

	for _, r := range text {
		codeSum += uint64(r)
		switch {
		case unicode.IsSpace(r):
			b.Spaces++
		case r == '!':
			b.Exclamations++
		case r == '?':
			b.Questions++
		case r == '.':
			b.Periods++
		case isVowel(r):
			b.Vowels++
		case unicode.IsLetter(r):
			b.Consonants++
		}
	}

	b.Length = utf8.RuneCountInString(text)
	b.Words = len(strings.Fields(text))

	b.Intensity = ExclamationWeight*float64(b.Exclamations) + QuestionWeight*float64(b.Questions)
	b.Calm = PeriodWeight * float64(b.Periods)
	b.WaveFrequency = max(MinWaveFrequency, FrequencyPerVowel*float64(b.Vowels))
	b.WaveAmplitude = max(MinWaveAmplitude, AmplitudePerConsonant*float64(b.Consonants))
	b.PointCount = min(max(MinPointCount, PointsPerRune*b.Length), MaxPointCount)
	b.Seed = codeSum % SeedModulus

	return b
}

// isVowel reports whether r is a vowel, accented Spanish vowels included.
func isVowel(r rune) bool {
	return strings.ContainsRune(vowels, unicode.ToLower(r))
}

// Empty reports whether the bag was derived from an empty string.
func (b Bag) Empty() bool {
	return b.Length == 0
}
