package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/trazo/pkg/lexicon"
)

// Greeting answers messages that carry no emoji in an empty session.
const Greeting = "🌊 Hola, soy tu Diario Intuitivo. Envíame un emoji por cada minuto y te contaré qué emoción percibo en cada uno y hacia dónde fluye tu río emocional. Cuando quieras verlo, escribe /imagen."

var registerNames = map[lexicon.Register]string{
	lexicon.RegisterJoy:     "la alegría",
	lexicon.RegisterCalm:    "la calma",
	lexicon.RegisterSadness: "la tristeza",
	lexicon.RegisterEnergy:  "la energía",
	lexicon.RegisterGrowth:  "el crecimiento",
	lexicon.RegisterMystery: "el misterio",
	lexicon.RegisterNeutral: "algo difícil de nombrar",
}

// RegisterName is the Spanish name of an emotional register, article
// included.
func RegisterName(r lexicon.Register) string {
	if n, ok := registerNames[r]; ok {
		return n
	}
	return registerNames[lexicon.RegisterNeutral]
}

// Offline interprets emoji from the lexicon. It is deterministic and never
// fails.
type Offline struct{}

func (Offline) Name() string { return "offline" }

func (o Offline) Reply(ctx context.Context, req Request) (string, error) {
	return observe(ctx, "offline", "lexicon", func() (string, error) {
		return o.interpret(req), nil
	})
}

func (Offline) interpret(req Request) string {
	if len(req.New) == 0 {
		if len(req.Emojis) == 0 {
			return Greeting
		}
		return fmt.Sprintf("Llevamos %d emojis en tu río. %s Envíame otro emoji o escribe /imagen para visualizarlo.",
			len(req.Emojis), panorama(req.Emojis))
	}

	var b strings.Builder
	for _, e := range req.New {
		fmt.Fprintf(&b, "%s → %s\n", e, RegisterName(lexicon.RegisterFor(e)))
	}

	// The emoji just before the new ones, if the session had any.
	if prev := len(req.Emojis) - len(req.New) - 1; prev >= 0 {
		from := lexicon.RegisterFor(req.Emojis[prev])
		to := lexicon.RegisterFor(req.New[0])
		if from == to {
			fmt.Fprintf(&b, "Transición: sigues en %s.\n", RegisterName(to))
		} else {
			line := fmt.Sprintf("Transición: de %s a %s.\n", RegisterName(from), RegisterName(to))
			line = strings.Replace(line, "de el ", "del ", 1)
			line = strings.Replace(line, " a el ", " al ", 1)
			b.WriteString(line)
		}
	}

	all := req.Emojis
	if len(all) == 0 {
		all = req.New
	}
	b.WriteString(panorama(all))
	return b.String()
}

// panorama names the dominant register. Ties go to the register seen first.
func panorama(emojis []string) string {
	counts := make(map[lexicon.Register]int)
	var order []lexicon.Register
	for _, e := range emojis {
		r := lexicon.RegisterFor(e)
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
	}
	top := order[0]
	for _, r := range order[1:] {
		if counts[r] > counts[top] {
			top = r
		}
	}
	if len(order) == 1 {
		return fmt.Sprintf("Panorama general: todo tu río fluye en %s.", RegisterName(top))
	}
	return fmt.Sprintf("Panorama general: predomina %s (%d de %d emojis).", RegisterName(top), counts[top], len(emojis))
}

var _ Agent = Offline{}
