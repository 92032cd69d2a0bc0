// Package agent produces the diary's conversational replies.
//
// Two providers exist: [Offline], which answers from the emotion lexicon
// without network access, and [OpenAI], which asks a model through the
// Responses API for a structured interpretation. [Cached] memoizes either.
//
// The diary passes every message through an Agent together with the emoji
// accumulated in the session:
//
//	a, _ := agent.New(cfg.Agent, c, nil, logger)
//	reply, err := a.Reply(ctx, agent.Request{Message: "😊 🌊", New: []string{"😊", "🌊"}})
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/option"

	"github.com/matzehuels/trazo/pkg/cache"
	"github.com/matzehuels/trazo/pkg/config"
	"github.com/matzehuels/trazo/pkg/observability"
)

// Instructions describe the diary agent's role to a model.
const Instructions = `Eres el Diario Intuitivo, un asistente que ayuda a identificar patrones del trazo o signo del pensamiento que se percibe en una interacción con el territorio.
La persona envía un emoji por cada minuto. Cada vez que llega un emoji nuevo, interpreta qué emoción expresa, describe la transición desde el emoji anterior y actualiza tu interpretación global del recorrido completo.
Responde siempre en español, con calidez y en pocas frases.`

// Request is one diary turn.
type Request struct {
	SessionID string
	Message   string

	// Emojis is the session's accumulated sequence, New included.
	Emojis []string

	// New are the emoji carried by Message.
	New []string
}

// prompt is the user input sent to a model and hashed for caching.
func (r Request) prompt() string {
	var b strings.Builder
	if len(r.Emojis) > 0 {
		fmt.Fprintf(&b, "Emojis de la sesión: %s\n", strings.Join(r.Emojis, " "))
	}
	if len(r.New) > 0 {
		fmt.Fprintf(&b, "Emojis nuevos: %s\n", strings.Join(r.New, " "))
	}
	fmt.Fprintf(&b, "Mensaje: %s", r.Message)
	return b.String()
}

// Agent answers diary messages.
type Agent interface {
	Reply(ctx context.Context, req Request) (string, error)

	// Name identifies the provider and model, e.g. "openai/gpt-5-mini".
	Name() string
}

// New builds the configured agent. A nil or null cache disables memoization;
// a nil keyer uses cache.DefaultKeyer.
func New(cfg config.Agent, c cache.Cache, keyer cache.Keyer, logger *log.Logger) (Agent, error) {
	if logger == nil {
		logger = log.Default()
	}

	var a Agent
	switch cfg.Provider {
	case config.ProviderOffline, "":
		return Offline{}, nil
	case config.ProviderOpenAI:
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		oa, err := NewOpenAI(cfg.APIKey, cfg.Model, logger, opts...)
		if err != nil {
			return nil, err
		}
		oa.Timeout = cfg.Timeout
		a = oa
	default:
		return nil, fmt.Errorf("unknown agent provider %q", cfg.Provider)
	}

	if c == nil {
		return a, nil
	}
	return NewCached(a, c, keyer), nil
}

// observe reports a request and its outcome to the agent hooks.
func observe(ctx context.Context, provider, model string, fn func() (string, error)) (string, error) {
	hooks := observability.Agent()
	hooks.OnAgentRequest(ctx, provider, model)
	start := time.Now()
	out, err := fn()
	hooks.OnAgentResponse(ctx, provider, model, time.Since(start), err)
	return out, err
}
