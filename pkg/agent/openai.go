package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/matzehuels/trazo/pkg/cache"
	terrors "github.com/matzehuels/trazo/pkg/errors"
)

// Emotion is the interpretation of one new emoji.
type Emotion struct {
	Emoji   string `json:"emoji" jsonschema:"required"`
	Emocion string `json:"emocion" jsonschema:"required,description=Emoción que expresa el emoji"`
}

// Interpretation is the model's structured reply.
type Interpretation struct {
	Emociones  []Emotion `json:"emociones" jsonschema:"required"`
	Transicion string    `json:"transicion" jsonschema:"required,description=Cambio desde el emoji anterior; vacío si no hay anterior"`
	Panorama   string    `json:"panorama" jsonschema:"required,description=Interpretación global del recorrido completo"`
	Respuesta  string    `json:"respuesta" jsonschema:"required,description=Respuesta breve y cálida a la persona"`
}

// Text renders the interpretation as the diary reply.
func (in Interpretation) Text() string {
	var b strings.Builder
	if r := strings.TrimSpace(in.Respuesta); r != "" {
		b.WriteString(r)
		b.WriteString("\n")
	}
	for _, e := range in.Emociones {
		fmt.Fprintf(&b, "%s → %s\n", e.Emoji, e.Emocion)
	}
	if t := strings.TrimSpace(in.Transicion); t != "" {
		fmt.Fprintf(&b, "Transición: %s\n", t)
	}
	if p := strings.TrimSpace(in.Panorama); p != "" {
		fmt.Fprintf(&b, "Panorama general: %s", p)
	}
	return strings.TrimSpace(b.String())
}

var interpretationSchema = generateSchema[Interpretation]()

// DefaultMaxOutputTokens bounds a reply.
const DefaultMaxOutputTokens = 1200

// OpenAI asks a model for an Interpretation.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *log.Logger

	// Timeout bounds one call including retries. Zero means no bound.
	Timeout time.Duration

	// RateLimitWaits and ServerErrorWaits are the pauses before each retry.
	RateLimitWaits   []time.Duration
	ServerErrorWaits []time.Duration
}

// NewOpenAI creates an OpenAI agent. Extra options (base URL, HTTP client)
// are passed to the SDK client.
func NewOpenAI(apiKey, model string, logger *log.Logger, opts ...option.RequestOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, terrors.New(terrors.ErrCodeInvalidConfig, "openai api key is empty")
	}
	if model == "" {
		return nil, terrors.New(terrors.ErrCodeInvalidConfig, "openai model is empty")
	}
	if logger == nil {
		logger = log.Default()
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAI{
		client:           &client,
		model:            model,
		logger:           logger,
		RateLimitWaits:   []time.Duration{65 * time.Second, 100 * time.Second},
		ServerErrorWaits: []time.Duration{5 * time.Second, 30 * time.Second},
	}, nil
}

func (o *OpenAI) Name() string { return "openai/" + o.model }

func (o *OpenAI) Reply(ctx context.Context, req Request) (string, error) {
	return observe(ctx, "openai", o.model, func() (string, error) {
		in, err := o.Interpret(ctx, req)
		if err != nil {
			return "", err
		}
		return in.Text(), nil
	})
}

// Interpret returns the structured interpretation of a diary turn.
func (o *OpenAI) Interpret(ctx context.Context, req Request) (Interpretation, error) {
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(DefaultMaxOutputTokens),
		Instructions:    openai.String(Instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.prompt(), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "Interpretation",
					Schema:      interpretationSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Interpretación emocional del diario"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := o.callWithRetry(ctx, params)
	if err != nil {
		return Interpretation{}, classify(err)
	}

	var in Interpretation
	out := strings.TrimSpace(resp.OutputText())
	if err := json.Unmarshal([]byte(out), &in); err != nil {
		return Interpretation{}, terrors.Wrap(terrors.ErrCodeAgent, err, "decode model output (prefix %q)", truncate(out, 200))
	}
	o.logger.Debug("agent replied", "model", o.model, "emotions", len(in.Emociones))
	return in, nil
}

func (o *OpenAI) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	rateWaits, serverWaits := o.RateLimitWaits, o.ServerErrorWaits
	attempts := 1 + max(len(rateWaits), len(serverWaits))

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := o.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var wait time.Duration
		switch {
		case isRateLimit(err) && attempt < len(rateWaits):
			wait = rateWaits[attempt]
		case isServerError(err) && attempt < len(serverWaits):
			wait = serverWaits[attempt]
		default:
			return nil, err
		}

		o.logger.Warn("openai call failed, retrying", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func statusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func isRateLimit(err error) bool {
	return statusCode(err) == 429
}

func isServerError(err error) bool {
	return statusCode(err) >= 500
}

// classify maps SDK failures onto error codes.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return terrors.Wrap(terrors.ErrCodeTimeout, err, "agent timed out")
	case isRateLimit(err):
		return terrors.Wrap(terrors.ErrCodeRateLimited, err, "agent rate limited")
	case isServerError(err):
		return terrors.Wrap(terrors.ErrCodeAgent, cache.Retryable(err), "agent unavailable")
	default:
		return terrors.Wrap(terrors.ErrCodeAgent, err, "agent request failed")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

var _ Agent = (*OpenAI)(nil)
