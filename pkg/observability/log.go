package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log lines.
// Failures are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger when
// nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetAgentHooks(h)
	SetDiaryHooks(h)
}

func (h *LogHooks) OnInterpret(_ context.Context, runes, points int) {
	h.Logger.Debug("interpreted text", "runes", runes, "points", points)
}

func (h *LogHooks) OnRenderStart(_ context.Context, kind string) {
	h.Logger.Debug("render start", "kind", kind)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, kind string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "kind", kind, "error", err)
		return
	}
	h.Logger.Debug("render complete", "kind", kind, "bytes", size, "duration", d)
}

func (h *LogHooks) OnSave(_ context.Context, name string, size int, err error) {
	if err != nil {
		h.Logger.Warn("save failed", "name", name, "error", err)
		return
	}
	h.Logger.Debug("saved image", "name", name, "bytes", size)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnAgentRequest(_ context.Context, provider, model string) {
	h.Logger.Debug("agent request", "provider", provider, "model", model)
}

func (h *LogHooks) OnAgentResponse(_ context.Context, provider, model string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("agent failed", "provider", provider, "model", model, "error", err)
		return
	}
	h.Logger.Debug("agent response", "provider", provider, "model", model, "duration", d)
}

func (h *LogHooks) OnMessage(_ context.Context, sessionID string, emojis int) {
	h.Logger.Debug("diary message", "session", sessionID, "emojis", emojis)
}

func (h *LogHooks) OnCommand(_ context.Context, sessionID, command string, err error) {
	if err != nil {
		h.Logger.Warn("diary command failed", "session", sessionID, "command", command, "error", err)
		return
	}
	h.Logger.Debug("diary command", "session", sessionID, "command", command)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ AgentHooks    = (*LogHooks)(nil)
	_ DiaryHooks    = (*LogHooks)(nil)
)
