package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/trazo/pkg/buildinfo"
	"github.com/matzehuels/trazo/pkg/descriptor"
	"github.com/matzehuels/trazo/pkg/diary"
	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/gallery"
	"github.com/matzehuels/trazo/pkg/phase"
	"github.com/matzehuels/trazo/pkg/pipeline"
)

type rootResponse struct {
	Mensaje  string         `json:"mensaje"`
	Comandos []string       `json:"comandos"`
	Version  string         `json:"version"`
	Build    buildinfo.Info `json:"build"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	cmds := append(append([]string(nil), diary.ImageCommands...), diary.RiverCommands...)
	writeJSON(w, http.StatusOK, rootResponse{
		Mensaje:  "Servidor personalizado de Diario Intuitivo",
		Comandos: cmds,
		Version:  buildinfo.Get().Version,
		Build:    buildinfo.Get(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Mensaje   string `json:"mensaje"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	reply, err := s.Diary.Handle(r.Context(), req.SessionID, req.Mensaje)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type riverRequest struct {
	Emojis  string `json:"emojis"`
	Guardar bool   `json:"guardar"`
}

func (s *Server) handleRenderRiver(w http.ResponseWriter, r *http.Request) {
	var req riverRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateEmojis(req.Emojis); err != nil {
		s.writeError(w, r, err)
		return
	}
	run := s.Runner.EmojiRiver
	if req.Guardar {
		run = s.Runner.SaveEmojiRiver
	}
	res, err := run(r.Context(), req.Emojis)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, res)
}

type traceRequest struct {
	Texto   string `json:"texto"`
	Guardar bool   `json:"guardar"`
}

func (s *Server) handleRenderTrace(w http.ResponseWriter, r *http.Request) {
	var req traceRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := terrors.ValidateText(req.Texto); err != nil {
		s.writeError(w, r, err)
		return
	}
	run := s.Runner.TextTrace
	if req.Guardar {
		run = s.Runner.SaveTextTrace
	}
	res, err := run(r.Context(), req.Texto)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, res)
}

type interpretResponse struct {
	Descriptores descriptor.Bag `json:"descriptores"`
	Fases        phase.Plan     `json:"fases"`
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("texto")
	if err := terrors.ValidateText(text); err != nil {
		s.writeError(w, r, err)
		return
	}
	bag := pipeline.ParseText(text)
	writeJSON(w, http.StatusOK, interpretResponse{Descriptores: bag, Fases: phase.Build(bag)})
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, terrors.New(terrors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	images, err := s.Runner.Gallery.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, terrors.Wrap(terrors.ErrCodeStorage, err, "list images"))
		return
	}
	if images == nil {
		images = []gallery.Image{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"imagenes": images})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.Runner.Gallery.Load(r.Context(), name)
	if errors.Is(err, gallery.ErrNotFound) {
		err = terrors.Wrap(terrors.ErrCodeImageNotFound, err, "image %s not found", name)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// validateEmojis rejects request bodies the river would silently clamp.
func validateEmojis(seq string) error {
	if err := terrors.ValidateText(seq); err != nil {
		return err
	}
	return terrors.ValidateSymbols(strings.Fields(seq))
}

// =============================================================================
// Encoding
// =============================================================================

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, res *pipeline.Result) {
	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(res.PNG)))
	if res.Image != nil {
		h.Set(HeaderPath, res.Image.Location)
	}
	if res.CacheHit {
		h.Set("X-Cache", "HIT")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

type errorResponse struct {
	Error string       `json:"error"`
	Code  terrors.Code `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := terrors.GetCode(err)
	if code == "" {
		code = terrors.ErrCodeInternal
	}
	status := StatusFor(code)
	switch {
	case terrors.Caller(err):
		s.Logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	case terrors.Temporary(err):
		s.Logger.Warn("request failed", "path", r.URL.Path, "code", code, "error", err)
	default:
		s.Logger.Error("request failed", "path", r.URL.Path, "code", code, "error", err)
	}
	msg := terrors.UserMessage(err)
	if status >= 500 && code == terrors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code terrors.Code) int {
	switch code {
	case terrors.ErrCodeInvalidInput, terrors.ErrCodeInvalidSession, terrors.ErrCodeInvalidFilename:
		return http.StatusBadRequest
	case terrors.ErrCodeNoInterpretation:
		return http.StatusConflict
	case terrors.ErrCodeNotFound, terrors.ErrCodeSessionNotFound, terrors.ErrCodeImageNotFound:
		return http.StatusNotFound
	case terrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case terrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case terrors.ErrCodeAgent, terrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case terrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
