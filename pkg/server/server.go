// Package server exposes the diary and the renderers over HTTP.
//
// Routes:
//
//	GET  /                 service info and diary commands
//	GET  /healthz          liveness
//	POST /chat             {"mensaje", "session_id"} → diary reply
//	POST /render/river     {"emojis", "guardar"} → image/png
//	POST /render/trace     {"texto", "guardar"} → image/png
//	GET  /interpret?texto= descriptor bag and phase plan
//	GET  /images           saved images, newest first
//	GET  /images/{name}    one saved image
//
// Saved renders carry their location in the X-Trazo-Path header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/trazo/pkg/diary"
	"github.com/matzehuels/trazo/pkg/pipeline"
	"github.com/matzehuels/trazo/pkg/session"
)

// HeaderPath carries a saved image's location.
const HeaderPath = "X-Trazo-Path"

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	Diary  *diary.Diary
	Runner *pipeline.Runner
	Logger *log.Logger

	// CleanupInterval is how often expired sessions are swept while serving.
	// Zero uses session.CleanupInterval; negative disables sweeping.
	CleanupInterval time.Duration

	router chi.Router
}

// New builds a server. A nil logger uses log.Default().
func New(d *diary.Diary, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{Diary: d, Runner: runner, Logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Route("/render", func(r chi.Router) {
		r.Post("/river", s.handleRenderRiver)
		r.Post("/trace", s.handleRenderTrace)
	})
	r.Get("/interpret", s.handleInterpret)
	r.Route("/images", func(r chi.Router) {
		r.Get("/", s.handleListImages)
		r.Get("/{name}", s.handleImage)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	s.sweepSessions(ctx)

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// sweepSessions removes expired diary sessions in the background until ctx
// is done.
func (s *Server) sweepSessions(ctx context.Context) {
	every := s.CleanupInterval
	if every == 0 {
		every = session.CleanupInterval
	}
	if every < 0 || s.Diary == nil || s.Diary.Sessions == nil {
		return
	}
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		session.Sweep(ctx, s.Diary.Sessions, ticker.C, func(err error) {
			s.Logger.Warn("session cleanup failed", "error", err)
		})
	}()
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
