package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/mailwarm/internal/warmup"
	"github.com/dmitrymomot/mailwarm/middlewares"
	"github.com/dmitrymomot/mailwarm/pkg/health"
)

// Gate is the part of *warmup.Gate the HTTP surface uses.
type Gate interface {
	Run(ctx context.Context) (warmup.Result, error)
	Stats(ctx context.Context) (warmup.Stats, error)
}

// Server exposes the warmup gate over HTTP.
type Server struct {
	gate    Gate
	opts    *options
	handler http.Handler
	flight  singleflight.Group
	cfg     Config
}

// New builds the server and its routes.
//
// Example:
//
//	srv := server.New(cfg.Server, gate,
//	    server.WithLogger(log),
//	    server.WithHealthCheck("store", store.Ping),
//	    server.WithShutdownHook(func(context.Context) error { return store.Close() }),
//	)
//	err := srv.Run(ctx)
func New(cfg Config, gate Gate, opts ...Option) *Server {
	o := &options{
		logger: slog.New(slog.DiscardHandler),
		checks: health.Checks{},
	}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{cfg: cfg, gate: gate, opts: o}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	log := s.opts.logger
	onError := middlewares.DefaultErrorHandler

	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Logging(log),
		middlewares.Recover(middlewares.WithRecoverLogger(log)),
		middlewares.Timeout(s.cfg.RequestTimeout, onError),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	})

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.With(middlewares.Throttle(s.cfg.TriggerRatePerMinute, onError)).Get("/warmup", s.handleWarmup)
		r.Get("/stats", s.handleStats)
	})
	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.opts.checks, health.WithLogger(log)))

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "active",
		"message": "Mail warmup service is running",
		"usage":   "GET /api/warmup to trigger manually",
	})
}

// handleWarmup runs one evaluation. Requests arriving while one is in
// flight share its result instead of evaluating the gate again. The run
// is detached from the caller's cancellation so a disconnect cannot stop
// it between the send and the counter write.
func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	v, _, shared := s.flight.Do("warmup", func() (any, error) {
		ctx := context.WithoutCancel(r.Context())
		if s.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
			defer cancel()
		}
		res, _ := s.gate.Run(ctx)
		return res, nil
	})

	res := v.(warmup.Result)
	if shared {
		w.Header().Set("X-Warmup-Shared", "true")
	}

	status := http.StatusOK
	if res.IsError() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.gate.Stats(r.Context())
	if err != nil {
		s.opts.logger.ErrorContext(r.Context(), "read warmup stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"status": "error", "message": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
