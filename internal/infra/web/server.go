package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"scam-honeypot/internal/domain/ports/repository"
	"scam-honeypot/internal/infra/metrics"
	"scam-honeypot/internal/usecase"
)

// RateLimiter caps inbound messages per session.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Options struct {
	APIKey         string
	RequestTimeout time.Duration
	// RateLimit is the per-session cap on messages per minute; 0 disables it.
	RateLimit int
	Limiter   RateLimiter
	// Reports is optional; without it the report endpoint answers 404.
	Reports repository.ReportRepository
}

type Server struct {
	uc   usecase.HoneypotUseCase
	opts Options
	log  *zerolog.Logger
}

func NewServer(uc usecase.HoneypotUseCase, opts Options, logger *zerolog.Logger) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{uc: uc, opts: opts, log: logger}
}

// Router builds the HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TraceID)
	r.Use(RequestLog(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.health)
	r.Get("/health", s.health)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(s.opts.APIKey))
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Post("/api/honeypot", s.honeypot)
		r.Get("/api/sessions/{id}", s.session)
		r.Get("/api/sessions/{id}/report", s.report)
	})
	return r
}

// HTTPServer wraps the router with the listener timeouts used in production.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
