// Package server exposes the per-user key/value store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/vocabsync/internal/server/handlers"
	"github.com/iudanet/vocabsync/internal/server/middleware"
	"github.com/iudanet/vocabsync/internal/server/storage"
	"github.com/iudanet/vocabsync/pkg/api"
)

// Options собирает зависимости HTTP сервера
type Options struct {
	Logger          *slog.Logger
	Storage         storage.RecordStorage
	JWT             handlers.JWTConfig
	Version         string
	RateLimit       int
	RateWindow      time.Duration
	ShutdownTimeout time.Duration
}

// Server is the cloud key/value HTTP server.
type Server struct {
	httpServer      *http.Server
	limiter         *middleware.RateLimiter
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a server listening on addr.
func New(addr string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 120
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow, opts.Logger)

	s := &Server{
		limiter:         limiter,
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           newRouter(opts, limiter),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", "addr", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func newRouter(opts Options, limiter *middleware.RateLimiter) http.Handler {
	logger := opts.Logger
	health := handlers.NewHealthHandler(logger, opts.Storage, opts.Version)
	kv := handlers.NewKVHandler(logger, opts.Storage)

	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger, "/api/v1/health"))
	r.Use(middleware.RecoveryMiddleware(logger))

	r.NotFound(jsonStatus(http.StatusNotFound, "not found"))
	r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed, "method not allowed"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(logger, opts.JWT))
			r.Use(middleware.RateLimitMiddleware(limiter, logger))

			r.Get("/kv", kv.ListKeys)
			r.Get("/kv/{key}", kv.GetValue)
			r.Put("/kv/{key}", kv.PutValue)
		})
	})

	return r
}

func jsonStatus(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: msg})
	}
}
