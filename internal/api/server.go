// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api exposes the window engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ManuGH/availwin/internal/api/middleware"
	"github.com/ManuGH/availwin/internal/config"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/metrics"
	"github.com/ManuGH/availwin/internal/title"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Server serves window computations for one loaded snapshot.
type Server struct {
	processor *title.Processor
	holder    *config.Holder
	version   string
	logger    zerolog.Logger
}

// New returns a server. holder may be nil, in which case defaults apply and
// config reload is unavailable.
func New(processor *title.Processor, holder *config.Holder, version string) *Server {
	return &Server{
		processor: processor,
		holder:    holder,
		version:   version,
		logger:    log.WithComponent("api"),
	}
}

func (s *Server) config() config.AppConfig {
	if s.holder == nil {
		return config.Defaults()
	}
	return s.holder.Get()
}

// Handler builds the router. Middleware settings are read once, here.
func (s *Server) Handler() http.Handler {
	cfg := s.config()
	stack := middleware.StackConfig{
		EnableMetrics: cfg.Metrics.Enabled,
		EnableLogging: true,
		RateLimitRPS:  cfg.API.RateLimitRPS,
	}
	if cfg.Telemetry.Enabled {
		stack.TracingService = cfg.LogService
	}

	r := middleware.NewRouter(stack)
	r.Get("/healthz", s.handleHealth)
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/videos/{videoID}/countries/{country}/windows", s.handleVideoWindows)
		r.Get("/titles/{videoID}/countries/{country}/rollup", s.handleTitleRollup)
		r.Post("/config/reload", s.handleConfigReload)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.logger.Info().
		Str(log.FieldEvent, "server.started").
		Str("addr", ln.Addr().String()).
		Msg("HTTP server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	s.logger.Info().Str(log.FieldEvent, "server.stopped").Msg("HTTP server stopped")
	return nil
}
