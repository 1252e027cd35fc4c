// SPDX-License-Identifier: MIT

package middleware

import (
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// StackConfig configures the canonical HTTP ingress middleware stack.
type StackConfig struct {
	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool
	// RateLimitRPS is the per-IP request budget per second; 0 disables it.
	RateLimitRPS int
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation early)
	r.Use(RequestID)
	// 3. Metrics (track all requests, including rate-limited ones)
	if cfg.EnableMetrics {
		r.Use(metrics.HTTPMiddleware)
	}
	// 4. Tracing
	if cfg.TracingService != "" {
		r.Use(OTelHTTP(cfg.TracingService))
	}
	// 5. Logging (wraps handlers, captures full latency)
	if cfg.EnableLogging {
		r.Use(log.Middleware())
	}
	// 6. Rate limit
	if cfg.RateLimitRPS > 0 {
		r.Use(PerSecond(cfg.RateLimitRPS))
	}
}
