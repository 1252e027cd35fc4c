// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instruments for the window engine and
// the HTTP surface.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	computeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availwin_compute_total",
		Help: "Window computations by path and catalog mode",
	}, []string{"path", "mode"}) // path=episode|rolled_up, mode=single|multi

	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "availwin_compute_duration_seconds",
		Help:    "Wall time of one window computation",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"path"})

	windowsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availwin_windows_emitted_total",
		Help: "Availability windows produced by catalog mode",
	}, []string{"mode"})

	contractSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availwin_contract_skips_total",
		Help: "Contract/package pairs skipped during locale gating by reason",
	}, []string{"reason"}) // reason=no_local_assets|prepromo_assets_missing|missing_subs|missing_dubs

	notMerchandised = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availwin_not_merchandised_total",
		Help: "Locale-scoped computations that produced no windows",
	})

	languageOverrideFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availwin_language_override_fallback_total",
		Help: "Locale-scoped computations recomputed in single-catalog mode due to a language override",
	})

	configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availwin_config_reload_total",
		Help: "Configuration reload attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

// Compute paths.
const (
	PathEpisode  = "episode"
	PathRolledUp = "rolled_up"
)

// Skip reasons.
const (
	SkipNoLocalAssets         = "no_local_assets"
	SkipPrePromoAssetsMissing = "prepromo_assets_missing"
	SkipMissingSubs           = "missing_subs"
	SkipMissingDubs           = "missing_dubs"
)

// RecordCompute records one computation and its duration.
func RecordCompute(path string, multi bool, elapsed time.Duration) {
	p := normalizePathLabel(path)
	computeTotal.WithLabelValues(p, modeLabel(multi)).Inc()
	computeDuration.WithLabelValues(p).Observe(elapsed.Seconds())
}

// RecordWindowsEmitted adds n produced windows.
func RecordWindowsEmitted(multi bool, n int) {
	if n <= 0 {
		return
	}
	windowsEmitted.WithLabelValues(modeLabel(multi)).Add(float64(n))
}

// RecordContractSkip records one skipped contract/package pair.
func RecordContractSkip(reason string) {
	contractSkips.WithLabelValues(normalizeSkipLabel(reason)).Inc()
}

// RecordNotMerchandised records an empty locale-scoped result.
func RecordNotMerchandised() {
	notMerchandised.Inc()
}

// RecordLanguageOverrideFallback records a single-catalog recomputation.
func RecordLanguageOverrideFallback() {
	languageOverrideFallbacks.Inc()
}

// RecordConfigReload records a reload outcome.
func RecordConfigReload(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	configReloads.WithLabelValues(outcome).Inc()
}

func modeLabel(multi bool) string {
	if multi {
		return "multi"
	}
	return "single"
}

func normalizePathLabel(path string) string {
	switch p := strings.ToLower(strings.TrimSpace(path)); p {
	case PathEpisode, PathRolledUp:
		return p
	default:
		return "unknown"
	}
}

func normalizeSkipLabel(reason string) string {
	switch r := strings.ToLower(strings.TrimSpace(reason)); r {
	case SkipNoLocalAssets, SkipPrePromoAssetsMissing, SkipMissingSubs, SkipMissingDubs:
		return r
	default:
		return "unknown"
	}
}
