// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package windows

import (
	"context"
	"time"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/contractinfo"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/metrics"
	"github.com/ManuGH/availwin/internal/rights"
	"github.com/ManuGH/availwin/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Engine computes availability windows against one cycle's reference data.
type Engine struct {
	resolver Resolver
	toggles  func() Toggles
	builder  *contractinfo.Builder
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewEngine returns an engine reading from resolver. toggles is called once
// per computation; nil means DefaultToggles.
func NewEngine(resolver Resolver, toggles func() Toggles) *Engine {
	if toggles == nil {
		toggles = DefaultToggles
	}
	return &Engine{
		resolver: resolver,
		toggles:  toggles,
		builder:  contractinfo.NewBuilder(),
		logger:   log.WithComponent("windows"),
		tracer:   telemetry.Tracer("availwin/windows"),
	}
}

// Reset drops state cached for the current cycle.
func (e *Engine) Reset() {
	e.builder.Reset()
}

// PopulateWindowData computes single-catalog windows, taking the go-live
// state from the status flags.
func (e *Engine) PopulateWindowData(ctx context.Context, videoID int64, country string, status *rights.Status, acc Accumulator) ([]*availability.Window, error) {
	return e.Compute(ctx, Request{
		VideoID: videoID,
		Country: country,
		Mode:    SingleCatalog(),
		Status:  status,
		IsLive:  rights.IsGoLive(status),
	}, acc)
}

// Compute returns the windows of req in ascending hold-adjusted start order
// and folds the summary into acc. acc must not be shared with a concurrent
// computation.
func (e *Engine) Compute(ctx context.Context, req Request, acc Accumulator) ([]*availability.Window, error) {
	if acc == nil {
		return nil, ErrNilAccumulator
	}
	if req.Status == nil {
		return nil, ErrNilStatus
	}

	locale, multi := req.Mode.Locale()
	ctx, span := e.tracer.Start(ctx, "windows.compute",
		trace.WithAttributes(telemetry.ComputeAttributes(req.VideoID, req.Country, locale, req.IsLive)...))
	defer span.End()

	started := time.Now()
	toggles := e.toggles()
	logger := e.requestLogger(ctx, req)

	path := metrics.PathEpisode
	var out []*availability.Window
	if (acc.DoShow() && acc.WasShowEpisodeFound()) || (acc.DoSeason() && acc.WasSeasonEpisodeFound()) {
		path = metrics.PathRolledUp
		out = e.rolledUp(req, acc, multi)
	} else {
		out = e.episode(req, req.Mode, acc, toggles, logger, multi)
		if multi && len(out) == 0 && rights.IsLanguageOverride(req.Status) {
			logger.Info().Msg("language override: recomputing without locale")
			metrics.RecordLanguageOverrideFallback()
			out = e.episode(req, SingleCatalog(), acc, toggles, logger, true)
		}
	}

	metrics.RecordCompute(path, multi, time.Since(started))
	metrics.RecordWindowsEmitted(multi, len(out))
	span.SetAttributes(telemetry.ResultAttributes(path, len(out))...)
	logger.Debug().Str("compute_path", path).Int("windows", len(out)).Msg("windows computed")
	return out, nil
}

func (e *Engine) requestLogger(ctx context.Context, req Request) zerolog.Logger {
	c := log.WithContext(ctx, e.logger).With().
		Int64(log.FieldVideoID, req.VideoID).
		Str(log.FieldCountry, req.Country)
	if locale, ok := req.Mode.Locale(); ok {
		c = c.Str(log.FieldLocale, locale)
	}
	return c.Logger()
}

func (e *Engine) episode(req Request, mode Mode, acc Accumulator, toggles Toggles, logger zerolog.Logger, multicatalogRollup bool) []*availability.Window {
	r := &episodeRun{
		res:                e.resolver,
		builder:            e.builder,
		acc:                acc,
		toggles:            toggles,
		logger:             logger,
		videoID:            req.VideoID,
		country:            req.Country,
		live:               req.IsLive,
		mode:               mode,
		flags:              req.Status.Flags,
		now:                e.resolver.NowMillis(),
		multicatalogRollup: multicatalogRollup,
	}
	return r.run(req.Status.Rights.Windows)
}
