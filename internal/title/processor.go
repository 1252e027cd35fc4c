// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package title drives the window engine over a whole title. Episodes are
// computed one at a time against a shared rollup accumulator; the season and
// show rows are computed afterwards from what the episodes reported.
package title

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/catalog"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/rights"
	"github.com/ManuGH/availwin/internal/rollup"
	"github.com/ManuGH/availwin/internal/telemetry"
	"github.com/ManuGH/availwin/internal/windows"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrShowNotFound is returned when the show hierarchy is unknown.
var ErrShowNotFound = errors.New("title: show not found")

// DefaultParallelism bounds the per-country fan-out.
const DefaultParallelism = 4

// Source supplies statuses and show hierarchies. *catalog.Snapshot
// implements it.
type Source interface {
	Status(videoID int64, country string) (*rights.Status, error)
	Show(showID int64) (catalog.Show, bool)
}

// VideoResult holds the windows of one video.
type VideoResult struct {
	VideoID int64                  `json:"videoId"`
	Live    bool                   `json:"live"`
	Windows []*availability.Window `json:"windows"`
}

// SeasonResult holds a season row and its episodes.
type SeasonResult struct {
	VideoResult
	Sequence      int                   `json:"sequence"`
	Episodes      []VideoResult         `json:"episodes"`
	SeasonWindows []rollup.SeasonWindow `json:"seasonWindows,omitempty"`
}

// ShowResult holds the whole title for one country.
type ShowResult struct {
	VideoResult
	Country string         `json:"country"`
	Locale  string         `json:"locale,omitempty"`
	Seasons []SeasonResult `json:"seasons"`
}

// Processor runs titles through an engine.
type Processor struct {
	engine      *windows.Engine
	source      Source
	parallelism int
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// Option configures a Processor.
type Option func(*Processor)

// WithParallelism sets how many countries ProcessCountries computes at once.
func WithParallelism(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.parallelism = n
		}
	}
}

// NewProcessor returns a processor computing with engine over source.
func NewProcessor(engine *windows.Engine, source Source, opts ...Option) *Processor {
	p := &Processor{
		engine:      engine,
		source:      source,
		parallelism: DefaultParallelism,
		logger:      log.WithComponent("title"),
		tracer:      telemetry.Tracer("availwin/title"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessVideo computes the windows of a standalone video with a fresh
// accumulator.
func (p *Processor) ProcessVideo(ctx context.Context, videoID int64, country string, mode windows.Mode) (VideoResult, error) {
	st, err := p.source.Status(videoID, country)
	if err != nil {
		return VideoResult{}, err
	}
	acc := rollup.New()
	acc.StartEpisode(0)
	return p.compute(ctx, videoID, country, mode, st, acc)
}

// ProcessShow computes every episode, season and the show itself for one
// country. Episodes or seasons without a status in the country are skipped;
// a show without one gets no show-level windows.
func (p *Processor) ProcessShow(ctx context.Context, showID int64, country string, mode windows.Mode) (*ShowResult, error) {
	show, ok := p.source.Show(showID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrShowNotFound, showID)
	}

	episodes := 0
	for _, s := range show.Seasons {
		episodes += len(s.Episodes)
	}
	locale, _ := mode.Locale()
	ctx, span := p.tracer.Start(ctx, "title.process_show",
		trace.WithAttributes(telemetry.TitleAttributes(showID, country, episodes)...))
	defer span.End()

	logger := log.WithContext(ctx, p.logger).With().
		Int64("show_id", showID).
		Str(log.FieldCountry, country).
		Logger()

	res := &ShowResult{
		VideoResult: VideoResult{VideoID: showID},
		Country:     country,
		Locale:      locale,
	}
	acc := rollup.New()

	seasons := slices.Clone(show.Seasons)
	slices.SortStableFunc(seasons, func(a, b catalog.Season) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	for _, season := range seasons {
		sr := SeasonResult{VideoResult: VideoResult{VideoID: season.ID}, Sequence: season.Sequence}

		for _, ep := range season.Episodes {
			acc.StartEpisode(season.Sequence)
			er, err := p.computeIfPresent(ctx, ep, country, mode, acc)
			if err != nil {
				return nil, p.fail(span, err)
			}
			if er == nil {
				logger.Debug().Int64(log.FieldVideoID, ep).Msg("episode has no status in country")
				continue
			}
			sr.Episodes = append(sr.Episodes, *er)
		}

		acc.StartSeason(season.Sequence)
		row, err := p.computeIfPresent(ctx, season.ID, country, mode, acc)
		if err != nil {
			return nil, p.fail(span, err)
		}
		if row != nil {
			sr.VideoResult = *row
		}
		sr.SeasonWindows = slices.Clone(acc.SeasonWindows())
		res.Seasons = append(res.Seasons, sr)
	}

	acc.StartShow()
	row, err := p.computeIfPresent(ctx, showID, country, mode, acc)
	if err != nil {
		return nil, p.fail(span, err)
	}
	if row != nil {
		res.VideoResult = *row
	}

	span.SetAttributes(attribute.Int(telemetry.WindowsKey, len(res.Windows)))
	logger.Info().
		Int("seasons", len(res.Seasons)).
		Int("show_windows", len(res.Windows)).
		Msg("show processed")
	return res, nil
}

// ProcessCountries runs ProcessShow for each country concurrently. Results
// are returned in the order of countries. The first error cancels the rest.
func (p *Processor) ProcessCountries(ctx context.Context, showID int64, countries []string, mode windows.Mode) ([]*ShowResult, error) {
	out := make([]*ShowResult, len(countries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	for i, country := range countries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.ProcessShow(ctx, showID, country, mode)
			if err != nil {
				return fmt.Errorf("country %s: %w", country, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// computeIfPresent computes videoID at the accumulator's current level, or
// returns nil when the video has no status in the country.
func (p *Processor) computeIfPresent(ctx context.Context, videoID int64, country string, mode windows.Mode, acc *rollup.Values) (*VideoResult, error) {
	st, err := p.source.Status(videoID, country)
	if errors.Is(err, catalog.ErrVideoNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res, err := p.compute(ctx, videoID, country, mode, st, acc)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (p *Processor) compute(ctx context.Context, videoID int64, country string, mode windows.Mode, st *rights.Status, acc *rollup.Values) (VideoResult, error) {
	live := rights.IsGoLive(st)
	out, err := p.engine.Compute(ctx, windows.Request{
		VideoID: videoID,
		Country: country,
		Mode:    mode,
		Status:  st,
		IsLive:  live,
	}, acc)
	if err != nil {
		return VideoResult{}, fmt.Errorf("compute video %d at %s level: %w", videoID, acc.Level(), err)
	}
	if out == nil {
		out = []*availability.Window{}
	}
	return VideoResult{VideoID: videoID, Live: live, Windows: out}, nil
}

func (p *Processor) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(telemetry.ErrorAttributes("compute")...)
	return err
}
