// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/availwin/internal/availability"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/title"
	"github.com/ManuGH/availwin/internal/windows"
	"github.com/google/renameio/v2"
	"github.com/google/uuid"
)

type computeOutput struct {
	CycleID string                 `json:"cycleId"`
	VideoID int64                  `json:"videoId"`
	Country string                 `json:"country"`
	Locale  string                 `json:"locale,omitempty"`
	Live    bool                   `json:"live"`
	Windows []*availability.Window `json:"windows"`
}

func runCompute(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("availwin compute", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath   string
		snapshotPath string
		driver       string
		videoID      int64
		country      string
		locale       string
		out          string
	)
	fs.StringVar(&configPath, "config", "", "path to YAML configuration file")
	fs.StringVar(&snapshotPath, "snapshot", "", "snapshot file (overrides snapshot.path)")
	fs.StringVar(&driver, "driver", "", "snapshot driver: yaml or sqlite (overrides snapshot.driver)")
	fs.Int64Var(&videoID, "video", 0, "video id")
	fs.StringVar(&country, "country", "", "two-letter country code")
	fs.StringVar(&locale, "locale", "", "compute for one catalog locale")
	fs.StringVar(&out, "out", "", "write JSON to this file instead of stdout")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	country = strings.ToUpper(strings.TrimSpace(country))
	if videoID <= 0 || len(country) != 2 {
		_, _ = fmt.Fprintln(stderr, "Error: -video and -country are required")
		fs.Usage()
		return 2
	}

	cfg, _, err := loadConfig(configPath, snapshotPath, driver)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	setupLogging(cfg, stderr)

	cycleID := uuid.New().String()
	ctx := log.ContextWithCycleID(context.Background(), cycleID)
	logger := log.WithComponentFromContext(ctx, "cli")

	snap, err := loadSnapshot(ctx, cfg.Snapshot)
	if err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "snapshot.load_failed").Msg("failed to load snapshot")
		return 1
	}

	toggles := cfg.Toggles()
	engine := windows.NewEngine(snap, func() windows.Toggles { return toggles })
	p := title.NewProcessor(engine, snap)

	res, err := p.ProcessVideo(ctx, videoID, country, windows.ModeFor(locale))
	if err != nil {
		logger.Error().Err(err).
			Int64(log.FieldVideoID, videoID).
			Str(log.FieldCountry, country).
			Msg("compute failed")
		return 1
	}

	body, err := json.MarshalIndent(computeOutput{
		CycleID: cycleID,
		VideoID: videoID,
		Country: country,
		Locale:  locale,
		Live:    res.Live,
		Windows: res.Windows,
	}, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("encode result")
		return 1
	}
	body = append(body, '\n')

	if out == "" {
		_, _ = stdout.Write(body)
		return 0
	}
	if err := renameio.WriteFile(out, body, 0o644); err != nil {
		logger.Error().Err(err).Str(log.FieldPath, out).Msg("write result")
		return 1
	}
	logger.Info().
		Str(log.FieldEvent, "compute.written").
		Str(log.FieldPath, out).
		Int("windows", len(res.Windows)).
		Msg("windows written")
	return 0
}

