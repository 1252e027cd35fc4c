// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/ManuGH/availwin/internal/api"
	"github.com/ManuGH/availwin/internal/config"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/telemetry"
	"github.com/ManuGH/availwin/internal/title"
	"github.com/ManuGH/availwin/internal/windows"
	"github.com/google/uuid"
)

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("availwin serve", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var configPath string
	fs.StringVar(&configPath, "config", "", "path to YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, loader, err := loadConfig(configPath, "", "")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	setupLogging(cfg, stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.ContextWithCycleID(ctx, uuid.New().String())

	if err := serve(ctx, cfg, loader, stderr); err != nil {
		logger := log.WithComponentFromContext(ctx, "daemon")
		logger.Error().Err(err).Str(log.FieldEvent, "server.failed").Msg("server stopped with error")
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg config.AppConfig, loader *config.Loader, stderr io.Writer) error {
	logger := log.WithComponentFromContext(ctx, "daemon")
	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str(log.FieldPath, loader.Path()).
		Str("snapshot_driver", cfg.Snapshot.Driver).
		Msg("configuration loaded")

	tp, err := telemetry.NewProvider(ctx, cfg.TracingConfig())
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	snap, err := loadSnapshot(ctx, cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	holder := config.NewHolder(cfg, loader)
	if err := holder.StartWatcher(ctx); err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}
	defer holder.Stop()

	updates := make(chan config.AppConfig, 1)
	holder.RegisterListener(updates)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case next := <-updates:
				setupLogging(next, stderr)
			}
		}
	}()

	engine := windows.NewEngine(snap, holder.Toggles)
	srv := api.New(title.NewProcessor(engine, snap), holder, cfg.Version)
	return srv.ListenAndServe(ctx, cfg.API.ListenAddr)
}
