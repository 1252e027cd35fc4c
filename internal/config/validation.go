// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/availwin/internal/telemetry"
	"github.com/ManuGH/availwin/internal/validate"
)

// Upper bounds for numeric settings.
const (
	maxFutureCutoff    = 100 * 365 * 24 * time.Hour
	maxUnfilteredQuota = 1000
	maxRateLimitRPS    = 100000
)

// Validate validates an AppConfig using the centralized validation package.
// All failures are reported together.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.LogLevel("logLevel", cfg.LogLevel)
	v.NotEmpty("logService", cfg.LogService)

	v.DurationRange("windows.futureCutoff", cfg.Windows.FutureCutoff, 0, maxFutureCutoff)
	v.IntRange("windows.unfilteredQuota", cfg.Windows.UnfilteredQuota, 0, maxUnfilteredQuota)

	v.OneOf("snapshot.driver", cfg.Snapshot.Driver, DriverYAML, DriverSQLite)
	if cfg.Snapshot.Path != "" {
		v.File("snapshot.path", cfg.Snapshot.Path)
	}

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.IntRange("api.rateLimitRPS", cfg.API.RateLimitRPS, 0, maxRateLimitRPS)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, telemetry.ExporterGRPC, telemetry.ExporterHTTP)
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Fraction("telemetry.samplingRate", cfg.Telemetry.SamplingRate)
	}

	return v.Err()
}
