// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/availwin/internal/telemetry"
	"github.com/ManuGH/availwin/internal/windows"
)

// Defaults returns the configuration used when neither file nor ENV set a
// value.
func Defaults() AppConfig {
	t := windows.DefaultToggles()
	return AppConfig{
		LogLevel:   "info",
		LogService: "availwin",
		Windows: WindowsConfig{
			SubsDubsRequirementEnforced: t.SubsDubsRequirementEnforced,
			PrePromotionMultiLocale:     t.PrePromotionMultiLocale,
			FutureCutoff:                t.FutureCutoff,
			UnfilteredQuota:             t.UnfilteredQuota,
		},
		Snapshot: SnapshotConfig{Driver: DriverYAML},
		API: APIConfig{
			ListenAddr:   ":8089",
			RateLimitRPS: 50,
		},
		Metrics: MetricsConfig{Enabled: true},
		Telemetry: TelemetryConfig{
			Exporter:     telemetry.ExporterGRPC,
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}

// mergeFileConfig applies the values set in the file.
func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	if src.LogLevel != "" {
		dst.LogLevel = strings.ToLower(src.LogLevel)
	}
	if src.LogService != "" {
		dst.LogService = src.LogService
	}

	if w := src.Windows; w != nil {
		if w.SubsDubsRequirementEnforced != nil {
			dst.Windows.SubsDubsRequirementEnforced = *w.SubsDubsRequirementEnforced
		}
		if w.PrePromotionMultiLocale != nil {
			dst.Windows.PrePromotionMultiLocale = *w.PrePromotionMultiLocale
		}
		if w.FutureCutoff != "" {
			d, err := time.ParseDuration(w.FutureCutoff)
			if err != nil {
				return fmt.Errorf("windows.futureCutoff: %w", err)
			}
			dst.Windows.FutureCutoff = d
		}
		if w.UnfilteredQuota != nil {
			dst.Windows.UnfilteredQuota = *w.UnfilteredQuota
		}
	}

	if s := src.Snapshot; s != nil {
		if s.Path != "" {
			dst.Snapshot.Path = s.Path
		}
		if s.Driver != "" {
			dst.Snapshot.Driver = strings.ToLower(s.Driver)
		}
	}

	if a := src.API; a != nil {
		if a.ListenAddr != "" {
			dst.API.ListenAddr = a.ListenAddr
		}
		if a.RateLimitRPS != nil {
			dst.API.RateLimitRPS = *a.RateLimitRPS
		}
	}

	if m := src.Metrics; m != nil && m.Enabled != nil {
		dst.Metrics.Enabled = *m.Enabled
	}

	if t := src.Telemetry; t != nil {
		if t.Enabled != nil {
			dst.Telemetry.Enabled = *t.Enabled
		}
		if t.Exporter != "" {
			dst.Telemetry.Exporter = strings.ToLower(t.Exporter)
		}
		if t.Endpoint != "" {
			dst.Telemetry.Endpoint = t.Endpoint
		}
		if t.SamplingRate != nil {
			dst.Telemetry.SamplingRate = *t.SamplingRate
		}
	}
	return nil
}

// mergeEnvConfig merges environment variables into cfg.
// ENV variables have the highest precedence.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = strings.ToLower(l.envString(EnvLogLevel, cfg.LogLevel))
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)

	cfg.Windows.SubsDubsRequirementEnforced = l.envBool(EnvSubsDubsRequirementEnforced, cfg.Windows.SubsDubsRequirementEnforced)
	cfg.Windows.PrePromotionMultiLocale = l.envBool(EnvPrePromotionMultiLocale, cfg.Windows.PrePromotionMultiLocale)
	cfg.Windows.FutureCutoff = l.envDuration(EnvFutureCutoff, cfg.Windows.FutureCutoff)
	cfg.Windows.UnfilteredQuota = l.envInt(EnvUnfilteredQuota, cfg.Windows.UnfilteredQuota)

	cfg.Snapshot.Path = l.envString(EnvSnapshotPath, cfg.Snapshot.Path)
	cfg.Snapshot.Driver = strings.ToLower(l.envString(EnvSnapshotDriver, cfg.Snapshot.Driver))

	cfg.API.ListenAddr = l.envString(EnvListenAddr, cfg.API.ListenAddr)
	cfg.API.RateLimitRPS = l.envInt(EnvRateLimitRPS, cfg.API.RateLimitRPS)

	cfg.Metrics.Enabled = l.envBool(EnvMetricsEnabled, cfg.Metrics.Enabled)

	cfg.Telemetry.Enabled = l.envBool(EnvTracingEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = strings.ToLower(l.envString(EnvTracingExporter, cfg.Telemetry.Exporter))
	cfg.Telemetry.Endpoint = l.envString(EnvTracingEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvTracingSamplingRate, cfg.Telemetry.SamplingRate)
}
