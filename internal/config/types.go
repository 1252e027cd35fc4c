// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/telemetry"
	"github.com/ManuGH/availwin/internal/windows"
)

// Snapshot drivers.
const (
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// AppConfig is the effective runtime configuration.
type AppConfig struct {
	Version    string
	LogLevel   string
	LogService string

	Windows   WindowsConfig
	Snapshot  SnapshotConfig
	API       APIConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// WindowsConfig holds the engine toggles.
type WindowsConfig struct {
	SubsDubsRequirementEnforced bool
	PrePromotionMultiLocale     bool
	FutureCutoff                time.Duration
	UnfilteredQuota             int
}

// SnapshotConfig locates the reference data.
type SnapshotConfig struct {
	Path   string
	Driver string
}

// APIConfig configures the HTTP surface.
type APIConfig struct {
	ListenAddr string
	// RateLimitRPS is the per-IP budget; 0 disables rate limiting.
	RateLimitRPS int
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// Toggles maps the windows section onto engine toggles.
func (c AppConfig) Toggles() windows.Toggles {
	return windows.Toggles{
		SubsDubsRequirementEnforced: c.Windows.SubsDubsRequirementEnforced,
		PrePromotionMultiLocale:     c.Windows.PrePromotionMultiLocale,
		FutureCutoff:                c.Windows.FutureCutoff,
		UnfilteredQuota:             c.Windows.UnfilteredQuota,
	}
}

// LogConfig returns the logger settings.
func (c AppConfig) LogConfig() log.Config {
	return log.Config{
		Level:   c.LogLevel,
		Service: c.LogService,
		Version: c.Version,
	}
}

// TracingConfig returns the tracer provider settings.
func (c AppConfig) TracingConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		ServiceName:    c.LogService,
		ServiceVersion: c.Version,
		ExporterType:   c.Telemetry.Exporter,
		Endpoint:       c.Telemetry.Endpoint,
		SamplingRate:   c.Telemetry.SamplingRate,
	}
}

// FileConfig is the YAML file layout. Pointer fields distinguish "unset"
// from zero values.
type FileConfig struct {
	LogLevel   string `yaml:"logLevel,omitempty"`
	LogService string `yaml:"logService,omitempty"`

	Windows   *WindowsFileConfig   `yaml:"windows,omitempty"`
	Snapshot  *SnapshotFileConfig  `yaml:"snapshot,omitempty"`
	API       *APIFileConfig       `yaml:"api,omitempty"`
	Metrics   *MetricsFileConfig   `yaml:"metrics,omitempty"`
	Telemetry *TelemetryFileConfig `yaml:"telemetry,omitempty"`
}

// WindowsFileConfig is the windows section of the file.
type WindowsFileConfig struct {
	SubsDubsRequirementEnforced *bool `yaml:"subsDubsRequirementEnforced,omitempty"`
	PrePromotionMultiLocale     *bool `yaml:"prePromotionMultiLocale,omitempty"`
	// FutureCutoff is a Go duration string, e.g. "8640h".
	FutureCutoff    string `yaml:"futureCutoff,omitempty"`
	UnfilteredQuota *int   `yaml:"unfilteredQuota,omitempty"`
}

// SnapshotFileConfig is the snapshot section of the file.
type SnapshotFileConfig struct {
	Path   string `yaml:"path,omitempty"`
	Driver string `yaml:"driver,omitempty"`
}

// APIFileConfig is the api section of the file.
type APIFileConfig struct {
	ListenAddr   string `yaml:"listenAddr,omitempty"`
	RateLimitRPS *int   `yaml:"rateLimitRPS,omitempty"`
}

// MetricsFileConfig is the metrics section of the file.
type MetricsFileConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// TelemetryFileConfig is the telemetry section of the file.
type TelemetryFileConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
