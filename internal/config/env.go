// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/availwin/internal/log"
	"github.com/rs/zerolog"
)

// Environment variable names.
const (
	EnvLogLevel                    = "AVAILWIN_LOG_LEVEL"
	EnvLogService                  = "AVAILWIN_LOG_SERVICE"
	EnvSubsDubsRequirementEnforced = "AVAILWIN_SUBS_DUBS_REQUIREMENT_ENFORCED"
	EnvPrePromotionMultiLocale     = "AVAILWIN_PREPROMOTION_MULTILOCALE"
	EnvFutureCutoff                = "AVAILWIN_FUTURE_CUTOFF"
	EnvUnfilteredQuota             = "AVAILWIN_UNFILTERED_QUOTA"
	EnvSnapshotPath                = "AVAILWIN_SNAPSHOT_PATH"
	EnvSnapshotDriver              = "AVAILWIN_SNAPSHOT_DRIVER"
	EnvListenAddr                  = "AVAILWIN_LISTEN_ADDR"
	EnvRateLimitRPS                = "AVAILWIN_RATE_LIMIT_RPS"
	EnvMetricsEnabled              = "AVAILWIN_METRICS_ENABLED"
	EnvTracingEnabled              = "AVAILWIN_TRACING_ENABLED"
	EnvTracingExporter             = "AVAILWIN_TRACING_EXPORTER"
	EnvTracingEndpoint             = "AVAILWIN_TRACING_ENDPOINT"
	EnvTracingSamplingRate         = "AVAILWIN_TRACING_SAMPLING_RATE"
)

// lookup returns a non-empty environment value. Empty variables count as
// unset and fall back to the default.
func lookup(logger zerolog.Logger, key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	if strings.TrimSpace(v) == "" {
		logger.Debug().
			Str("key", key).
			Str("source", "default").
			Msg("using default value (environment variable is empty)")
		return "", false
	}
	return v, true
}

// parseEnv reads key through parse and falls back to defaultValue when the
// variable is unset, empty or malformed.
func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")
	raw, ok := lookup(logger, key)
	if !ok {
		return defaultValue
	}
	v, err := parse(raw)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", raw).
			Interface("default", defaultValue).
			Msg("invalid value in environment variable, using default")
		return defaultValue
	}
	logger.Debug().
		Str("key", key).
		Str("source", "environment").
		Msg("using environment variable")
	return v
}

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return parseEnv(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer from environment variable or returns default value.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseDuration reads a Go duration (e.g. "5s") from environment variable or
// returns default value.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, func(s string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		default:
			return false, strconv.ErrSyntax
		}
	})
}
