// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command availwin computes availability windows from a rights snapshot,
// either once on the command line or behind an HTTP server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/availwin/internal/catalog"
	"github.com/ManuGH/availwin/internal/config"
	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/persistence/sqlite"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	switch args[0] {
	case "compute":
		return runCompute(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "snapshot":
		return runSnapshotCLI(args[1:], stdout, stderr)
	case "config":
		return runConfigCLI(args[1:], stdout, stderr)
	case "version", "-version", "--version":
		_, _ = fmt.Fprintf(stdout, "%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  availwin compute -video ID -country CC [-locale L] [-config F] [-snapshot S] [-out FILE]")
	_, _ = fmt.Fprintln(w, "  availwin serve [-config F]")
	_, _ = fmt.Fprintln(w, "  availwin snapshot import -in YAML -db SQLITE")
	_, _ = fmt.Fprintln(w, "  availwin snapshot verify -db SQLITE [-mode quick|full]")
	_, _ = fmt.Fprintln(w, "  availwin config validate -config F")
	_, _ = fmt.Fprintln(w, "  availwin version")
}

// setupLogging configures the global logger on stderr so stdout stays free
// for command output.
func setupLogging(cfg config.AppConfig, stderr io.Writer) {
	lc := cfg.LogConfig()
	lc.Output = stderr
	log.Reconfigure(lc)
}

// loadConfig applies the usual precedence, then lets a non-empty snapshot
// flag override the configured path.
func loadConfig(path, snapshotPath, driver string) (config.AppConfig, *config.Loader, error) {
	loader := config.NewLoader(strings.TrimSpace(path), version)
	cfg, err := loader.Load()
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	if snapshotPath != "" {
		cfg.Snapshot.Path = snapshotPath
	}
	if driver != "" {
		cfg.Snapshot.Driver = driver
	}
	return cfg, loader, nil
}

// loadSnapshot reads the reference data with the configured driver.
func loadSnapshot(ctx context.Context, cfg config.SnapshotConfig) (*catalog.Snapshot, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("snapshot path is required (set -snapshot or %s)", config.EnvSnapshotPath)
	}
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.LoadCatalog(ctx, cfg.Path)
	case config.DriverYAML, "":
		return catalog.LoadFile(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", cfg.Driver)
	}
}
