// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ManuGH/availwin/internal/log"
	"github.com/ManuGH/availwin/internal/metrics"
	"github.com/ManuGH/availwin/internal/windows"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses bursts of file events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Holder holds configuration with atomic reloading capability.
// It provides thread-safe access to configuration and supports hot reloading
// from file or manual trigger via API.
type Holder struct {
	mu       sync.RWMutex
	current  AppConfig
	loader   *Loader
	debounce time.Duration
	logger   zerolog.Logger

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}

	listenMu  sync.RWMutex
	listeners []chan<- AppConfig
}

// NewHolder creates a holder with an initial, already validated config.
func NewHolder(initial AppConfig, loader *Loader) *Holder {
	return &Holder{
		current:  initial,
		loader:   loader,
		debounce: DefaultDebounce,
		logger:   log.WithComponent("config"),
	}
}

// SetDebounce changes the file event debounce. Call before StartWatcher.
func (h *Holder) SetDebounce(d time.Duration) {
	h.debounce = d
}

// Get returns the current configuration (thread-safe read).
func (h *Holder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Toggles returns the engine toggles of the current configuration. It
// matches the toggle source expected by windows.NewEngine.
func (h *Holder) Toggles() windows.Toggles {
	return h.Get().Toggles()
}

// Reload reloads configuration and validates it.
// If loading or validation fails, the old configuration is kept and an error
// is returned.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Info().Str(log.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		metrics.RecordConfigReload(false)
		h.logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	metrics.RecordConfigReload(true)
	h.notifyListeners(newCfg)
	h.logChanges(oldCfg, newCfg)

	h.logger.Info().
		Str(log.FieldEvent, "config.reload_success").
		Msg("configuration reloaded successfully")
	return nil
}

// StartWatcher starts watching the config file for changes until ctx is
// done. Without a config file this is a no-op.
func (h *Holder) StartWatcher(ctx context.Context) error {
	path := h.loader.Path()
	if path == "" {
		h.logger.Info().
			Str(log.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	h.watchMu.Lock()
	h.watcher = watcher
	h.done = make(chan struct{})
	done := h.done
	h.watchMu.Unlock()

	h.logger.Info().
		Str(log.FieldEvent, "config.watcher_started").
		Str(log.FieldPath, path).
		Msg("watching config file for changes")

	go h.watchLoop(ctx, watcher, done)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(log.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Write and Create cover in-place edits and editors that replace the file.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			h.logger.Debug().
				Str(log.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(h.debounce, func() {
				if err := h.Reload(ctx); err != nil {
					h.logger.Error().
						Err(err).
						Str(log.FieldEvent, "config.auto_reload_failed").
						Msg("automatic config reload failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(log.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop closes the watcher, if running, and waits for its loop to exit.
func (h *Holder) Stop() {
	h.watchMu.Lock()
	watcher, done := h.watcher, h.done
	h.watcher, h.done = nil, nil
	h.watchMu.Unlock()

	if watcher == nil {
		return
	}
	_ = watcher.Close()
	<-done
}

// RegisterListener registers a channel to receive the new config whenever a
// reload succeeds. Sends never block; a full channel misses the update.
func (h *Holder) RegisterListener(ch chan<- AppConfig) {
	h.listenMu.Lock()
	defer h.listenMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notifyListeners(cfg AppConfig) {
	h.listenMu.RLock()
	defer h.listenMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- cfg:
		default:
			h.logger.Warn().
				Str(log.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

// logChanges logs the engine-relevant differences between configurations.
func (h *Holder) logChanges(old, cfg AppConfig) {
	if old.Windows != cfg.Windows {
		h.logger.Info().
			Bool("subs_dubs_enforced", cfg.Windows.SubsDubsRequirementEnforced).
			Bool("prepromotion_multilocale", cfg.Windows.PrePromotionMultiLocale).
			Dur("future_cutoff", cfg.Windows.FutureCutoff).
			Int("unfiltered_quota", cfg.Windows.UnfilteredQuota).
			Msg("config changed: windows")
	}
	if old.LogLevel != cfg.LogLevel {
		h.logger.Info().
			Str("old", old.LogLevel).
			Str("new", cfg.LogLevel).
			Msg("config changed: logLevel")
	}
	if old.Snapshot != cfg.Snapshot {
		h.logger.Info().
			Str("path", cfg.Snapshot.Path).
			Str("driver", cfg.Snapshot.Driver).
			Msg("config changed: snapshot (takes effect on restart)")
	}
}
