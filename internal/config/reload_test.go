package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHolder(t *testing.T, body string) (*Holder, string) {
	t.Helper()
	path := writeConfig(t, body)
	loader := NewLoader(path, "test")
	cfg, err := loader.Load()
	require.NoError(t, err)
	return NewHolder(cfg, loader), path
}

func TestHolder_Reload(t *testing.T) {
	h, path := newHolder(t, "windows:\n  unfilteredQuota: 2\n")
	assert.Equal(t, 2, h.Toggles().UnfilteredQuota)

	ch := make(chan AppConfig, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("windows:\n  unfilteredQuota: 4\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))

	assert.Equal(t, 4, h.Get().Windows.UnfilteredQuota)
	select {
	case got := <-ch:
		assert.Equal(t, 4, got.Windows.UnfilteredQuota)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolder_ReloadKeepsOldConfigOnFailure(t *testing.T) {
	h, path := newHolder(t, "windows:\n  unfilteredQuota: 2\n")

	require.NoError(t, os.WriteFile(path, []byte("windows:\n  unfilteredQuota: -4\n"), 0o600))
	require.Error(t, h.Reload(context.Background()))
	assert.Equal(t, 2, h.Get().Windows.UnfilteredQuota)

	require.NoError(t, os.WriteFile(path, []byte("bogus: true\n"), 0o600))
	err := h.Reload(context.Background())
	require.ErrorIs(t, err, ErrUnknownConfigField)
	assert.Equal(t, 2, h.Get().Windows.UnfilteredQuota)
}

func TestHolder_ListenerNeverBlocks(t *testing.T) {
	h, _ := newHolder(t, "")
	full := make(chan AppConfig)
	h.RegisterListener(full)

	done := make(chan error, 1)
	go func() { done <- h.Reload(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reload blocked on an unbuffered listener")
	}
}

func TestHolder_WatcherReloadsOnWrite(t *testing.T) {
	h, path := newHolder(t, "windows:\n  unfilteredQuota: 2\n")
	h.SetDebounce(20 * time.Millisecond)

	ch := make(chan AppConfig, 4)
	h.RegisterListener(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))
	defer h.Stop()

	require.NoError(t, os.WriteFile(path, []byte("windows:\n  unfilteredQuota: 6\n"), 0o600))

	select {
	case got := <-ch:
		assert.Equal(t, 6, got.Windows.UnfilteredQuota)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the config")
	}
	assert.Equal(t, 6, h.Toggles().UnfilteredQuota)
}

func TestHolder_StopWithoutWatcher(t *testing.T) {
	h := NewHolder(Defaults(), NewLoader("", ""))
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}

func TestHolder_WatcherStopsOnCancel(t *testing.T) {
	h, _ := newHolder(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))

	cancel()
	h.Stop()
}
