package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("resync count %d never reached %d", counter.Load(), want)
}

func TestNew_RequiresResyncCallback(t *testing.T) {
	_, err := New(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestStart_RunsInitialResync(t *testing.T) {
	var count atomic.Int64
	w, err := New(t.TempDir(), func(context.Context) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.GreaterOrEqual(t, count.Load(), int64(1))
}

func TestWatcher_ResyncsAfterFileChange(t *testing.T) {
	dir := t.TempDir()

	var count atomic.Int64
	w, err := New(dir, func(context.Context) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	waitForCount(t, &count, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo"), []byte("#!/bin/sh\n"), 0o755))
	waitForCount(t, &count, 2)
}

func TestWatcher_DebouncesEventBursts(t *testing.T) {
	dir := t.TempDir()

	var count atomic.Int64
	w, err := New(dir, func(context.Context) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounce = 200 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	waitForCount(t, &count, 1)

	// A burst of writes inside one debounce window collapses to one resync.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "foo"), []byte("#!/bin/sh\n"), 0o755))
		time.Sleep(10 * time.Millisecond)
	}
	waitForCount(t, &count, 2)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(2), count.Load(), "burst must not trigger extra resyncs")
}

func TestStop_HaltsEventLoop(t *testing.T) {
	dir := t.TempDir()

	var count atomic.Int64
	w, err := New(dir, func(context.Context) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	waitForCount(t, &count, 1)
	require.NoError(t, w.Stop())

	before := count.Load()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, before, count.Load(), "stopped watcher must not resync")
}
