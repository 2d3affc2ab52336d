// Package watcher keeps the bin directory reconciled by re-running sync
// whenever launcher files change on disk.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/blackwell-systems/envbin/internal/logging"
)

// defaultDebounce is how long the watcher waits after the last filesystem
// event before triggering a resync; editors and installers touch launcher
// files in bursts.
const defaultDebounce = 500 * time.Millisecond

// Watcher triggers a resync callback whenever the watched bin directory
// changes.
type Watcher struct {
	binPath  string
	resync   func(context.Context) error
	debounce time.Duration

	fw     *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
	log    zerolog.Logger
}

// New creates a watcher over binPath that calls resync after changes settle.
func New(binPath string, resync func(context.Context) error) (*Watcher, error) {
	if resync == nil {
		return nil, fmt.Errorf("resync callback cannot be nil")
	}
	return &Watcher{
		binPath:  binPath,
		resync:   resync,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
		log:      logging.Logger("watcher"),
	}, nil
}

// Start begins watching. It runs one resync immediately so a stale bin
// directory is corrected without waiting for the first event.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.resync(ctx); err != nil {
		w.log.Warn().Err(err).Msg("initial resync failed")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fw.Add(w.binPath); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.binPath, err)
	}
	w.fw = fw

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

// run debounces filesystem events into resync calls until stopped.
func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("bin directory changed")
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			if err := w.resync(ctx); err != nil {
				w.log.Warn().Err(err).Msg("resync failed")
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("filesystem watcher error")

		case <-ctx.Done():
			return

		case <-w.stopCh:
			return
		}
	}
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	if w.fw != nil {
		w.fw.Close()
	}
	w.wg.Wait()
	return nil
}
