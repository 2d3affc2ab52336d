//go:build windows

package watcher

import (
	"context"
	"fmt"
)

// Daemon mode relies on Setsid and POSIX signals; on Windows the watcher
// only runs in the foreground.

func StartDaemon(pidFile, logFile string) error {
	return fmt.Errorf("daemon mode is not supported on Windows; run 'envbin watch' in the foreground")
}

func (w *Watcher) RunDaemon(ctx context.Context, pidFile string) error {
	return fmt.Errorf("daemon mode is not supported on Windows")
}

func StopDaemon(pidFile string) error {
	return fmt.Errorf("daemon mode is not supported on Windows")
}

func IsDaemonRunning(pidFile string) (bool, error) {
	return false, nil
}
