package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/envbin/internal/watcher"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchStop        bool
	watchPIDFile     string
	watchLogFile     string

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Keep the bin directory reconciled automatically",
		Long: `Watch the shared bin directory and re-run sync whenever launcher files
change: an installer dropping files, a user deleting a launcher by hand, or
an environment being re-created all trigger reconciliation after the events
settle.

Watch modes:
  • Foreground (default): run in the current terminal, Ctrl+C to stop
  • Daemon: run as a detached background process
  • Stop: stop a running daemon`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  envbin watch

  # Run as background daemon
  envbin watch --daemon

  # Stop the running daemon
  envbin watch --stop`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.envbin/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.envbin/watch.log)")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	home, err := resolveHome()
	if err != nil {
		return err
	}
	if watchPIDFile == "" {
		watchPIDFile = filepath.Join(home, "watch.pid")
	}
	if watchLogFile == "" {
		watchLogFile = filepath.Join(home, "watch.log")
	}

	if watchStop {
		return watcher.StopDaemon(watchPIDFile)
	}

	if watchDaemon {
		if err := watcher.StartDaemon(watchPIDFile, watchLogFile); err != nil {
			return err
		}
		fmt.Printf("Watch daemon started (PID file: %s)\n", watchPIDFile)
		return nil
	}

	bin, _, err := resolveRoots()
	if err != nil {
		return err
	}

	w, err := watcher.New(bin.Path(), resyncAll)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if watchDaemonChild {
		return w.RunDaemon(cmd.Context(), watchPIDFile)
	}

	// Foreground mode: watch until interrupted.
	if err := w.Start(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", bin.Path())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	return w.Stop()
}

// resyncAll reconciles every declared environment, reporting and recording
// only when something actually changed.
func resyncAll(ctx context.Context) error {
	changes, _, err := syncEnvironments(ctx, "")
	if err != nil {
		return err
	}
	if changes != nil && changes.HasChanges() {
		if err := recordHistory(changes); err != nil {
			return err
		}
		changes.Report(os.Stderr)
	}
	return nil
}
