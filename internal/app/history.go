package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/envbin/internal/history"
)

var (
	historyEnvironment string
	historyLimit       int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show the changes envbin has applied",
		Long: `Show the log of changes envbin has applied to the bin directory and the
environments, newest first.

The history is informational only: sync never consults it. The launchers on
disk remain the single source of truth for what is exposed.`,
		Example: `  # Last 50 changes across all environments
  envbin history

  # Changes for one environment
  envbin history --environment python --limit 10`,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().StringVarP(&historyEnvironment, "environment", "e", "", "show only this environment")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, err := historyDBPath()
	if err != nil {
		return err
	}
	db, err := history.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.List(historyEnvironment, historyLimit)
	if err != nil {
		if errors.Is(err, history.ErrNotInitialized) {
			fmt.Println("No history yet.")
			return nil
		}
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}

	for _, entry := range entries {
		detail := entry.ExposedName
		if entry.Kind == "added-package" {
			detail = fmt.Sprintf("%s=%s", entry.PackageName, entry.PackageVersion)
		}
		fmt.Printf("%s  %-20s %-20s %s\n",
			entry.AppliedAt.Local().Format("2006-01-02 15:04"),
			entry.Environment,
			entry.Kind,
			detail)
	}
	return nil
}
