// Package app wires the envbin subcommands together.
package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/envbin/internal/logging"
)

var (
	homeFlag  string
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "envbin",
		Short: "Expose executables from isolated environments on your PATH",
		Long: `envbin manages a shared bin directory of launcher scripts that forward to
executables inside isolated environments under ~/.envbin/envs.

You declare which executables an environment should expose; envbin inspects
the launchers actually on disk, computes the drift, and applies the minimal
set of changes to correct it. The filesystem is the only source of truth:
every sync re-reads and re-parses the launchers instead of trusting a
journal.

Quick start:
  1. envbin expose python3=python3 --environment python
  2. Add ~/.envbin/bin to your PATH
  3. envbin sync        # re-run any time; it converges and is idempotent

Run 'envbin watch --daemon' to keep the bin directory reconciled
automatically when launchers are added or removed behind envbin's back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("envbin: expose executables from isolated environments on your PATH")
			fmt.Println()
			fmt.Println("Tip: Run 'envbin list' to see environments and their exposures.")
			fmt.Println("     Run 'envbin sync' to reconcile the bin directory.")
			fmt.Println("     Run 'envbin --help' for all commands.")
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "envbin root directory (default: ~/.envbin)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	}

	// Enable cobra's built-in suggestion feature for unknown subcommands
	rootCmd.SuggestionsMinimumDistance = 2

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(exposeCmd)
	rootCmd.AddCommand(unexposeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
