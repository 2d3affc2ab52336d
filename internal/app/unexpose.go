package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/manifest"
)

var (
	unexposeEnvironment string

	unexposeCmd = &cobra.Command{
		Use:   "unexpose NAME...",
		Short: "Withdraw exposed executables and remove their launchers",
		Long: `Remove one or more exposure declarations from the manifest and reconcile
the environment so the corresponding launchers disappear from the bin
directory.`,
		Example: `  envbin unexpose py3 --environment python`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runUnexpose,
	}
)

func init() {
	unexposeCmd.Flags().StringVarP(&unexposeEnvironment, "environment", "e", "", "environment to unexpose from (required)")
	unexposeCmd.MarkFlagRequired("environment")
}

func runUnexpose(cmd *cobra.Command, args []string) error {
	name, err := envs.ParseEnvironmentName(unexposeEnvironment)
	if err != nil {
		return err
	}

	mPath, err := manifestPath()
	if err != nil {
		return err
	}
	m, err := manifest.Load(mPath)
	if err != nil {
		return err
	}

	for _, arg := range args {
		exposed, err := envs.ParseExposedName(arg)
		if err != nil {
			return err
		}
		if !m.RemoveExposed(name, exposed) {
			return fmt.Errorf("exposed name %q is not declared for environment %s", arg, name)
		}
	}
	if err := m.Save(mPath); err != nil {
		return err
	}

	bin, root, err := resolveRoots()
	if err != nil {
		return err
	}
	ledger, err := reconcileEnv(cmd.Context(), bin, root, m, name)
	if ledger != nil {
		if histErr := recordHistory(ledger); histErr != nil && err == nil {
			err = histErr
		}
		ledger.Report(os.Stderr)
	}
	return err
}
