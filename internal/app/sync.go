package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/manifest"
	"github.com/blackwell-systems/envbin/internal/output"
	"github.com/blackwell-systems/envbin/internal/state"
)

var (
	syncEnvironment string

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the bin directory with the declared exposures",
		Long: `Compare the launcher scripts in the shared bin directory against the
exposures declared in the manifest and apply the minimal set of changes:
stale launchers are removed, missing ones are written, changed ones are
rewritten in place.

Launchers that envbin cannot positively attribute to itself (native
binaries, symlinks, scripts in an unknown format) are never touched.

sync is idempotent: running it against an already-consistent bin directory
changes nothing.`,
		Example: `  # Reconcile every declared environment
  envbin sync

  # Reconcile a single environment
  envbin sync --environment python`,
		RunE: runSync,
	}
)

func init() {
	syncCmd.Flags().StringVarP(&syncEnvironment, "environment", "e", "", "reconcile only this environment")
}

func runSync(cmd *cobra.Command, args []string) error {
	changes, outcomes, err := syncEnvironments(cmd.Context(), syncEnvironment)

	// Report whatever succeeded even when a later environment failed; the
	// ledger only ever contains applied mutations.
	if changes != nil {
		if histErr := recordHistory(changes); histErr != nil && err == nil {
			err = histErr
		}
		changes.Report(os.Stderr)
	}
	if outcomes != nil {
		reportOutcomes(outcomes)
	}
	return err
}

// syncEnvironments reconciles the named environment, or every declared one
// when environment is empty, and returns the merged ledger plus the
// per-environment outcome summary.
func syncEnvironments(ctx context.Context, environment string) (*state.StateChanges, *state.EnvChanges, error) {
	bin, root, err := resolveRoots()
	if err != nil {
		return nil, nil, err
	}

	mPath, err := manifestPath()
	if err != nil {
		return nil, nil, err
	}
	m, err := manifest.Load(mPath)
	if err != nil {
		return nil, nil, err
	}

	var names []envs.EnvironmentName
	if environment != "" {
		name, err := envs.ParseEnvironmentName(environment)
		if err != nil {
			return nil, nil, err
		}
		names = []envs.EnvironmentName{name}
	} else {
		names, err = m.EnvironmentNames()
		if err != nil {
			return nil, nil, err
		}
	}

	all := state.New()
	outcomes := state.NewEnvChanges()

	for _, name := range names {
		ledger, err := reconcileEnv(ctx, bin, root, m, name)
		all.Merge(ledger)
		if err != nil {
			return all, outcomes, fmt.Errorf("failed to sync environment %s: %w", name, err)
		}
		if ledger.HasChanges() {
			outcomes.Set(name, state.Installed)
		} else {
			outcomes.Set(name, state.NotChanged(state.AlreadyInstalled))
		}
	}

	return all, outcomes, nil
}

// reportOutcomes prints one line per environment whose sync was a no-op.
func reportOutcomes(outcomes *state.EnvChanges) {
	color := output.ColorEnabled(os.Stderr)
	for env, outcome := range outcomes.Changes {
		if outcome.Changed() {
			continue
		}
		fmt.Fprintf(os.Stderr, "%sEnvironment %s was %s.\n",
			output.Marker(color), output.Name(env.String(), color), outcome)
	}
}
