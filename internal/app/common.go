package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/history"
	"github.com/blackwell-systems/envbin/internal/manifest"
	"github.com/blackwell-systems/envbin/internal/paths"
	"github.com/blackwell-systems/envbin/internal/reconcile"
	"github.com/blackwell-systems/envbin/internal/state"
)

// resolveHome returns the envbin root directory, honoring --home.
func resolveHome() (string, error) {
	if homeFlag != "" {
		return homeFlag, nil
	}
	return paths.HomePath()
}

// resolveRoots creates (if needed) and returns the bin and envs directories.
func resolveRoots() (paths.BinDir, paths.EnvRoot, error) {
	home, err := resolveHome()
	if err != nil {
		return paths.BinDir{}, paths.EnvRoot{}, err
	}
	bin, err := paths.NewBinDir(home)
	if err != nil {
		return paths.BinDir{}, paths.EnvRoot{}, err
	}
	root, err := paths.NewEnvRoot(home)
	if err != nil {
		return paths.BinDir{}, paths.EnvRoot{}, err
	}
	return bin, root, nil
}

// manifestPath returns the declared-exposure manifest location. With --home
// set the manifest lives inside that root; otherwise the usual lookup
// applies (ENVBIN_MANIFEST, XDG config dir, ~/.envbin).
func manifestPath() (string, error) {
	if homeFlag != "" {
		return filepath.Join(homeFlag, "manifest.toml"), nil
	}
	return manifest.Locate()
}

// historyDBPath returns the history database location under the envbin root.
func historyDBPath() (string, error) {
	home, err := resolveHome()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return "", fmt.Errorf("failed to create envbin directory: %w", err)
	}
	return filepath.Join(home, "history.db"), nil
}

// reconcileEnv reconciles one declared environment: the environment
// directory is created if absent (recorded as an added environment), then
// the bin directory is brought in line with the declared mappings.
func reconcileEnv(ctx context.Context, bin paths.BinDir, root paths.EnvRoot, m *manifest.Manifest, name envs.EnvironmentName) (*state.StateChanges, error) {
	ledger := state.NewFor(name)

	mappings, err := m.Mappings(name)
	if err != nil {
		return ledger, err
	}

	_, statErr := os.Stat(filepath.Join(root.Path(), name.String()))
	existed := statErr == nil

	envDir, err := paths.NewEnvDir(root, name)
	if err != nil {
		return ledger, err
	}
	if !existed {
		ledger.Record(name, state.AddedEnvironment())
	}

	applied, err := reconcile.Apply(ctx, bin, envDir, name, mappings)
	ledger.Merge(applied)
	return ledger, err
}

// recordHistory appends the ledger to the history database. The ledger is
// recorded un-pruned, before any report coalescing.
func recordHistory(changes *state.StateChanges) error {
	dbPath, err := historyDBPath()
	if err != nil {
		return err
	}
	db, err := history.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateSchema(); err != nil {
		return err
	}
	return db.RecordChanges(changes, time.Now())
}
