package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/paths"
	"github.com/blackwell-systems/envbin/internal/script"
	"github.com/blackwell-systems/envbin/internal/state"
)

// Apply brings the bin directory in line with the declared mappings for one
// environment: stale launchers are removed, missing ones are written, and a
// launcher whose declared target changed is rewritten in place and reported
// as updated.
//
// The returned ledger records each mutation only after the filesystem
// operation succeeded, so on error it still describes exactly what was
// done. The error, if any, carries the offending path.
func Apply(ctx context.Context, bin paths.BinDir, env paths.EnvDir, envName envs.EnvironmentName, mappings []envs.Mapping) (*state.StateChanges, error) {
	changes := state.NewFor(envName)

	toRemove, toAdd, err := SyncStatus(ctx, bin, env, mappings)
	if err != nil {
		return changes, err
	}

	toAddSet := make(map[envs.ExposedName]bool, len(toAdd))
	for _, name := range toAdd {
		toAddSet[name] = true
	}

	// A launcher that is both stale and re-declared under the same name is
	// an in-place update: skip the removal and overwrite it below.
	updating := make(map[envs.ExposedName]bool)
	for _, scriptPath := range toRemove {
		name := envs.ExposedName(paths.ExecutableName(scriptPath))
		if toAddSet[name] && scriptPath == bin.ExposedScriptPath(name) {
			updating[name] = true
			continue
		}
		if err := os.Remove(scriptPath); err != nil {
			return changes, fmt.Errorf("cannot remove launcher %s: %w", scriptPath, err)
		}
		changes.Record(envName, state.RemovedExposed(name))
	}

	for _, name := range toAdd {
		mapping, ok := mappingFor(mappings, name)
		if !ok {
			continue
		}
		target := filepath.Join(env.Path(), "bin",
			mapping.ExecutableName()+paths.ExecutableSuffix())
		if err := script.Write(bin.ExposedScriptPath(name), target); err != nil {
			return changes, err
		}
		if updating[name] {
			changes.Record(envName, state.UpdatedExposed(name))
		} else {
			changes.Record(envName, state.AddedExposed(name))
		}
	}

	return changes, nil
}

func mappingFor(mappings []envs.Mapping, name envs.ExposedName) (envs.Mapping, bool) {
	for _, mapping := range mappings {
		if mapping.ExposedName() == name {
			return mapping, true
		}
	}
	return envs.Mapping{}, false
}
