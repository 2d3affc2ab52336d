package reconcile

import (
	"context"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/paths"
)

// SyncStatus computes the drift between the launchers on disk and the
// declared mappings for one environment.
//
// toRemove holds launcher script paths that point into env but that no
// declared mapping wants anymore; toAdd holds declared exposed names not
// yet materialized on disk. A launcher that matches a mapping appears in
// neither set, which is what makes repeated runs converge: reconciling an
// already-consistent directory yields two empty sets.
//
// Both sets are computed from one scan snapshot; there is no partial
// result, on error neither set is returned.
func SyncStatus(ctx context.Context, bin paths.BinDir, env paths.EnvDir, mappings []envs.Mapping) (toRemove []string, toAdd []envs.ExposedName, err error) {
	related, err := Scan(ctx, bin, env)
	if err != nil {
		return nil, nil, err
	}

	// A launcher satisfies a mapping when both file-name-derived logical
	// names line up: the script's name with the launcher suffix stripped
	// must equal the exposed name, and the target's name must equal the
	// executable name.
	matches := func(m envs.Mapping, e Exposure) bool {
		return paths.ExecutableName(e.ScriptPath) == m.ExposedName().String() &&
			paths.ExecutableName(e.Target) == m.ExecutableName()
	}

	for _, exposure := range related {
		wanted := false
		for _, mapping := range mappings {
			if matches(mapping, exposure) {
				wanted = true
				break
			}
		}
		if !wanted {
			toRemove = append(toRemove, exposure.ScriptPath)
		}
	}

	for _, mapping := range mappings {
		materialized := false
		for _, exposure := range related {
			if matches(mapping, exposure) {
				materialized = true
				break
			}
		}
		if !materialized {
			toAdd = appendUniqueName(toAdd, mapping.ExposedName())
		}
	}

	return toRemove, toAdd, nil
}

// appendUniqueName appends name unless already present, preserving order.
func appendUniqueName(names []envs.ExposedName, name envs.ExposedName) []envs.ExposedName {
	for _, existing := range names {
		if existing == name {
			return names
		}
	}
	return append(names, name)
}
