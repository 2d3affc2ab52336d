// Package reconcile computes and applies the difference between the
// declared exposure set of an environment and the launcher scripts actually
// present in the shared bin directory.
//
// The filesystem is the only source of truth: there is no journal of what
// envbin previously exposed. Every run re-reads the bin directory, parses
// each launcher to find the executable it invokes, and matches that against
// the declared mappings.
package reconcile

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/envbin/internal/logging"
	"github.com/blackwell-systems/envbin/internal/paths"
	"github.com/blackwell-systems/envbin/internal/script"
)

// Exposure is one launcher script on disk together with the executable it
// invokes. Derived fresh on every scan, never persisted.
type Exposure struct {
	// ScriptPath is the launcher's path inside the bin directory.
	ScriptPath string
	// Target is the absolute path of the executable the launcher invokes.
	Target string
}

// Scan returns the exposures in bin that point into env. Launcher parsing
// is a pure read per file, so all candidates are parsed concurrently; files
// whose content cannot be parsed are not launchers written by envbin and
// are skipped, never reported as errors.
func Scan(ctx context.Context, bin paths.BinDir, env paths.EnvDir) ([]Exposure, error) {
	files, err := bin.Files(ctx)
	if err != nil {
		return nil, err
	}

	log := logging.Logger("reconcile")

	parsed := make([]*Exposure, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			target, err := script.Target(file)
			if err != nil {
				log.Debug().Str("path", file).Err(err).Msg("skipping non-launcher file")
				return nil
			}
			parsed[i] = &Exposure{ScriptPath: file, Target: target}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var related []Exposure
	for _, exposure := range parsed {
		if exposure != nil && isUnder(exposure.Target, env.Path()) {
			related = append(related, *exposure)
		}
	}
	return related, nil
}

// isUnder reports whether path is lexically inside root.
func isUnder(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
