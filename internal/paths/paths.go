// Package paths owns the well-known envbin directories and the
// platform-specific naming rules for launcher scripts.
//
// Layout:
//   - ~/.envbin/bin        shared launcher directory (on PATH)
//   - ~/.envbin/envs/NAME  one directory per installed environment
//
// The root can be relocated with the ENVBIN_HOME environment variable.
package paths

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/envbin/internal/envs"
)

const (
	// EnvHomeOverride relocates the envbin root directory.
	EnvHomeOverride = "ENVBIN_HOME"

	homeDirName = ".envbin"
	binDirName  = "bin"
	envsDirName = "envs"

	// metaDirName is the per-environment subdirectory holding one JSON
	// record per installed package.
	metaDirName = "env-meta"
)

// ErrLocationUnresolvable is returned when no home directory can be
// determined to anchor the envbin root.
var ErrLocationUnresolvable = errors.New("cannot determine envbin home directory")

// HomePath resolves the envbin root directory without creating it.
func HomePath() (string, error) {
	if override := os.Getenv(EnvHomeOverride); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLocationUnresolvable, err)
	}
	return filepath.Join(home, homeDirName), nil
}

// BinDir is the shared directory of launcher scripts. It exists after
// construction and is shared by every environment.
type BinDir struct {
	path string
}

// NewBinDir creates (if needed) and returns the bin directory under root.
func NewBinDir(root string) (BinDir, error) {
	path := filepath.Join(root, binDirName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return BinDir{}, fmt.Errorf("cannot create bin directory %s: %w", path, err)
	}
	return BinDir{path: path}, nil
}

// BinDirFromConfiguredLocation resolves the bin directory from the home
// convention (or ENVBIN_HOME) and creates it if missing.
func BinDirFromConfiguredLocation() (BinDir, error) {
	root, err := HomePath()
	if err != nil {
		return BinDir{}, err
	}
	return NewBinDir(root)
}

// Path returns the bin directory path.
func (b BinDir) Path() string { return b.path }

// ExposedScriptPath returns the launcher script path for the given exposed
// name. The platform launcher suffix is appended, never set as an
// extension, so dotted names like "python3.9.1" survive intact.
func (b BinDir) ExposedScriptPath(name envs.ExposedName) string {
	return filepath.Join(b.path, name.String()+LauncherSuffix())
}

// Files returns the launcher script candidates in the bin directory: regular
// files that are executable and classify as text. Native binaries and
// symlinked executables are never launchers written by envbin and are
// skipped. Every call re-reads the directory.
func (b BinDir) Files(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.path)
	if err != nil {
		return nil, fmt.Errorf("cannot read bin directory %s: %w", b.path, err)
	}

	var files []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", filepath.Join(b.path, entry.Name()), err)
		}
		if !isExecutable(info) {
			continue
		}
		path := filepath.Join(b.path, entry.Name())
		text, err := IsTextFile(path)
		if err != nil {
			return nil, err
		}
		if text {
			files = append(files, path)
		}
	}
	return files, nil
}

// EnvRoot is the directory holding one subdirectory per environment.
type EnvRoot struct {
	path string
}

// NewEnvRoot creates (if needed) and returns the envs directory under root.
func NewEnvRoot(root string) (EnvRoot, error) {
	path := filepath.Join(root, envsDirName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return EnvRoot{}, fmt.Errorf("cannot create envs directory %s: %w", path, err)
	}
	return EnvRoot{path: path}, nil
}

// EnvRootFromConfiguredLocation resolves the envs root from the home
// convention (or ENVBIN_HOME) and creates it if missing.
func EnvRootFromConfiguredLocation() (EnvRoot, error) {
	root, err := HomePath()
	if err != nil {
		return EnvRoot{}, err
	}
	return NewEnvRoot(root)
}

// Path returns the envs root path.
func (r EnvRoot) Path() string { return r.path }

// Directories returns the environment directories directly under the root.
// Every call re-reads the directory.
func (r EnvRoot) Directories(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.path)
	if err != nil {
		return nil, fmt.Errorf("cannot read envs directory %s: %w", r.path, err)
	}

	var dirs []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(r.path, entry.Name()))
		}
	}
	return dirs, nil
}

// EnvDir is one environment's installation root.
type EnvDir struct {
	path string
}

// NewEnvDir creates (mkdir -p) and returns the directory for the named
// environment under root.
func NewEnvDir(root EnvRoot, name envs.EnvironmentName) (EnvDir, error) {
	path := filepath.Join(root.Path(), name.String())
	if err := os.MkdirAll(path, 0o755); err != nil {
		return EnvDir{}, fmt.Errorf("cannot create environment directory %s: %w", path, err)
	}
	return EnvDir{path: path}, nil
}

// EnvDirFromPath wraps an existing environment directory path.
func EnvDirFromPath(path string) EnvDir {
	return EnvDir{path: path}
}

// Path returns the environment directory path.
func (d EnvDir) Path() string { return d.path }

// MetaDir returns the package-record metadata directory of the environment.
func (d EnvDir) MetaDir() string {
	return filepath.Join(d.path, metaDirName)
}
