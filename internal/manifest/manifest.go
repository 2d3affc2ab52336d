// Package manifest owns the declared exposure set: a TOML file listing, per
// environment, which exposed names map to which executables, plus the
// channels the environment was installed from.
//
// Example:
//
//	[envs.python]
//	channels = ["conda-forge"]
//
//	[envs.python.exposed]
//	python3 = "python3"
//	pip = "pip"
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/paths"
)

const fileName = "manifest.toml"

// EnvManifestOverride points envbin at an alternate manifest file.
const EnvManifestOverride = "ENVBIN_MANIFEST"

// Manifest is the declared state for every environment.
type Manifest struct {
	Envs map[string]Environment `toml:"envs"`
}

// Environment declares one environment's channels and exposed executables.
// Exposed keys are exposed names, values are executable names; TOML table
// keys are unique, so duplicate exposed names are rejected by the format
// itself.
type Environment struct {
	Channels []string          `toml:"channels,omitempty"`
	Exposed  map[string]string `toml:"exposed,omitempty"`
}

// Locate resolves the manifest path: ENVBIN_MANIFEST if set, an existing
// file under the XDG config dir, otherwise the default inside the envbin
// home.
func Locate() (string, error) {
	if override := os.Getenv(EnvManifestOverride); override != "" {
		return override, nil
	}
	xdgPath := filepath.Join(xdg.ConfigHome, "envbin", fileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath, nil
	}
	home, err := paths.HomePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fileName), nil
}

// Load reads the manifest at path. A missing file is an empty manifest, not
// an error.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Manifest{Envs: make(map[string]Environment)}, nil
		}
		return nil, fmt.Errorf("cannot read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot parse manifest %s: %w", path, err)
	}
	if m.Envs == nil {
		m.Envs = make(map[string]Environment)
	}
	return &m, nil
}

// Save writes the manifest to path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("cannot serialize manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write manifest %s: %w", path, err)
	}
	return nil
}

// EnvironmentNames returns the declared environment names, sorted.
func (m *Manifest) EnvironmentNames() ([]envs.EnvironmentName, error) {
	names := make([]envs.EnvironmentName, 0, len(m.Envs))
	for raw := range m.Envs {
		name, err := envs.ParseEnvironmentName(raw)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names, nil
}

// Mappings returns the declared mappings for env, sorted by exposed name
// for deterministic reconciliation order.
func (m *Manifest) Mappings(env envs.EnvironmentName) ([]envs.Mapping, error) {
	declared, ok := m.Envs[env.String()]
	if !ok {
		return nil, nil
	}

	mappings := make([]envs.Mapping, 0, len(declared.Exposed))
	for raw, executable := range declared.Exposed {
		exposed, err := envs.ParseExposedName(raw)
		if err != nil {
			return nil, fmt.Errorf("manifest, environment %s: %w", env, err)
		}
		if executable == "" {
			return nil, fmt.Errorf("manifest, environment %s: exposed name %q maps to empty executable", env, raw)
		}
		mappings = append(mappings, envs.NewMapping(exposed, executable))
	}
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].ExposedName() < mappings[j].ExposedName()
	})
	return mappings, nil
}

// Channels returns env's declared channels normalized against the default
// alias: URLs under the alias host collapse to short names, other URLs stay
// URLs.
func (m *Manifest) Channels(env envs.EnvironmentName) ([]ChannelRef, error) {
	declared, ok := m.Envs[env.String()]
	if !ok {
		return nil, nil
	}
	refs := make([]ChannelRef, 0, len(declared.Channels))
	for _, spec := range declared.Channels {
		ref, err := ParseChannel(spec, defaultChannelAlias)
		if err != nil {
			return nil, fmt.Errorf("manifest, environment %s: %w", env, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// AddExposed declares a mapping for env, creating the environment entry if
// absent. An existing mapping for the same exposed name is replaced.
func (m *Manifest) AddExposed(env envs.EnvironmentName, mapping envs.Mapping) {
	declared := m.Envs[env.String()]
	if declared.Exposed == nil {
		declared.Exposed = make(map[string]string)
	}
	declared.Exposed[mapping.ExposedName().String()] = mapping.ExecutableName()
	m.Envs[env.String()] = declared
}

// RemoveExposed drops the mapping for name from env. It reports whether a
// mapping was present.
func (m *Manifest) RemoveExposed(env envs.EnvironmentName, name envs.ExposedName) bool {
	declared, ok := m.Envs[env.String()]
	if !ok {
		return false
	}
	if _, ok := declared.Exposed[name.String()]; !ok {
		return false
	}
	delete(declared.Exposed, name.String())
	m.Envs[env.String()] = declared
	return true
}
