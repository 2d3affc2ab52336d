package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/envbin/internal/envs"
)

func testEnvName(t *testing.T, s string) envs.EnvironmentName {
	t.Helper()
	name, err := envs.ParseEnvironmentName(s)
	require.NoError(t, err)
	return name
}

func TestLoad_MissingFileIsEmptyManifest(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "manifest.toml"))
	require.NoError(t, err)
	assert.Empty(t, m.Envs)
}

func TestLoad_ParsesDeclaredExposures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	content := `
[envs.python]
channels = ["conda-forge"]

[envs.python.exposed]
python3 = "python3"
pip = "pip"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	mappings, err := m.Mappings(testEnvName(t, "python"))
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	// Sorted by exposed name for deterministic reconciliation.
	assert.Equal(t, "pip=pip", mappings[0].String())
	assert.Equal(t, "python3=python3", mappings[1].String())
}

func TestLoad_RejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte("[envs.python\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMappings_RejectsInvalidExposedName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	content := `
[envs.python.exposed]
"bad/name" = "python3"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	_, err = m.Mappings(testEnvName(t, "python"))
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "manifest.toml")
	name := testEnvName(t, "tools")

	m := &Manifest{Envs: make(map[string]Environment)}
	exposed, err := envs.ParseExposedName("rg")
	require.NoError(t, err)
	m.AddExposed(name, envs.NewMapping(exposed, "ripgrep"))

	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	mappings, err := loaded.Mappings(name)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "rg=ripgrep", mappings[0].String())
}

func TestAddRemoveExposed(t *testing.T) {
	name := testEnvName(t, "tools")
	m := &Manifest{Envs: make(map[string]Environment)}

	exposed, err := envs.ParseExposedName("jq")
	require.NoError(t, err)
	m.AddExposed(name, envs.NewMapping(exposed, "jq"))

	assert.True(t, m.RemoveExposed(name, exposed))
	assert.False(t, m.RemoveExposed(name, exposed), "second removal finds nothing")

	mappings, err := m.Mappings(name)
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestEnvironmentNames_Sorted(t *testing.T) {
	m := &Manifest{Envs: map[string]Environment{
		"zsh-tools": {},
		"python":    {},
	}}

	names, err := m.EnvironmentNames()
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "python", names[0].String())
	assert.Equal(t, "zsh-tools", names[1].String())
}

func TestChannels_NormalizesDeclaredChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	content := `
[envs.python]
channels = ["conda-forge", "https://conda.anaconda.org/bioconda", "https://repo.example.com/custom"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	channels, err := m.Channels(testEnvName(t, "python"))
	require.NoError(t, err)
	require.Len(t, channels, 3)
	assert.Equal(t, "conda-forge", channels[0].String())
	assert.Equal(t, "bioconda", channels[1].String(), "alias-host URL collapses to its short name")
	assert.Equal(t, "https://repo.example.com/custom", channels[2].String())
}

func TestLocate_HonorsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(EnvManifestOverride, path)

	got, err := Locate()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
