package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/paths"
	"github.com/blackwell-systems/envbin/internal/script"
)

// newTestDirs builds a fresh envbin root with a bin directory and one
// environment directory named "test".
func newTestDirs(t *testing.T) (paths.BinDir, paths.EnvDir) {
	t.Helper()
	root := t.TempDir()

	bin, err := paths.NewBinDir(root)
	require.NoError(t, err)

	envRoot, err := paths.NewEnvRoot(root)
	require.NoError(t, err)

	name, err := envs.ParseEnvironmentName("test")
	require.NoError(t, err)

	envDir, err := paths.NewEnvDir(envRoot, name)
	require.NoError(t, err)

	return bin, envDir
}

func mustMapping(t *testing.T, exposed, executable string) envs.Mapping {
	t.Helper()
	name, err := envs.ParseExposedName(exposed)
	require.NoError(t, err)
	return envs.NewMapping(name, executable)
}

// writeLauncher materializes a launcher in bin pointing at an executable
// inside env.
func writeLauncher(t *testing.T, bin paths.BinDir, env paths.EnvDir, exposed, executable string) string {
	t.Helper()
	name, err := envs.ParseExposedName(exposed)
	require.NoError(t, err)

	path := bin.ExposedScriptPath(name)
	target := filepath.Join(env.Path(), "bin", executable+paths.ExecutableSuffix())
	require.NoError(t, script.Write(path, target))
	return path
}

func TestSyncStatus_EmptyEverything(t *testing.T) {
	bin, env := newTestDirs(t)

	toRemove, toAdd, err := SyncStatus(context.Background(), bin, env, nil)
	require.NoError(t, err)
	assert.Empty(t, toRemove)
	assert.Empty(t, toAdd)
}

func TestSyncStatus_DeclaredButNotOnDisk(t *testing.T) {
	bin, env := newTestDirs(t)
	mappings := []envs.Mapping{mustMapping(t, "foo", "foo-bin")}

	toRemove, toAdd, err := SyncStatus(context.Background(), bin, env, mappings)
	require.NoError(t, err)
	assert.Empty(t, toRemove)
	require.Len(t, toAdd, 1)
	assert.Equal(t, "foo", toAdd[0].String())
}

func TestSyncStatus_MatchingExposureUntouched(t *testing.T) {
	bin, env := newTestDirs(t)
	mappings := []envs.Mapping{mustMapping(t, "foo", "foo-bin")}
	writeLauncher(t, bin, env, "foo", "foo-bin")

	toRemove, toAdd, err := SyncStatus(context.Background(), bin, env, mappings)
	require.NoError(t, err)
	assert.Empty(t, toRemove, "a matching exposure must appear in neither set")
	assert.Empty(t, toAdd)
}

func TestSyncStatus_OrphanedScript(t *testing.T) {
	bin, env := newTestDirs(t)
	path := writeLauncher(t, bin, env, "foo", "foo-bin")

	toRemove, toAdd, err := SyncStatus(context.Background(), bin, env, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, toRemove)
	assert.Empty(t, toAdd)
}

func TestSyncStatus_IgnoresOtherEnvironments(t *testing.T) {
	bin, env := newTestDirs(t)

	// A launcher pointing outside this environment is unrelated, no matter
	// what the declared set says.
	name, err := envs.ParseExposedName("other")
	require.NoError(t, err)
	require.NoError(t, script.Write(bin.ExposedScriptPath(name), filepath.Join(t.TempDir(), "bin", "other")))

	toRemove, toAdd, err := SyncStatus(context.Background(), bin, env, nil)
	require.NoError(t, err)
	assert.Empty(t, toRemove)
	assert.Empty(t, toAdd)
}

func TestSyncStatus_UnparseableFilesNeverRemoved(t *testing.T) {
	bin, env := newTestDirs(t)

	// An executable text file whose content is not a launcher cannot be
	// attributed to envbin and must never be deleted.
	foreign := filepath.Join(bin.Path(), "foreign")
	require.NoError(t, os.WriteFile(foreign, []byte("#!/bin/bash\nexec something \"$@\"\n"), 0o755))

	toRemove, toAdd, err := SyncStatus(context.Background(), bin, env, nil)
	require.NoError(t, err)
	assert.Empty(t, toRemove)
	assert.Empty(t, toAdd)

	_, err = os.Stat(foreign)
	assert.NoError(t, err)
}

func TestSyncStatus_DuplicateExposedNamesCollapseInToAdd(t *testing.T) {
	bin, env := newTestDirs(t)
	mappings := []envs.Mapping{
		mustMapping(t, "foo", "foo-bin"),
		mustMapping(t, "foo", "other-bin"),
	}

	toRemove, toAdd, err := SyncStatus(context.Background(), bin, env, mappings)
	require.NoError(t, err)
	assert.Empty(t, toRemove)
	require.Len(t, toAdd, 1, "set semantics: one entry per exposed name")
	assert.Equal(t, "foo", toAdd[0].String())
}

func TestScan_ConcurrentParsingFindsAllExposures(t *testing.T) {
	bin, env := newTestDirs(t)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		writeLauncher(t, bin, env, name, name+"-bin")
	}

	related, err := Scan(context.Background(), bin, env)
	require.NoError(t, err)
	assert.Len(t, related, 8)
}
