package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/meta"
	"github.com/blackwell-systems/envbin/internal/state"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.CreateSchema())
	return store
}

func testLedger(t *testing.T) *state.StateChanges {
	t.Helper()
	env, err := envs.ParseEnvironmentName("python")
	require.NoError(t, err)
	exposed, err := envs.ParseExposedName("python3")
	require.NoError(t, err)

	changes := state.New()
	changes.RecordMany(env,
		state.AddedEnvironment(),
		state.AddedPackage(meta.PackageRecord{Name: "python", Version: "3.11.9"}),
		state.AddedExposed(exposed),
	)
	return changes
}

func TestRecordChanges_ListRoundTrip(t *testing.T) {
	store := newTestStore(t)
	appliedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordChanges(testLedger(t), appliedAt))

	entries, err := store.List("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first: the exposed change was recorded last.
	assert.Equal(t, "added-exposed", entries[0].Kind)
	assert.Equal(t, "python3", entries[0].ExposedName)
	assert.Equal(t, "added-package", entries[1].Kind)
	assert.Equal(t, "python", entries[1].PackageName)
	assert.Equal(t, "3.11.9", entries[1].PackageVersion)
	assert.Equal(t, "added-environment", entries[2].Kind)
	assert.Equal(t, appliedAt, entries[2].AppliedAt)
}

func TestList_FiltersByEnvironment(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordChanges(testLedger(t), time.Now()))

	entries, err := store.List("python", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = store.List("other", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestList_HonorsLimit(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordChanges(testLedger(t), time.Now()))

	entries, err := store.List("", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestList_WithoutSchemaReturnsNotInitialized(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.List("", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInitialized))
}

func TestRecordChanges_EmptyLedgerIsNoOp(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordChanges(state.New(), time.Now()))

	entries, err := store.List("", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
