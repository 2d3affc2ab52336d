package meta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecord(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadAll_ParsesRecords(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "python-3.11.9.json", `{"name": "python", "version": "3.11.9", "build": "h123"}`)
	writeRecord(t, dir, "pip-24.0.json", `{"name": "pip", "version": "24.0"}`)
	// Non-record files are ignored.
	writeRecord(t, dir, "notes.txt", "not json")

	records, err := ReadAll(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	names := []string{records[0].Name, records[1].Name}
	assert.Contains(t, names, "python")
	assert.Contains(t, names, "pip")
}

func TestReadAll_CorruptRecordFailsWholeRead(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "good.json", `{"name": "python", "version": "3.11.9"}`)
	bad := writeRecord(t, dir, "bad.json", `{"name": "pip", `)

	_, err := ReadAll(dir)
	require.Error(t, err)

	var recordErr *RecordError
	require.True(t, errors.As(err, &recordErr))
	assert.Equal(t, bad, recordErr.Path, "error must name the offending file")
}

func TestReadAll_RecordWithoutNameIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "anon.json", `{"version": "1.0"}`)

	_, err := ReadAll(dir)
	var recordErr *RecordError
	require.True(t, errors.As(err, &recordErr))
}

func TestReadAll_EmptyDirectoryIsCorruption(t *testing.T) {
	_, err := ReadAll(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRecords))
}

func TestReadAll_MissingDirectory(t *testing.T) {
	_, err := ReadAll(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoRecords))
}
