// Package meta reads the per-environment package-record metadata directory:
// one JSON file per installed package, written by the installer.
package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// recordExt is the file extension of package-record files.
const recordExt = ".json"

// PackageRecord describes one installed package inside an environment.
type PackageRecord struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Build   string   `json:"build,omitempty"`
	Channel string   `json:"channel,omitempty"`
	Files   []string `json:"files,omitempty"`
}

// RecordError reports a package-record file that exists but cannot be
// parsed. The environment is considered corrupt, not partially readable.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("cannot parse package record %s: %v", e.Path, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ErrNoRecords is returned when the metadata directory contains zero
// package records. This reader is only invoked on directories known to
// house a real installation, so an empty directory means corruption.
var ErrNoRecords = errors.New("no package records found")

// ReadAll parses every package-record file directly under metaDir. A single
// unparseable record fails the whole read.
func ReadAll(metaDir string) ([]PackageRecord, error) {
	entries, err := os.ReadDir(metaDir)
	if err != nil {
		return nil, fmt.Errorf("cannot read metadata directory %s: %w", metaDir, err)
	}

	var records []PackageRecord
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		path := filepath.Join(metaDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read package record %s: %w", path, err)
		}
		var record PackageRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, &RecordError{Path: path, Err: err}
		}
		if record.Name == "" {
			return nil, &RecordError{Path: path, Err: errors.New("missing package name")}
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, metaDir)
	}
	return records, nil
}
