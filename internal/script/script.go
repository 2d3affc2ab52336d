// Package script reads and writes the launcher scripts envbin places in the
// shared bin directory.
//
// A launcher is a two-line forwarder to an executable inside an environment:
//
//	#!/bin/sh
//	"/home/user/.envbin/envs/py/bin/python3" "$@"
//
// or, on Windows:
//
//	@"C:\Users\user\.envbin\envs\py\bin\python3.exe" %*
//
// Anything that does not match one of these shapes is not a launcher written
// by envbin and must be left alone.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
)

// ErrNotLauncher is returned by Target for files whose content does not
// match the launcher format.
var ErrNotLauncher = errors.New("not an envbin launcher script")

// maxLauncherSize bounds how much of a candidate file is read; real
// launchers are two short lines.
const maxLauncherSize = 8 * 1024

// targetRe matches the invocation line of both launcher dialects and
// captures the quoted executable path.
var targetRe = regexp.MustCompile(`(?m)^(?:@"(.+)" %\*|"(.+)" "\$@")\s*$`)

// Target returns the absolute path of the executable the launcher at path
// invokes. It returns ErrNotLauncher when the content does not match the
// launcher format; callers treat that as "not one of ours", not a failure.
func Target(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxLauncherSize))
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := targetRe.FindSubmatch(content)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrNotLauncher, path)
	}
	target := string(m[1])
	if target == "" {
		target = string(m[2])
	}
	if !filepath.IsAbs(target) {
		return "", fmt.Errorf("%w: %s invokes relative path %q", ErrNotLauncher, path, target)
	}
	return target, nil
}

// Write materializes a launcher at path invoking target. The script is made
// executable on unix.
func Write(path, target string) error {
	if err := os.WriteFile(path, []byte(Content(target)), 0o755); err != nil {
		return fmt.Errorf("cannot write launcher %s: %w", path, err)
	}
	return nil
}

// Content renders the launcher text for target in the platform dialect.
func Content(target string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("@\"%s\" %%*\r\n", target)
	}
	return fmt.Sprintf("#!/bin/sh\n\"%s\" \"$@\"\n", target)
}
