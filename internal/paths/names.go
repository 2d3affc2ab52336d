package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// LauncherSuffix returns the platform suffix appended to launcher script
// names: ".bat" on Windows, empty elsewhere. Both script-path construction
// and name derivation go through this single definition so the two sides of
// every comparison stay consistent.
func LauncherSuffix() string {
	if runtime.GOOS == "windows" {
		return ".bat"
	}
	return ""
}

// ExecutableSuffix returns the suffix of native executables inside an
// environment: ".exe" on Windows, empty elsewhere.
func ExecutableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// windowsExecSuffixes are the executable extensions stripped when deriving a
// logical name from a path on Windows.
var windowsExecSuffixes = []string{".bat", ".cmd", ".com", ".exe"}

// ExecutableName derives the logical name from an executable or launcher
// path: the base name with the platform executable suffix stripped. On unix
// the base name passes through untouched, which keeps dotted names like
// "python3.9" intact.
func ExecutableName(path string) string {
	name := filepath.Base(path)
	if runtime.GOOS != "windows" {
		return name
	}
	lower := strings.ToLower(name)
	for _, suffix := range windowsExecSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

// isExecutable reports whether info describes a file the OS would execute.
// Windows has no executable bit, so any regular file qualifies there.
func isExecutable(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}
