// Package output provides the terminal styling helpers used by the change
// report: a success marker and ANSI-colored names, gated on TTY detection
// and NO_COLOR.
package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorBlue  = "\033[34m"
)

// ColorEnabled reports whether ANSI color codes should be emitted on w.
// Only real terminals get color; NO_COLOR disables it unconditionally.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Marker returns the leading check mark for a report line, including its
// trailing space.
func Marker(color bool) string {
	if color {
		return colorGreen + "✔ " + colorReset
	}
	return "✔ "
}

// Name renders an exposed or environment name for the report, backticked
// and cyan when color is on.
func Name(s string, color bool) string {
	return paint("`"+s+"`", colorCyan, color)
}

// Green renders s green when color is on.
func Green(s string, color bool) string {
	return paint(s, colorGreen, color)
}

// Blue renders s blue when color is on.
func Blue(s string, color bool) string {
	return paint(s, colorBlue, color)
}

func paint(s, code string, color bool) string {
	if !color {
		return s
	}
	return code + s + colorReset
}
