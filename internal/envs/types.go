// Package envs defines the identifier types shared across envbin:
// environment names, exposed executable names, and the declared mapping
// between the two.
package envs

import (
	"fmt"
	"regexp"
	"strings"
)

// EnvironmentName identifies one installed environment under the envs root.
// It is used verbatim as a path segment, so validation is strict.
type EnvironmentName string

var environmentNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ParseEnvironmentName validates s and returns it as an EnvironmentName.
func ParseEnvironmentName(s string) (EnvironmentName, error) {
	if !environmentNameRe.MatchString(s) {
		return "", fmt.Errorf(
			"invalid environment name %q: must start with a letter or digit and contain only letters, digits, '.', '_' or '-'", s)
	}
	return EnvironmentName(s), nil
}

func (n EnvironmentName) String() string { return string(n) }

// ExposedName is the logical command name a user invokes on PATH, without
// any platform launcher suffix (e.g. "python3.9", never "python3.9.bat").
type ExposedName string

// ParseExposedName validates s and returns it as an ExposedName.
func ParseExposedName(s string) (ExposedName, error) {
	switch {
	case s == "":
		return "", fmt.Errorf("exposed name cannot be empty")
	case s == "." || s == "..":
		return "", fmt.Errorf("invalid exposed name %q", s)
	case strings.ContainsAny(s, `/\`):
		return "", fmt.Errorf("invalid exposed name %q: must not contain path separators", s)
	case strings.HasPrefix(s, "-"):
		return "", fmt.Errorf("invalid exposed name %q: must not start with '-'", s)
	}
	return ExposedName(s), nil
}

func (n ExposedName) String() string { return string(n) }

// Mapping pairs an exposed name with the environment-internal executable it
// should invoke. Several mappings may share an executable name; identity is
// the (exposed, executable) pair.
type Mapping struct {
	exposed    ExposedName
	executable string
}

// NewMapping creates a mapping from an exposed name to an executable name.
func NewMapping(exposed ExposedName, executable string) Mapping {
	return Mapping{exposed: exposed, executable: executable}
}

// ExposedName returns the name users invoke on PATH.
func (m Mapping) ExposedName() ExposedName { return m.exposed }

// ExecutableName returns the base name of the executable inside the
// environment that the exposed name forwards to.
func (m Mapping) ExecutableName() string { return m.executable }

func (m Mapping) String() string {
	return fmt.Sprintf("%s=%s", m.exposed, m.executable)
}
