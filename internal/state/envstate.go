package state

import "github.com/blackwell-systems/envbin/internal/envs"

// NotChangedReason explains why an environment's install step was a no-op.
type NotChangedReason int

const (
	// AlreadyInstalled means the environment was already in the desired
	// state before the run.
	AlreadyInstalled NotChangedReason = iota
)

func (r NotChangedReason) String() string {
	switch r {
	case AlreadyInstalled:
		return "already installed"
	}
	return "not changed"
}

// EnvState records, per environment, whether an install step actually
// changed anything. It complements the change ledger for final
// summarization.
type EnvState struct {
	installed bool
	reason    NotChangedReason
}

// Installed marks an environment whose install step performed changes.
var Installed = EnvState{installed: true}

// NotChanged marks an environment whose install step was a no-op.
func NotChanged(reason NotChangedReason) EnvState {
	return EnvState{reason: reason}
}

// Changed reports whether the install step performed changes.
func (s EnvState) Changed() bool { return s.installed }

func (s EnvState) String() string {
	if s.installed {
		return "installed"
	}
	return s.reason.String()
}

// EnvChanges collects per-environment install outcomes for one run.
type EnvChanges struct {
	Changes map[envs.EnvironmentName]EnvState
}

// NewEnvChanges returns an empty outcome set.
func NewEnvChanges() *EnvChanges {
	return &EnvChanges{Changes: make(map[envs.EnvironmentName]EnvState)}
}

// Set records the outcome for env.
func (e *EnvChanges) Set(env envs.EnvironmentName, state EnvState) {
	e.Changes[env] = state
}
