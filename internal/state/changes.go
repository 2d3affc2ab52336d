// Package state models the change ledger: the ordered, per-environment log
// of already-performed mutations that backs the end-of-run report.
package state

import (
	"github.com/blackwell-systems/envbin/internal/envs"
	"github.com/blackwell-systems/envbin/internal/meta"
)

// Kind discriminates StateChange variants.
type Kind int

const (
	KindAddedExposed Kind = iota
	KindRemovedExposed
	KindUpdatedExposed
	KindAddedPackage
	KindAddedEnvironment
	KindRemovedEnvironment
	KindUpdatedEnvironment
)

// String returns a stable identifier for the kind, used by the history
// store.
func (k Kind) String() string {
	switch k {
	case KindAddedExposed:
		return "added-exposed"
	case KindRemovedExposed:
		return "removed-exposed"
	case KindUpdatedExposed:
		return "updated-exposed"
	case KindAddedPackage:
		return "added-package"
	case KindAddedEnvironment:
		return "added-environment"
	case KindRemovedEnvironment:
		return "removed-environment"
	case KindUpdatedEnvironment:
		return "updated-environment"
	}
	return "unknown"
}

// StateChange describes one atomic, already-performed mutation. Changes are
// recorded after the corresponding filesystem action succeeds, never before.
type StateChange struct {
	kind    Kind
	exposed envs.ExposedName
	pkg     *meta.PackageRecord
}

// AddedExposed records that a launcher for name was created.
func AddedExposed(name envs.ExposedName) StateChange {
	return StateChange{kind: KindAddedExposed, exposed: name}
}

// RemovedExposed records that the launcher for name was removed.
func RemovedExposed(name envs.ExposedName) StateChange {
	return StateChange{kind: KindRemovedExposed, exposed: name}
}

// UpdatedExposed records that the launcher for name was rewritten in place.
func UpdatedExposed(name envs.ExposedName) StateChange {
	return StateChange{kind: KindUpdatedExposed, exposed: name}
}

// AddedPackage records that a package was installed into the environment.
func AddedPackage(record meta.PackageRecord) StateChange {
	return StateChange{kind: KindAddedPackage, pkg: &record}
}

// AddedEnvironment records that the environment directory was created.
func AddedEnvironment() StateChange {
	return StateChange{kind: KindAddedEnvironment}
}

// RemovedEnvironment records that the environment was torn down.
func RemovedEnvironment() StateChange {
	return StateChange{kind: KindRemovedEnvironment}
}

// UpdatedEnvironment records that the environment was reinstalled in place.
func UpdatedEnvironment() StateChange {
	return StateChange{kind: KindUpdatedEnvironment}
}

// Kind returns the variant tag.
func (c StateChange) Kind() Kind { return c.kind }

// ExposedName returns the exposed name for the exposed-executable variants;
// empty otherwise.
func (c StateChange) ExposedName() envs.ExposedName { return c.exposed }

// Package returns the package record for KindAddedPackage; nil otherwise.
func (c StateChange) Package() *meta.PackageRecord { return c.pkg }

// StateChanges maps each environment to the ordered sequence of changes
// performed on it. Key order and event order are both insertion order;
// event order is the order mutations happened and is significant for
// reporting. An environment that had a mutation attempt keeps its key even
// if the sequence ends up empty.
type StateChanges struct {
	order   []envs.EnvironmentName
	changes map[envs.EnvironmentName][]StateChange
}

// New returns an empty ledger.
func New() *StateChanges {
	return &StateChanges{changes: make(map[envs.EnvironmentName][]StateChange)}
}

// NewFor returns a ledger seeded with env mapped to an empty sequence.
func NewFor(env envs.EnvironmentName) *StateChanges {
	s := New()
	s.ensure(env)
	return s
}

func (s *StateChanges) ensure(env envs.EnvironmentName) {
	if _, ok := s.changes[env]; !ok {
		s.changes[env] = nil
		s.order = append(s.order, env)
	}
}

// Record appends one change to env's sequence, creating the key if absent.
func (s *StateChanges) Record(env envs.EnvironmentName, change StateChange) {
	s.ensure(env)
	s.changes[env] = append(s.changes[env], change)
}

// RecordMany appends changes to env's sequence in order.
func (s *StateChanges) RecordMany(env envs.EnvironmentName, changes ...StateChange) {
	s.ensure(env)
	s.changes[env] = append(s.changes[env], changes...)
}

// HasChanges reports whether at least one environment has a non-empty
// sequence.
func (s *StateChanges) HasChanges() bool {
	for _, seq := range s.changes {
		if len(seq) > 0 {
			return true
		}
	}
	return false
}

// Environments returns the environment keys in insertion order.
func (s *StateChanges) Environments() []envs.EnvironmentName {
	return append([]envs.EnvironmentName(nil), s.order...)
}

// Changes returns env's sequence in order.
func (s *StateChanges) Changes(env envs.EnvironmentName) []StateChange {
	return append([]StateChange(nil), s.changes[env]...)
}

// Merge appends other's sequences onto the receiver's, environment by
// environment, creating keys as needed. Each side's internal order is
// preserved, so independently-built ledgers (e.g. from per-environment
// runs) can be combined before one Prune+Report pass.
func (s *StateChanges) Merge(other *StateChanges) {
	if other == nil {
		return
	}
	for _, env := range other.order {
		s.ensure(env)
		s.changes[env] = append(s.changes[env], other.changes[env]...)
	}
}

// Prune collapses redundant history: once an environment is removed, every
// change recorded before the removal is no longer worth reporting on its
// own. Events from the removal onward are preserved in order.
func (s *StateChanges) Prune() {
	for env, seq := range s.changes {
		var pruned []StateChange
		for _, change := range seq {
			if change.Kind() == KindRemovedEnvironment {
				pruned = pruned[:0]
			}
			pruned = append(pruned, change)
		}
		s.changes[env] = pruned
	}
}
