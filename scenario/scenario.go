// Package scenario defines before/after SQL optimization scenarios and an
// insertion-ordered registry for them. Each scenario pairs an unoptimized
// query with an optimized one, plus the setup and remediation statements
// needed to reproduce both sides against a live database.
package scenario

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrDuplicate is returned when registering a scenario whose ID is already
// present in the registry.
var ErrDuplicate = errors.New("duplicate scenario")

// Scenario is one before/after optimization example. A scenario is
// self-contained: its setup statements build everything the "before" query
// needs, and its remediation statements (indexes, rewrites applied as DDL,
// summary tables) build everything the "after" query needs on top of that.
type Scenario struct {
	// ID uniquely identifies the scenario within a registry.
	ID string `yaml:"id"`

	// Setup statements run first, in order, fail-fast.
	Setup []string `yaml:"setup"`

	// Before is the unoptimized statement, executed under timing.
	Before string `yaml:"before"`

	// Remediation statements run between the timed statements, in order,
	// fail-fast.
	Remediation []string `yaml:"remediation"`

	// After is the optimized statement, executed under timing.
	After string `yaml:"after"`

	// MinSpeedup is the expected minimum speedup (before/after) for the
	// scenario to pass. Zero means no threshold.
	MinSpeedup float64 `yaml:"min_speedup"`
}

// Validate checks that the scenario is well-formed.
func (s Scenario) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("scenario has empty id")
	}

	if s.Before == "" {
		return fmt.Errorf("scenario %s: empty before statement", s.ID)
	}

	if s.After == "" {
		return fmt.Errorf("scenario %s: empty after statement", s.ID)
	}

	if s.MinSpeedup < 0 {
		return fmt.Errorf(
			"scenario %s: negative min_speedup %v", s.ID, s.MinSpeedup,
		)
	}

	return nil
}

// clone deep-copies the scenario so callers cannot mutate a registered
// scenario through retained slices.
func (s Scenario) clone() Scenario {
	s.Setup = slices.Clone(s.Setup)
	s.Remediation = slices.Clone(s.Remediation)

	return s
}

// Registry holds scenarios in registration order. Scenarios are copied on
// insert and never mutated afterwards.
type Registry struct {
	order []Scenario
	byID  map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]struct{})}
}

// Register adds a scenario. It fails with ErrDuplicate when a scenario with
// the same ID is already registered, leaving the registry unchanged.
func (r *Registry) Register(sc Scenario) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	if _, ok := r.byID[sc.ID]; ok {
		return fmt.Errorf("scenario %s: %w", sc.ID, ErrDuplicate)
	}

	r.byID[sc.ID] = struct{}{}
	r.order = append(r.order, sc.clone())

	return nil
}

// All returns the registered scenarios in insertion order. The sequence is
// restartable: each range starts again from the first scenario.
func (r *Registry) All() iter.Seq[Scenario] {
	return func(yield func(Scenario) bool) {
		for _, sc := range r.order {
			if !yield(sc.clone()) {
				return
			}
		}
	}
}

// Len returns the number of registered scenarios.
func (r *Registry) Len() int {
	return len(r.order)
}
