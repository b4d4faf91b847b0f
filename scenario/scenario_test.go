package scenario

import (
	"errors"
	"slices"
	"testing"
)

func testScenario(id string) Scenario {
	return Scenario{
		ID:     id,
		Setup:  []string{"CREATE TABLE t (id INTEGER)"},
		Before: "SELECT count(*) FROM t",
		After:  "SELECT count(*) FROM t WHERE id = 1",
	}
}

func TestRegisterAndListOrder(t *testing.T) {
	reg := NewRegistry()

	ids := []string{"zeta", "alpha", "mid", "beta"}
	for _, id := range ids {
		if err := reg.Register(testScenario(id)); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}

	var got []string
	for sc := range reg.All() {
		got = append(got, sc.ID)
	}

	if !slices.Equal(got, ids) {
		t.Errorf("list order = %v, want %v", got, ids)
	}
}

func TestAllIsRestartable(t *testing.T) {
	reg := NewRegistry()

	for _, id := range []string{"a", "b", "c"} {
		if err := reg.Register(testScenario(id)); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}

	seq := reg.All()

	// First pass stops early, second pass must start over.
	for sc := range seq {
		if sc.ID == "b" {
			break
		}
	}

	var got []string
	for sc := range seq {
		got = append(got, sc.ID)
	}

	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("second pass = %v, want [a b c]", got)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(testScenario("dup")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := reg.Register(testScenario("dup"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second register: got %v, want ErrDuplicate", err)
	}

	if reg.Len() != 1 {
		t.Errorf("registry len = %d after failed register, want 1", reg.Len())
	}
}

func TestRegisterCopiesScenario(t *testing.T) {
	reg := NewRegistry()

	sc := testScenario("immutable")
	if err := reg.Register(sc); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Mutating the caller's slices must not leak into the registry.
	sc.Setup[0] = "DROP TABLE t"

	for got := range reg.All() {
		if got.Setup[0] != "CREATE TABLE t (id INTEGER)" {
			t.Errorf("registered setup mutated: %q", got.Setup[0])
		}

		// Mutating a listed scenario must not affect later listings.
		got.Setup[0] = "TRUNCATE t"
	}

	for got := range reg.All() {
		if got.Setup[0] != "CREATE TABLE t (id INTEGER)" {
			t.Errorf("listed setup mutated: %q", got.Setup[0])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr bool
	}{
		{"valid", func(*Scenario) {}, false},
		{"empty id", func(s *Scenario) { s.ID = "" }, true},
		{"empty before", func(s *Scenario) { s.Before = "" }, true},
		{"empty after", func(s *Scenario) { s.After = "" }, true},
		{"negative speedup", func(s *Scenario) { s.MinSpeedup = -1 }, true},
		{"no setup is fine", func(s *Scenario) { s.Setup = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := testScenario("v")
			tt.mutate(&sc)

			err := sc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
