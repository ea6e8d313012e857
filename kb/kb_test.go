package kb

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAssertzThenRetractRemovesFirstMatch(t *testing.T) {
	base := New()
	mustAssertz(t, base, "likes(john, pizza).")
	mustAssertz(t, base, "likes(mary, pasta).")
	mustAssertz(t, base, "likes(john, burgers).")

	bindings, err := base.Query("likes(john, X).")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got := []string{bindings[0]["X"], bindings[1]["X"]}; got[0] != "pizza" || got[1] != "burgers" {
		t.Fatalf("got %v, want [pizza burgers] in insertion order", got)
	}

	if err := base.Retract("likes(john, pizza)."); err != nil {
		t.Fatalf("retract: %v", err)
	}
	bindings, _ = base.Query("likes(john, X).")
	if len(bindings) != 1 || bindings[0]["X"] != "burgers" {
		t.Fatalf("after retract: got %v, want [burgers]", bindings)
	}

	if err := base.RetractAll("likes(john, _)."); err != nil {
		t.Fatalf("retractall: %v", err)
	}
	bindings, _ = base.Query("likes(john, X).")
	if len(bindings) != 0 {
		t.Fatalf("after retractall: got %v, want none", bindings)
	}
	bindings, _ = base.Query("likes(mary, X).")
	if len(bindings) != 1 || bindings[0]["X"] != "pasta" {
		t.Fatalf("mary's facts must be untouched, got %v", bindings)
	}
}

func mustAssertz(t *testing.T, k *KB, clause string) {
	t.Helper()
	if err := k.Assertz(clause); err != nil {
		t.Fatalf("assertz(%q): %v", clause, err)
	}
}

func TestQueryProjectionCoversOnlyQueryVars(t *testing.T) {
	base := New()
	mustAssertz(t, base, "parent(alice, bob).")
	bindings, err := base.Query("parent(X, Y).")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(bindings) != 1 {
		t.Fatalf("got %d solutions, want 1", len(bindings))
	}
	if len(bindings[0]) != 2 {
		t.Fatalf("binding has %d entries, want exactly 2 (X, Y): %v", len(bindings[0]), bindings[0])
	}
}

func TestKBPartitionConsultVsAssertz(t *testing.T) {
	base := New()
	if err := base.Consult("parent(alice, bob).\n"); err != nil {
		t.Fatalf("consult: %v", err)
	}
	mustAssertz(t, base, "parent(bob, carol).")
	if len(base.programRules) != 1 || len(base.assertedFacts) != 1 {
		t.Fatalf("expected one program rule and one asserted fact, got %d/%d", len(base.programRules), len(base.assertedFacts))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	base := New()
	if err := base.Consult("parent(alice, bob).\ngrandparent(X, Y) :- parent(X, Z), parent(Z, Y).\n"); err != nil {
		t.Fatalf("consult: %v", err)
	}
	mustAssertz(t, base, "likes(john, pizza).")

	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")
	if err := base.Save(path, true, true); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := New()
	if err := restored.Load(path, true, true); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(restored.programRules) != len(base.programRules) || len(restored.assertedFacts) != len(base.assertedFacts) {
		t.Fatalf("restored store shape mismatch: program=%d/%d facts=%d/%d",
			len(restored.programRules), len(base.programRules), len(restored.assertedFacts), len(base.assertedFacts))
	}
	for i := range base.programRules {
		if !restored.programRules[i].Equals(base.programRules[i]) {
			t.Errorf("program rule %d mismatch: got %v, want %v", i, restored.programRules[i], base.programRules[i])
		}
	}
}

func TestLoadMissingFileIsNotFound(t *testing.T) {
	base := New()
	err := base.Load(filepath.Join(t.TempDir(), "missing.yaml"), true, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want an ErrNotFound-wrapping error", err)
	}
}
