package subst

import (
	"testing"

	"github.com/kbagents/miniprolog/ast"
)

func TestApplyChasesChainedBindings(t *testing.T) {
	s := New().Extend(ast.NewVar("X"), ast.NewVar("Y")).Extend(ast.NewVar("Y"), ast.NewAtom("alice"))
	got := s.Apply(ast.NewVar("X"))
	if !got.Equals(ast.NewAtom("alice")) {
		t.Errorf("Apply(X) = %v, want alice", got)
	}
}

func TestApplyRecursesIntoArgs(t *testing.T) {
	s := New().Extend(ast.NewVar("X"), ast.NewAtom("bob"))
	term := ast.NewPredicate("parent", ast.NewAtom("alice"), ast.NewVar("X"))
	got := s.Apply(term)
	want := ast.NewPredicate("parent", ast.NewAtom("alice"), ast.NewAtom("bob"))
	if !got.Equals(want) {
		t.Errorf("Apply(%v) = %v, want %v", term, got, want)
	}
}

func TestApplyIdempotent(t *testing.T) {
	s := New().Extend(ast.NewVar("X"), ast.NewVar("Y")).Extend(ast.NewVar("Y"), ast.NewAtom("a"))
	term := ast.NewPredicate("p", ast.NewVar("X"))
	once := s.Apply(term)
	twice := s.Apply(once)
	if !once.Equals(twice) {
		t.Errorf("apply not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestExtendDoesNotMutateOriginal(t *testing.T) {
	base := New()
	extended := base.Extend(ast.NewVar("X"), ast.NewAtom("a"))
	if _, ok := base.Lookup(ast.NewVar("X")); ok {
		t.Errorf("base substitution must remain unbound after Extend on a copy")
	}
	if _, ok := extended.Lookup(ast.NewVar("X")); !ok {
		t.Errorf("extended substitution must have the new binding")
	}
}
