package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPredicateString(t *testing.T) {
	cases := []struct {
		name string
		term Term
		want string
	}{
		{"zero-arity", NewPredicate("foo"), "foo"},
		{"compound", NewPredicate("parent", NewAtom("alice"), NewVar("X")), "parent(alice, X)"},
		{"negation", NewNegation(NewPredicate("p", NewAtom("c"))), "\\+ p(c)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.term.String(); got != c.want {
				t.Errorf("String() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	fact := NewFact(NewPredicate("parent", NewAtom("alice"), NewAtom("bob")))
	if got, want := fact.String(), "parent(alice, bob)."; got != want {
		t.Errorf("fact.String() = %q, want %q", got, want)
	}

	rule := Rule{
		Head: NewPredicate("grandparent", NewVar("X"), NewVar("Y")),
		Body: []Term{
			NewPredicate("parent", NewVar("X"), NewVar("Z")),
			NewPredicate("parent", NewVar("Z"), NewVar("Y")),
		},
	}
	want := "grandparent(X, Y) :- parent(X, Z), parent(Z, Y)."
	if got := rule.String(); got != want {
		t.Errorf("rule.String() = %q, want %q", got, want)
	}
}

func TestEquals(t *testing.T) {
	a := NewPredicate("p", NewAtom("x"), NewNumber("1"))
	b := NewPredicate("p", NewAtom("x"), NewNumber("1"))
	c := NewPredicate("p", NewAtom("x"), NewNumber("2"))
	if !a.Equals(b) {
		t.Errorf("expected %v to equal %v", a, b)
	}
	if a.Equals(c) {
		t.Errorf("expected %v to not equal %v", a, c)
	}
	// Distinct textual numeric constants are not structurally equal even
	// when arithmetically equal.
	if NewNumber("1").Equals(NewNumber("1.0")) {
		t.Errorf("\"1\" and \"1.0\" must not be structurally equal")
	}
}

func TestVars(t *testing.T) {
	term := NewPredicate("p", NewVar("X"), NewVar("Y"), NewVar("X"), NewVar("_"), NewVar("_"))
	got := Vars(term)
	want := []string{"X", "Y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Vars() mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleVarsOrderAndDedup(t *testing.T) {
	r := Rule{
		Head: NewPredicate("adult", NewVar("X")),
		Body: []Term{
			NewPredicate("age", NewVar("X"), NewVar("A")),
			NewPredicate(">=", NewVar("A"), NewNumber("18")),
		},
	}
	got := RuleVars(r)
	want := []string{"X", "A"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RuleVars() mismatch (-want +got):\n%s", diff)
	}
}
