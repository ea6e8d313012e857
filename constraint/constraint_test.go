package constraint

import (
	"testing"

	"github.com/kbagents/miniprolog/ast"
	"github.com/kbagents/miniprolog/subst"
)

func TestFromGoalRecognizesComparisons(t *testing.T) {
	p := ast.NewPredicate(">=", ast.NewVar("A"), ast.NewNumber("18"))
	c, ok := FromGoal(p)
	if !ok {
		t.Fatalf("expected %v to be recognized as a constraint", p)
	}
	if c.Op != ">=" {
		t.Errorf("Op = %q, want >=", c.Op)
	}
}

func TestFromGoalRejectsOrdinaryPredicate(t *testing.T) {
	p := ast.NewPredicate("parent", ast.NewAtom("a"), ast.NewAtom("b"))
	if _, ok := FromGoal(p); ok {
		t.Errorf("ordinary predicate must not be treated as a constraint")
	}
}

func TestEvaluateEqualityTolerance(t *testing.T) {
	c := Constraint{Op: "=", Left: ast.NewNumber("10"), Right: ast.NewNumber("10.0000001")}
	if !c.Evaluate(subst.New()) {
		t.Errorf("values within tolerance must compare equal")
	}
	c2 := Constraint{Op: "=", Left: ast.NewNumber("10"), Right: ast.NewNumber("11")}
	if c2.Evaluate(subst.New()) {
		t.Errorf("values outside tolerance must not compare equal")
	}
}

func TestStoreSatisfiedRequiresAllConstraints(t *testing.T) {
	s := subst.New().Extend(ast.NewVar("A"), ast.NewNumber("10"))
	st := New().
		Add(Constraint{Op: ">=", Left: ast.NewVar("A"), Right: ast.NewNumber("6")}).
		Add(Constraint{Op: ">=", Left: ast.NewVar("A"), Right: ast.NewNumber("18")})
	if st.Satisfied(s) {
		t.Errorf("store with one failing constraint must not be satisfied")
	}

	st2 := New().Add(Constraint{Op: ">=", Left: ast.NewVar("A"), Right: ast.NewNumber("6")})
	if !st2.Satisfied(s) {
		t.Errorf("store with only a passing constraint must be satisfied")
	}
}

func TestStoreAddDoesNotMutateOriginal(t *testing.T) {
	base := New()
	extended := base.Add(Constraint{Op: "=", Left: ast.NewNumber("1"), Right: ast.NewNumber("2")})
	if !base.Satisfied(subst.New()) {
		t.Errorf("original store must be unaffected by Add on the extended copy")
	}
	if extended.Satisfied(subst.New()) {
		t.Errorf("extended store should be unsatisfied")
	}
}
