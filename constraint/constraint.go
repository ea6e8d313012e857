// Package constraint implements the arithmetic constraint store:
// comparisons and arithmetic goals are recorded rather than resolved
// immediately, and checked once a candidate solution is otherwise
// complete.
package constraint

import (
	"github.com/kbagents/miniprolog/ast"
	"github.com/kbagents/miniprolog/subst"
)

// tolerance bounds the slack allowed for "=" comparisons between
// floating point operands.
const tolerance = 1e-6

// Constraint is a deferred arithmetic goal: op(Left, Right).
type Constraint struct {
	Op    string
	Left  ast.Term
	Right ast.Term
}

// FromGoal converts a goal predicate into a Constraint if the predicate
// is recognized as an arithmetic constraint (see
// ast.Predicate.IsArithmeticConstraint); ok is false otherwise.
func FromGoal(p ast.Predicate) (c Constraint, ok bool) {
	if !p.IsArithmeticConstraint() {
		return Constraint{}, false
	}
	return Constraint{Op: p.Name, Left: p.Args[0], Right: p.Args[1]}, true
}

// Evaluate reports whether the constraint holds once its operands are
// resolved through s. Non-numeric or unbound operands make the
// constraint fail (not error): this mirrors the reference
// implementation's behavior of treating an unresolvable comparison as
// simply false rather than raising.
func (c Constraint) Evaluate(s subst.Subst) bool {
	left, lok := s.Apply(c.Left).(ast.Const)
	right, rok := s.Apply(c.Right).(ast.Const)
	if !lok || !rok || !left.IsNumeric() || !right.IsNumeric() {
		return false
	}
	lv, err := left.NumericValue()
	if err != nil {
		return false
	}
	rv, err := right.NumericValue()
	if err != nil {
		return false
	}
	switch c.Op {
	case "=":
		return absf(lv-rv) < tolerance
	case "!=":
		return lv != rv
	case "<":
		return lv < rv
	case "<=", "=<":
		return lv <= rv
	case ">":
		return lv > rv
	case ">=":
		return lv >= rv
	default:
		return false
	}
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Store is an ordered collection of constraints accumulated along one
// resolution branch.
type Store struct {
	constraints []Constraint
}

// New returns an empty constraint store.
func New() Store {
	return Store{}
}

// Add returns a new store with c appended. Store is treated as
// immutable, matching Subst's copy-on-extend discipline, so that
// backtracking can discard a Store value without undoing anything.
func (st Store) Add(c Constraint) Store {
	n := make([]Constraint, len(st.constraints)+1)
	copy(n, st.constraints)
	n[len(st.constraints)] = c
	return Store{constraints: n}
}

// Satisfied reports whether every recorded constraint holds under s.
func (st Store) Satisfied(s subst.Subst) bool {
	for _, c := range st.constraints {
		if !c.Evaluate(s) {
			return false
		}
	}
	return true
}
