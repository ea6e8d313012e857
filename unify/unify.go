// Package unify implements structural unification over ast.Term, with no
// occurs-check, per spec.
package unify

import (
	"github.com/kbagents/miniprolog/ast"
	"github.com/kbagents/miniprolog/subst"
)

// Unify attempts to unify x and y under s, returning an extended
// substitution and true on success, or the zero Subst and false on
// failure. x and y are first resolved through s (so already-bound
// variables unify against their current value, not their name).
func Unify(x, y ast.Term, s subst.Subst) (subst.Subst, bool) {
	x = s.Apply(x)
	y = s.Apply(y)

	if vx, ok := x.(ast.Var); ok {
		if vy, ok := y.(ast.Var); ok && vx == vy {
			return s, true
		}
		return s.Extend(vx, y), true
	}
	if vy, ok := y.(ast.Var); ok {
		return s.Extend(vy, x), true
	}

	cx, xIsConst := x.(ast.Const)
	cy, yIsConst := y.(ast.Const)
	if xIsConst && yIsConst {
		if cx.Equals(cy) {
			return s, true
		}
		return subst.Subst{}, false
	}

	px, xIsPred := x.(ast.Predicate)
	py, yIsPred := y.(ast.Predicate)
	if xIsPred && yIsPred {
		return unifyPredicates(px, py, s)
	}

	return subst.Subst{}, false
}

func unifyPredicates(p1, p2 ast.Predicate, s subst.Subst) (subst.Subst, bool) {
	if p1.Name != p2.Name || len(p1.Args) != len(p2.Args) {
		return subst.Subst{}, false
	}
	for i := range p1.Args {
		var ok bool
		s, ok = Unify(p1.Args[i], p2.Args[i], s)
		if !ok {
			return subst.Subst{}, false
		}
	}
	return s, true
}

// UnifyArgs unifies two equal-length argument lists in order under s,
// short-circuiting on the first failure. Used by the resolver to unify
// a goal's arguments against a renamed clause head's arguments.
func UnifyArgs(xs, ys []ast.Term, s subst.Subst) (subst.Subst, bool) {
	if len(xs) != len(ys) {
		return subst.Subst{}, false
	}
	for i := range xs {
		var ok bool
		s, ok = Unify(xs[i], ys[i], s)
		if !ok {
			return subst.Subst{}, false
		}
	}
	return s, true
}
