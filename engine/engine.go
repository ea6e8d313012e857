// Package engine implements SLD resolution extended with an arithmetic
// constraint store, negation-as-failure and built-in predicates.
package engine

import (
	log "github.com/golang/glog"

	"github.com/kbagents/miniprolog/ast"
	"github.com/kbagents/miniprolog/builtin"
	"github.com/kbagents/miniprolog/constraint"
	"github.com/kbagents/miniprolog/rename"
	"github.com/kbagents/miniprolog/subst"
	"github.com/kbagents/miniprolog/unify"
)

// ClauseSource supplies the ordered set of clauses whose head may match a
// given predicate name and arity. The KB facade implements this; engine
// has no knowledge of how clauses are stored.
type ClauseSource interface {
	RulesFor(name string, arity int) []ast.Rule
}

// Solution is one answer to a query: the substitution and the
// constraint store accumulated along the branch that produced it.
// Callers (kb.Query) project only the variables they care about out of
// Subst.
type Solution struct {
	Subst      subst.Subst
	Constraint constraint.Store
}

// Resolve performs SLD resolution over goals, returning every solution
// found. kbv supplies clause lookup; s and cs are the substitution and
// constraint store accumulated so far (New() values for a top-level
// query); counter is the next fresh-variable suffix the renamer may use.
func Resolve(kbv ClauseSource, goals []ast.Term, s subst.Subst, counter uint64, cs constraint.Store) []Solution {
	if len(goals) == 0 {
		if cs.Satisfied(s) {
			return []Solution{{Subst: s, Constraint: cs}}
		}
		return nil
	}

	first, rest := goals[0], goals[1:]

	g, ok := first.(ast.Predicate)
	if !ok {
		log.Warningf("engine: unsupported goal kind %T, treating as failure", first)
		return nil
	}
	if g.IsNegation() {
		return resolveNegation(kbv, g, rest, s, counter, cs)
	}
	return resolvePredicate(kbv, g, rest, s, counter, cs)
}

func resolvePredicate(kbv ClauseSource, g ast.Predicate, rest []ast.Term, s subst.Subst, counter uint64, cs constraint.Store) []Solution {
	if c, ok := constraint.FromGoal(g); ok {
		return Resolve(kbv, rest, s, counter, cs.Add(c))
	}

	if builtin.IsBuiltin(g) {
		nsubsts, _ := builtin.Eval(g, s)
		var out []Solution
		for _, ns := range nsubsts {
			out = append(out, Resolve(kbv, rest, ns, counter, cs)...)
		}
		return out
	}

	var out []Solution
	for _, rule := range kbv.RulesFor(g.Name, len(g.Args)) {
		renamed, newCounter := rename.Rule(rule, counter)
		ns, ok := unify.UnifyArgs(g.Args, renamed.Head.Args, s)
		if !ok {
			continue
		}
		newGoals := make([]ast.Term, 0, len(renamed.Body)+len(rest))
		newGoals = append(newGoals, renamed.Body...)
		newGoals = append(newGoals, rest...)
		out = append(out, Resolve(kbv, newGoals, ns, newCounter, cs)...)
	}
	return out
}

// resolveNegation implements \+ Goal: Goal is substitution-applied as
// much as possible and re-resolved from a fresh, empty substitution that
// still carries the current constraint store (so outer arithmetic
// constraints remain visible to the inner search).
// The outer branch succeeds, with its own substitution unchanged, iff
// the inner search has zero solutions.
func resolveNegation(kbv ClauseSource, g ast.Predicate, rest []ast.Term, s subst.Subst, counter uint64, cs constraint.Store) []Solution {
	inner := s.Apply(g.Negated()).(ast.Predicate)
	innerSolutions := Resolve(kbv, []ast.Term{inner}, subst.New(), counter, cs)
	if len(innerSolutions) > 0 {
		return nil
	}
	log.V(2).Infof("engine: negation %s succeeded (no inner solutions)", g)
	return Resolve(kbv, rest, s, counter, cs)
}
