// Package subst implements the substitution used throughout resolution:
// a mapping from variables to terms, applied transitively.
package subst

import "github.com/kbagents/miniprolog/ast"

// Subst is a variable binding environment. The zero value is the empty
// substitution. Subst is immutable from the caller's point of view:
// Extend returns a new Subst sharing the old map's entries plus one more,
// so that backtracking in the resolver can simply drop a Subst value
// without needing to undo mutations.
type Subst struct {
	bindings map[ast.Var]ast.Term
}

// New returns the empty substitution.
func New() Subst {
	return Subst{bindings: map[ast.Var]ast.Term{}}
}

// Lookup returns the term directly bound to v, if any (one hop, no
// chasing through further variable bindings).
func (s Subst) Lookup(v ast.Var) (ast.Term, bool) {
	if s.bindings == nil {
		return nil, false
	}
	t, ok := s.bindings[v]
	return t, ok
}

// Apply walks t, replacing every bound variable with its binding,
// recursively, until no further substitution applies. Unbound variables
// and constants are returned unchanged; compound terms are rebuilt with
// their arguments substituted.
func (s Subst) Apply(t ast.Term) ast.Term {
	switch v := t.(type) {
	case ast.Var:
		if bound, ok := s.Lookup(v); ok {
			return s.Apply(bound)
		}
		return v
	case ast.Predicate:
		if len(v.Args) == 0 {
			return v
		}
		newArgs := make([]ast.Term, len(v.Args))
		for i, a := range v.Args {
			newArgs[i] = s.Apply(a)
		}
		return ast.Predicate{Name: v.Name, Args: newArgs}
	default:
		return t
	}
}

// Extend returns a new substitution that additionally binds v to t.
// The caller is responsible for not introducing a cycle (the engine
// performs no occurs-check, per spec).
func (s Subst) Extend(v ast.Var, t ast.Term) Subst {
	nb := make(map[ast.Var]ast.Term, len(s.bindings)+1)
	for k, val := range s.bindings {
		nb[k] = val
	}
	nb[v] = t
	return Subst{bindings: nb}
}

// Bindings exposes the raw var->term map for callers that need to
// enumerate every bound variable (e.g. kb.Query's projection step).
func (s Subst) Bindings() map[ast.Var]ast.Term {
	return s.bindings
}
