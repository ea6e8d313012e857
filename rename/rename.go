// Package rename implements clause-instantiation hygiene: producing a
// fresh-variable copy of a rule before it is tried at a resolution step.
//
// The mapping MUST be built once per rule instantiation and applied
// consistently to both head and body; renaming the head alone (as the
// historical, buggy draft of this engine's Python ancestor did) leaves
// body-only variables unrenamed and lets them capture across choice
// points.
package rename

import "github.com/kbagents/miniprolog/ast"

// Rule renames every distinct variable in r (head and body) to a fresh
// name derived from counter, returning the renamed clause and the
// counter advanced past every name it consumed. The anonymous wildcard
// "_" is never added to the shared mapping: each occurrence gets its own
// fresh name, since distinct "_" occurrences must never unify with each
// other.
func Rule(r ast.Rule, counter uint64) (ast.Rule, uint64) {
	mapping := map[string]ast.Var{}
	for _, name := range ast.RuleVars(r) {
		mapping[name] = ast.NewVar(freshName(name, counter))
		counter++
	}
	newHead := applyTerm(r.Head, mapping, &counter).(ast.Predicate)
	newBody := make([]ast.Term, len(r.Body))
	for i, b := range r.Body {
		newBody[i] = applyTerm(b, mapping, &counter)
	}
	return ast.Rule{Head: newHead, Body: newBody}, counter
}

func freshName(original string, counter uint64) string {
	return original + "_" + itoa(counter)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func applyTerm(t ast.Term, mapping map[string]ast.Var, counter *uint64) ast.Term {
	switch v := t.(type) {
	case ast.Var:
		if v.IsAnonymous() {
			fresh := ast.NewVar(freshName("_", *counter))
			*counter++
			return fresh
		}
		if nv, ok := mapping[v.Name]; ok {
			return nv
		}
		return v
	case ast.Predicate:
		if len(v.Args) == 0 {
			return v
		}
		newArgs := make([]ast.Term, len(v.Args))
		for i, a := range v.Args {
			newArgs[i] = applyTerm(a, mapping, counter)
		}
		return ast.Predicate{Name: v.Name, Args: newArgs}
	default:
		return t
	}
}
