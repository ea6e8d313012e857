// Package kb implements the host-facing facade: consult, assertz,
// retract, retractall, query, save and load, backed by two ordered
// clause stores — program rules from consult and dynamically asserted
// facts — concatenated in that order for resolution.
package kb

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/creachadair/stringset"
	log "github.com/golang/glog"

	"github.com/kbagents/miniprolog/ast"
	"github.com/kbagents/miniprolog/constraint"
	"github.com/kbagents/miniprolog/engine"
	"github.com/kbagents/miniprolog/parse"
	"github.com/kbagents/miniprolog/subst"
	"github.com/kbagents/miniprolog/unify"
)

// ErrNotFound is returned by Load when the save file does not exist.
var ErrNotFound = errors.New("kb: file not found")

// KB is a mutable Prolog knowledge base: a set of program rules loaded
// via Consult plus a set of dynamically asserted facts, queried
// together by SLD resolution.
type KB struct {
	programRules  []ast.Rule
	assertedFacts []ast.Rule
}

// New returns an empty knowledge base.
func New() *KB {
	return &KB{}
}

// Consult loads source, which is either a file path (containing '/' or
// ending in ".pl"/".pro") or inline program text, and appends its rules
// to the program store. Parsing is atomic: on a syntax error no rules
// from source are added.
func (kb *KB) Consult(source string) error {
	if looksLikePath(source) {
		return kb.ConsultFile(source)
	}
	rules, err := parse.ParseKB(source)
	if err != nil {
		return fmt.Errorf("kb: consult: %w", err)
	}
	kb.programRules = append(kb.programRules, rules...)
	log.V(1).Infof("kb: consulted %d rule(s) from inline text", len(rules))
	return nil
}

// ConsultFile loads a program file and appends its rules to the program
// store.
func (kb *KB) ConsultFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return fmt.Errorf("kb: consult file %s: %w", filename, err)
	}
	rules, err := parse.ParseKB(string(content))
	if err != nil {
		return fmt.Errorf("kb: consult %s: %w", filename, err)
	}
	kb.programRules = append(kb.programRules, rules...)
	log.V(1).Infof("kb: consulted %d rule(s) from %s", len(rules), filename)
	return nil
}

func looksLikePath(source string) bool {
	return strings.Contains(source, "/") || strings.HasSuffix(source, ".pl") || strings.HasSuffix(source, ".pro")
}

func stripTrailingDots(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, ".") {
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Assertz parses clause (terminating '.' optional) and appends it to the
// dynamic facts store.
func (kb *KB) Assertz(clause string) error {
	rule, err := parse.ParseRule(stripTrailingDots(clause))
	if err != nil {
		return fmt.Errorf("kb: assertz: %w", err)
	}
	kb.assertedFacts = append(kb.assertedFacts, rule)
	return nil
}

// Retract parses pattern and removes the first asserted clause whose
// head unifies with pattern's head (under an empty substitution). A
// no-op if nothing matches.
func (kb *KB) Retract(pattern string) error {
	target, err := parse.ParseRule(stripTrailingDots(pattern))
	if err != nil {
		return fmt.Errorf("kb: retract: %w", err)
	}
	for i, rule := range kb.assertedFacts {
		if headsUnify(rule, target) {
			kb.assertedFacts = append(kb.assertedFacts[:i:i], kb.assertedFacts[i+1:]...)
			return nil
		}
	}
	return nil
}

// RetractAll parses pattern and removes every asserted clause whose head
// unifies with pattern's head.
func (kb *KB) RetractAll(pattern string) error {
	target, err := parse.ParseRule(stripTrailingDots(pattern))
	if err != nil {
		return fmt.Errorf("kb: retractall: %w", err)
	}
	kept := kb.assertedFacts[:0:0]
	for _, rule := range kb.assertedFacts {
		if !headsUnify(rule, target) {
			kept = append(kept, rule)
		}
	}
	kb.assertedFacts = kept
	return nil
}

func headsUnify(rule, target ast.Rule) bool {
	_, ok := unify.Unify(rule.Head, target.Head, subst.New())
	return ok
}

// Binding is one query result: variable name to the textual form of its
// bound term, covering exactly the variables that occurred in the
// query. An unbound query variable maps to its own name.
type Binding map[string]string

// Query parses text (terminating '.' optional) as a goal list, resolves
// it against the combined program+asserted stores, and returns one
// Binding per solution in the resolver's deterministic order.
func (kb *KB) Query(text string) ([]Binding, error) {
	goals, err := parse.ParseQuery(text)
	if err != nil {
		return nil, fmt.Errorf("kb: query: %w", err)
	}
	queryVars := stringset.New()
	var queryVarOrder []string
	for _, g := range goals {
		for _, v := range ast.Vars(g) {
			if !queryVars.Contains(v) {
				queryVars.Add(v)
				queryVarOrder = append(queryVarOrder, v)
			}
		}
	}

	solutions := engine.Resolve(kb, goals, subst.New(), 0, constraint.New())

	bindings := make([]Binding, 0, len(solutions))
	for _, sol := range solutions {
		b := Binding{}
		for _, name := range queryVarOrder {
			bound := sol.Subst.Apply(ast.NewVar(name))
			if v, ok := bound.(ast.Var); ok {
				b[name] = v.Name
			} else {
				b[name] = bound.String()
			}
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// RulesFor implements engine.ClauseSource: program rules precede
// asserted facts, each group in insertion order.
func (kb *KB) RulesFor(name string, arity int) []ast.Rule {
	var out []ast.Rule
	for _, r := range kb.programRules {
		if r.Head.Name == name && len(r.Head.Args) == arity {
			out = append(out, r)
		}
	}
	for _, r := range kb.assertedFacts {
		if r.Head.Name == name && len(r.Head.Args) == arity {
			out = append(out, r)
		}
	}
	return out
}

// ListPredicates returns the distinct (name/arity) predicate signatures
// defined across both stores, as "name/arity" strings.
func (kb *KB) ListPredicates() []string {
	seen := stringset.New()
	for _, r := range kb.programRules {
		seen.Add(fmt.Sprintf("%s/%d", r.Head.Name, len(r.Head.Args)))
	}
	for _, r := range kb.assertedFacts {
		seen.Add(fmt.Sprintf("%s/%d", r.Head.Name, len(r.Head.Args)))
	}
	return seen.Elements()
}
