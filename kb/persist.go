package kb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kbagents/miniprolog/ast"
)

// termDoc is the discriminated-union YAML encoding of an ast.Term,
// mirroring the tagged "type" field the original Python implementation
// used for the same purpose (see DESIGN.md).
type termDoc struct {
	Type string     `yaml:"type"`
	Name string     `yaml:"name,omitempty"`
	Args []*termDoc `yaml:"args,omitempty"`
}

func encodeTerm(t ast.Term) *termDoc {
	switch v := t.(type) {
	case ast.Const:
		typ := "const"
		switch v.Kind {
		case ast.NumericConst:
			typ = "number"
		case ast.StringConst:
			typ = "string"
		}
		return &termDoc{Type: typ, Name: v.Name}
	case ast.Var:
		return &termDoc{Type: "var", Name: v.Name}
	case ast.Predicate:
		args := make([]*termDoc, len(v.Args))
		for i, a := range v.Args {
			args[i] = encodeTerm(a)
		}
		return &termDoc{Type: "pred", Name: v.Name, Args: args}
	default:
		panic(fmt.Sprintf("kb: unencodable term kind %T", t))
	}
}

func decodeTerm(d *termDoc) (ast.Term, error) {
	switch d.Type {
	case "const":
		return ast.NewAtom(d.Name), nil
	case "number":
		return ast.NewNumber(d.Name), nil
	case "string":
		return ast.NewString(d.Name), nil
	case "var":
		return ast.NewVar(d.Name), nil
	case "pred":
		args := make([]ast.Term, len(d.Args))
		for i, a := range d.Args {
			t, err := decodeTerm(a)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return ast.Predicate{Name: d.Name, Args: args}, nil
	default:
		return nil, fmt.Errorf("kb: load: unrecognized term type %q", d.Type)
	}
}

type ruleDoc struct {
	Head *termDoc   `yaml:"head"`
	Body []*termDoc `yaml:"body,omitempty"`
}

func encodeRule(r ast.Rule) *ruleDoc {
	body := make([]*termDoc, len(r.Body))
	for i, b := range r.Body {
		body[i] = encodeTerm(b)
	}
	return &ruleDoc{Head: encodeTerm(r.Head), Body: body}
}

func decodeRule(d *ruleDoc) (ast.Rule, error) {
	headTerm, err := decodeTerm(d.Head)
	if err != nil {
		return ast.Rule{}, err
	}
	head, ok := headTerm.(ast.Predicate)
	if !ok {
		return ast.Rule{}, fmt.Errorf("kb: load: rule head is not a predicate")
	}
	body := make([]ast.Term, len(d.Body))
	for i, b := range d.Body {
		t, err := decodeTerm(b)
		if err != nil {
			return ast.Rule{}, err
		}
		body[i] = t
	}
	return ast.Rule{Head: head, Body: body}, nil
}

type kbDoc struct {
	ProgramRules  []*ruleDoc `yaml:"program_rules,omitempty"`
	AssertedFacts []*ruleDoc `yaml:"asserted_facts,omitempty"`
}

// Save persists the selected stores to path as a YAML document with
// "program_rules" and "asserted_facts" keys, each an ordered sequence of
// rule records. load(save(x)) round-trips as abstract data (insertion
// order within each store is preserved; order across the two stores is
// not meaningful).
func (kb *KB) Save(path string, program, facts bool) error {
	var doc kbDoc
	if program {
		doc.ProgramRules = make([]*ruleDoc, len(kb.programRules))
		for i, r := range kb.programRules {
			doc.ProgramRules[i] = encodeRule(r)
		}
	}
	if facts {
		doc.AssertedFacts = make([]*ruleDoc, len(kb.assertedFacts))
		for i, r := range kb.assertedFacts {
			doc.AssertedFacts[i] = encodeRule(r)
		}
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("kb: save: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("kb: save: %w", err)
	}
	return nil
}

// Load restores the selected stores from path, replacing whichever of
// programRules/assertedFacts is selected. Missing file fails with
// ErrNotFound.
func (kb *KB) Load(path string, program, facts bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("kb: load: %w", err)
	}
	var doc kbDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("kb: load: %w", err)
	}
	if program {
		rules := make([]ast.Rule, len(doc.ProgramRules))
		for i, d := range doc.ProgramRules {
			r, err := decodeRule(d)
			if err != nil {
				return err
			}
			rules[i] = r
		}
		kb.programRules = rules
	}
	if facts {
		rules := make([]ast.Rule, len(doc.AssertedFacts))
		for i, d := range doc.AssertedFacts {
			r, err := decodeRule(d)
			if err != nil {
				return err
			}
			rules[i] = r
		}
		kb.assertedFacts = rules
	}
	return nil
}
