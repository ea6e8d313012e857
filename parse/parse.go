// Package parse implements the hand-rolled lexer and recursive-descent
// parser for the engine's clause language.
//
// The grammar has no code-generation step: Parser below scans tokens
// lazily off a lexer and builds ast.Rule/ast.Term values directly.
package parse

import (
	"go.uber.org/multierr"

	"github.com/kbagents/miniprolog/ast"
)

// Parser holds the token stream for one parse. Construct with newParser;
// exported entry points (ParseKB, ParseRule, ParseQuery) each build one
// internally.
type Parser struct {
	lex       *lexer
	tok       token
	peeked    bool
	peekedErr error
}

func newParser(src string) *Parser {
	return &Parser{lex: newLexer(src)}
}

func (p *Parser) peek() (token, error) {
	if !p.peeked {
		t, err := p.lex.next()
		p.tok, p.peekedErr = t, err
		p.peeked = true
	}
	return p.tok, p.peekedErr
}

func (p *Parser) consume() (token, error) {
	t, err := p.peek()
	p.peeked = false
	return t, err
}

func (p *Parser) expect(kind tokenKind, what string) (token, error) {
	t, err := p.peek()
	if err != nil {
		return token{}, err
	}
	if t.kind != kind {
		return token{}, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "expected " + what}
	}
	return p.consume()
}

// ParseKB parses a full program: whitespace-separated clauses each
// terminated by '.'. On any malformed clause, scanning continues past
// the next '.' so that every syntax error in the source is reported
// together (aggregated with multierr) rather than only the first.
func ParseKB(text string) ([]ast.Rule, error) {
	p := newParser(text)
	var rules []ast.Rule
	var errs error
	for {
		t, err := p.peek()
		if err != nil {
			errs = multierr.Append(errs, err)
			p.skipToNextDot()
			continue
		}
		if t.kind == tokEOF {
			break
		}
		rule, err := p.parseClause(true)
		if err != nil {
			errs = multierr.Append(errs, err)
			p.skipToNextDot()
			continue
		}
		rules = append(rules, rule)
	}
	if errs != nil {
		return nil, errs
	}
	return rules, nil
}

// skipToNextDot consumes tokens through the next '.' (or EOF), for error
// recovery between clauses.
func (p *Parser) skipToNextDot() {
	for {
		t, err := p.consume()
		if err != nil {
			// The lexer has already moved past the offending input.
			continue
		}
		if t.kind == tokEOF || t.kind == tokDot {
			return
		}
	}
}

// ParseRule parses a single clause. The terminating '.' is optional.
func ParseRule(text string) (ast.Rule, error) {
	p := newParser(text)
	rule, err := p.parseClause(false)
	if err != nil {
		return ast.Rule{}, err
	}
	t, err := p.peek()
	if err != nil {
		return ast.Rule{}, err
	}
	if t.kind != tokEOF {
		return ast.Rule{}, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "unexpected trailing input after clause"}
	}
	return rule, nil
}

// ParseQuery parses a single query: a comma-separated goal list,
// terminating '.' optional. A conjunction of goals ("p(X), \+ q(X)") is
// the common case exercised by the engine, so the result is a goal list
// rather than a single Predicate.
func ParseQuery(text string) ([]ast.Term, error) {
	p := newParser(text)
	goals, err := p.parseGoalList()
	if err != nil {
		return nil, err
	}
	if t, _ := p.peek(); t.kind == tokDot {
		p.consume()
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.kind != tokEOF {
		return nil, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "unexpected trailing input after query"}
	}
	return goals, nil
}

// parseClause parses `Head.` or `Head :- B1, ..., Bm.`. When requireDot
// is true (full-program parsing via ParseKB), a missing terminating dot
// is a syntax error; ParseRule's single-clause convenience tolerates its
// absence.
func (p *Parser) parseClause(requireDot bool) (ast.Rule, error) {
	headTerm, err := p.parseSimpleTerm()
	if err != nil {
		return ast.Rule{}, err
	}
	head, ok := headTerm.(ast.Predicate)
	if !ok {
		t, _ := p.peek()
		return ast.Rule{}, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "clause head must be a predicate"}
	}

	var body []ast.Term
	t, err := p.peek()
	if err != nil {
		return ast.Rule{}, err
	}
	if t.kind == tokRule {
		p.consume()
		body, err = p.parseGoalList()
		if err != nil {
			return ast.Rule{}, err
		}
	}

	dt, err := p.peek()
	if err != nil {
		return ast.Rule{}, err
	}
	if dt.kind == tokDot {
		p.consume()
	} else if requireDot {
		return ast.Rule{}, &SyntaxError{Pos: Position{dt.pos, dt.line, dt.col}, Msg: "expected '.' to terminate clause"}
	}
	return ast.Rule{Head: head, Body: body}, nil
}

func (p *Parser) parseGoalList() ([]ast.Term, error) {
	first, err := p.parseGoal()
	if err != nil {
		return nil, err
	}
	goals := []ast.Term{first}
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.kind != tokComma {
			break
		}
		p.consume()
		g, err := p.parseGoal()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// parseGoal parses one body/query element: a negation, an infix
// comparison, or an ordinary (possibly zero-arity) predicate call.
func (p *Parser) parseGoal() (ast.Term, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.kind == tokNeg {
		p.consume()
		inner, err := p.parseGoal()
		if err != nil {
			return nil, err
		}
		innerPred, ok := inner.(ast.Predicate)
		if !ok {
			return nil, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "\\+ requires a predicate goal"}
		}
		return ast.NewNegation(innerPred), nil
	}

	left, err := p.parseSimpleTerm()
	if err != nil {
		return nil, err
	}

	if opTok, err := p.peek(); err == nil && opTok.kind == tokOp {
		p.consume()
		right, err := p.parseSimpleTerm()
		if err != nil {
			return nil, err
		}
		return ast.NewPredicate(opTok.text, left, right), nil
	}

	pred, ok := left.(ast.Predicate)
	if !ok {
		return nil, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "goal must be a predicate call"}
	}
	return pred, nil
}

// parseSimpleTerm parses a Var, Const or compound Predicate — the
// building block both for clause heads and for goal/argument positions.
// It also recognizes a free-standing operator functor call, e.g.
// ">(X, 5)", as equivalent to the infix form.
func (p *Parser) parseSimpleTerm() (ast.Term, error) {
	t, err := p.consume()
	if err != nil {
		return nil, err
	}
	switch t.kind {
	case tokVar:
		return ast.NewVar(t.text), nil
	case tokNumber:
		return ast.NewNumber(t.text), nil
	case tokString:
		return ast.NewString(t.text), nil
	case tokAtom:
		return p.finishMaybeCompound(t.text)
	case tokOp:
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.kind != tokLParen {
			return nil, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "operator used outside infix or call position"}
		}
		return p.finishMaybeCompound(t.text)
	default:
		return nil, &SyntaxError{Pos: Position{t.pos, t.line, t.col}, Msg: "expected a term"}
	}
}

// finishMaybeCompound builds a Predicate named `name`, consuming a
// parenthesized argument list if one follows; otherwise returns a
// zero-arity Predicate.
func (p *Parser) finishMaybeCompound(name string) (ast.Term, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.kind != tokLParen {
		return ast.NewPredicate(name), nil
	}
	p.consume()
	var args []ast.Term
	if rt, _ := p.peek(); rt.kind != tokRParen {
		for {
			arg, err := p.parseSimpleTerm()
			if err != nil {
				return nil, err
			}
			// A bare atom in argument position is a constant, not a call.
			if ap, ok := arg.(ast.Predicate); ok && len(ap.Args) == 0 {
				arg = ast.NewAtom(ap.Name)
			}
			args = append(args, arg)
			ct, err := p.peek()
			if err != nil {
				return nil, err
			}
			if ct.kind != tokComma {
				break
			}
			p.consume()
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return ast.NewPredicate(name, args...), nil
}
