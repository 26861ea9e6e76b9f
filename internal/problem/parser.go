package problem

import (
	"strconv"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/position"
)

// Parser is a recursive descent parser for the term syntax.
//
//	expr    := 'fun' group+ '=>' expr
//	         | group+ '->' expr
//	         | eq ('->' expr)?
//	group   := '(' ident+ ':' expr ')' | '{' ident+ ':' expr '}'
//	eq      := app (('=' | '==') app)?
//	app     := atom+
//	atom    := ident | '?' ident | '(' expr ')' | 'Type' | 'Prop' | 'Sort' number
type Parser struct {
	tokens []Token
	pos    int
}

// ParseTerm parses input, which starts at origin, into syntax.
func ParseTerm(input string, origin position.Position) (Syntax, error) {
	tokens, err := NewLexer(input, origin).Tokens()
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.current().Type != TokenEOF {
		return nil, p.unexpected("end of term")
	}

	return expr, nil
}

func (p *Parser) parseExpr() (Syntax, error) {
	start := p.current().Span

	if p.current().Type == TokenFun {
		p.advance()

		binders, err := p.parseGroups()
		if err != nil {
			return nil, err
		}

		if len(binders) == 0 {
			return nil, p.unexpected("a binder group")
		}

		if _, err := p.expect(TokenFatArrow); err != nil {
			return nil, err
		}

		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &Binding{Binders: binders, Body: body, Lambda: true, span: join(start, body.Span())}, nil
	}

	if p.atGroup() {
		binders, err := p.parseGroups()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenArrow); err != nil {
			return nil, err
		}

		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &Binding{Binders: binders, Body: body, span: join(start, body.Span())}, nil
	}

	lhs, err := p.parseEq()
	if err != nil {
		return nil, err
	}

	if p.current().Type != TokenArrow {
		return lhs, nil
	}

	p.advance()

	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Arrow{Domain: lhs, Codomain: rhs}, nil
}

// atGroup reports whether a binder group starts here: an opening bracket followed
// by names and a colon. '{' always opens a group.
func (p *Parser) atGroup() bool {
	switch p.current().Type {
	case TokenLBrace:
		return true
	case TokenLParen:
	default:
		return false
	}

	i := p.pos + 1
	for i < len(p.tokens) && p.tokens[i].Type == TokenIdent {
		i++
	}

	return i > p.pos+1 && i < len(p.tokens) && p.tokens[i].Type == TokenColon
}

func (p *Parser) parseGroups() ([]Binder, error) {
	var binders []Binder

	for p.atGroup() {
		open := p.advance()
		implicit := open.Type == TokenLBrace
		closing := TokenRParen
		if implicit {
			closing = TokenRBrace
		}

		var names []Token
		for p.current().Type == TokenIdent {
			names = append(names, p.advance())
		}

		if len(names) == 0 {
			return nil, p.unexpected("a binder name")
		}

		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}

		ty, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(closing); err != nil {
			return nil, err
		}

		for _, name := range names {
			binders = append(binders, Binder{Name: name.Value, Type: ty, Implicit: implicit, span: name.Span})
		}
	}

	return binders, nil
}

func (p *Parser) parseEq() (Syntax, error) {
	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}

	typ := p.current().Type
	if typ != TokenEq && typ != TokenHEq {
		return lhs, nil
	}

	p.advance()

	rhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}

	return &Equation{LHS: lhs, RHS: rhs, Heterogeneous: typ == TokenHEq}, nil
}

func (p *Parser) parseApp() (Syntax, error) {
	fn, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	var args []Syntax
	for p.atAtom() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	if len(args) == 0 {
		return fn, nil
	}

	return &Application{Fn: fn, Args: args}, nil
}

func (p *Parser) atAtom() bool {
	switch p.current().Type {
	case TokenIdent, TokenQuestion, TokenLParen:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAtom() (Syntax, error) {
	tok := p.current()

	switch tok.Type {
	case TokenIdent:
		p.advance()

		switch tok.Value {
		case "Prop":
			return &Universe{Level: 0, span: tok.Span}, nil
		case "Type":
			return &Universe{Level: 1, span: tok.Span}, nil
		case "Sort":
			num, err := p.expect(TokenNumber)
			if err != nil {
				return nil, err
			}

			level, err := strconv.Atoi(num.Value)
			if err != nil {
				return nil, diagnostic.Common.UnexpectedToken(num.Span, "a universe level", num.Value)
			}

			return &Universe{Level: level, span: join(tok.Span, num.Span)}, nil
		}

		return &Ident{Name: tok.Value, span: tok.Span}, nil

	case TokenQuestion:
		p.advance()

		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}

		return &Hole{Name: name.Value, span: join(tok.Span, name.Span)}, nil

	case TokenLParen:
		p.advance()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return expr, nil
	}

	return nil, p.unexpected("a term")
}

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	if p.current().Type != typ {
		return Token{}, p.unexpected(typ.String())
	}

	return p.advance(), nil
}

func (p *Parser) unexpected(expected string) error {
	tok := p.current()

	actual := tok.Value
	if tok.Type == TokenEOF {
		actual = tok.Type.String()
	}

	return diagnostic.Common.UnexpectedToken(tok.Span, expected, actual)
}
