package problem

import (
	"unicode"
	"unicode/utf8"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/position"
)

// TokenType represents the type of a token of the term syntax.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenFun
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenColon
	TokenArrow
	TokenFatArrow
	TokenEq
	TokenHEq
	TokenQuestion
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "end of input",
	TokenIdent:    "identifier",
	TokenNumber:   "number",
	TokenFun:      "'fun'",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenColon:    "':'",
	TokenArrow:    "'->'",
	TokenFatArrow: "'=>'",
	TokenEq:       "'='",
	TokenHEq:      "'=='",
	TokenQuestion: "'?'",
}

// String returns a string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return "unknown"
}

// Token represents a lexical token with its position.
type Token struct {
	Value string
	Span  position.Span
	Type  TokenType
}

// Lexer splits one term written in a YAML scalar into tokens.
type Lexer struct {
	input  string
	origin position.Position
	pos    int // byte offset
	col    int // rune offset from origin
}

// NewLexer creates a lexer for input, which starts at origin in the problem file.
func NewLexer(input string, origin position.Position) *Lexer {
	return &Lexer{input: input, origin: origin}
}

// Tokens returns all tokens up to and including TokenEOF.
func (l *Lexer) Tokens() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.col
	if l.pos >= len(l.input) {
		return l.token(TokenEOF, "", start), nil
	}

	r := l.peek()

	switch {
	case isIdentStart(r):
		return l.ident(start), nil
	case unicode.IsDigit(r):
		return l.number(start), nil
	}

	two := ""
	if l.pos+1 < len(l.input) {
		two = l.input[l.pos : l.pos+2]
	}

	switch two {
	case "->":
		l.advanceN(2)
		return l.token(TokenArrow, two, start), nil
	case "=>":
		l.advanceN(2)
		return l.token(TokenFatArrow, two, start), nil
	case "==":
		l.advanceN(2)
		return l.token(TokenHEq, two, start), nil
	}

	l.advance()

	switch r {
	case '(':
		return l.token(TokenLParen, "(", start), nil
	case ')':
		return l.token(TokenRParen, ")", start), nil
	case '{':
		return l.token(TokenLBrace, "{", start), nil
	case '}':
		return l.token(TokenRBrace, "}", start), nil
	case ':':
		return l.token(TokenColon, ":", start), nil
	case '=':
		return l.token(TokenEq, "=", start), nil
	case '?':
		return l.token(TokenQuestion, "?", start), nil
	case '→':
		return l.token(TokenArrow, "→", start), nil
	case 'λ':
		return l.token(TokenFun, "λ", start), nil
	}

	span := position.SpanAt(l.origin.Advance(start), 1)

	return Token{}, diagnostic.Common.UnexpectedToken(span, "a term", string(r))
}

func (l *Lexer) ident(start int) Token {
	begin := l.pos
	for l.pos < len(l.input) && isIdentPart(l.peek()) {
		l.advance()
	}

	value := l.input[begin:l.pos]
	if value == "fun" {
		return l.token(TokenFun, value, start)
	}

	return l.token(TokenIdent, value, start)
}

func (l *Lexer) number(start int) Token {
	begin := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(l.peek()) {
		l.advance()
	}

	return l.token(TokenNumber, l.input[begin:l.pos], start)
}

func (l *Lexer) token(typ TokenType, value string, start int) Token {
	return Token{
		Type:  typ,
		Value: value,
		Span:  position.Span{Start: l.origin.Advance(start), End: l.origin.Advance(l.col)},
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *Lexer) advance() {
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	l.col++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// λ is a letter for unicode but lexes as 'fun'.
func isIdentStart(r rune) bool {
	return r != 'λ' && (unicode.IsLetter(r) || r == '_')
}

func isSubscriptDigit(r rune) bool {
	return r >= '₀' && r <= '₉'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '.' || r == '\'' || isSubscriptDigit(r)
}
