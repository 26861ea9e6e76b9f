package problem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/position"
	"github.com/orizon-lang/unifyeq/internal/term"
	"github.com/orizon-lang/unifyeq/internal/unify"
)

const natList = `version: "1.0"
inductives:
  - name: Nat
    type: Type
    params: 0
    constructors:
      - {name: Nat.zero, type: Nat}
      - {name: Nat.succ, type: Nat -> Nat}
  - name: List
    type: Type -> Type
    params: 1
    constructors:
      - {name: List.nil, type: "(α : Type) -> List α"}
      - {name: List.cons, type: "(α : Type) -> α -> List α -> List α"}
definitions:
  - {name: one, type: Nat, value: Nat.succ Nat.zero}
  - {name: idNat, type: Nat -> Nat, value: "fun (x : Nat) => x"}
axioms:
  - {name: P, type: Nat -> Prop}
metavariables:
  - {name: m, type: Nat, value: one}
hypotheses:
  - {name: n, type: Nat}
  - {name: h, type: "n = Nat.succ ?m"}
target: P n
resolve: h
case: succ
`

func diag(t *testing.T, err error) *diagnostic.Diagnostic {
	t.Helper()

	var d *diagnostic.Diagnostic
	require.ErrorAs(t, err, &d)

	return d
}

func TestLexerTokens(t *testing.T) {
	tokens, err := NewLexer("{α : Type} -> (x : α) → x == ?m", position.Position{Line: 1, Column: 1}).Tokens()
	require.NoError(t, err)

	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}

	assert.Equal(t, []TokenType{
		TokenLBrace, TokenIdent, TokenColon, TokenIdent, TokenRBrace, TokenArrow,
		TokenLParen, TokenIdent, TokenColon, TokenIdent, TokenRParen, TokenArrow,
		TokenIdent, TokenHEq, TokenQuestion, TokenIdent, TokenEOF,
	}, types)

	assert.Equal(t, 2, tokens[1].Span.Start.Column, "columns count runes")
	assert.Equal(t, 3, tokens[1].Span.End.Column)
}

func TestLexerIdentifierParts(t *testing.T) {
	tokens, err := NewLexer("x₁ α' Nat.succ₂ x₁₀y", position.Position{Line: 1, Column: 1}).Tokens()
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	values := make([]string, 0, 4)
	for _, tok := range tokens[:4] {
		assert.Equal(t, TokenIdent, tok.Type)
		values = append(values, tok.Value)
	}

	assert.Equal(t, []string{"x₁", "α'", "Nat.succ₂", "x₁₀y"}, values)
	assert.Equal(t, 4, tokens[1].Span.Start.Column)
}

func TestParseTermStructure(t *testing.T) {
	syn, err := ParseTerm("{α : Type} -> (x y : α) -> x = y", position.Position{Line: 1, Column: 1})
	require.NoError(t, err)

	outer, ok := syn.(*Binding)
	require.True(t, ok)
	require.Len(t, outer.Binders, 1)
	assert.True(t, outer.Binders[0].Implicit)
	assert.False(t, outer.Lambda)

	inner, ok := outer.Body.(*Binding)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, []string{inner.Binders[0].Name, inner.Binders[1].Name})

	eq, ok := inner.Body.(*Equation)
	require.True(t, ok)
	assert.False(t, eq.Heterogeneous)
}

func TestParseTermArrowIsRightAssociative(t *testing.T) {
	syn, err := ParseTerm("A -> B -> C", position.Position{Line: 1, Column: 1})
	require.NoError(t, err)

	arrow, ok := syn.(*Arrow)
	require.True(t, ok)
	assert.IsType(t, &Ident{}, arrow.Domain)
	assert.IsType(t, &Arrow{}, arrow.Codomain)
}

func TestParseTermErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		column  int
	}{
		{"unclosed paren", "f (x", "Expected ')', found 'end of input'", 5},
		{"missing operand", "a = = b", "Expected a term, found '='", 5},
		{"stray character", "x $ y", "Expected a term, found '$'", 3},
		{"lambda without binders", "fun x => x", "Expected a binder group, found 'x'", 5},
		{"sort without level", "Sort x", "Expected number, found 'x'", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTerm(tt.input, position.Position{Filename: "p.yaml", Line: 3, Column: 1})
			d := diag(t, err)

			assert.Equal(t, diagnostic.CodeUnexpectedToken, d.Code)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, 3, d.Span.Start.Line)
			assert.Equal(t, tt.column, d.Span.Start.Column)
		})
	}
}

func TestParseDocument(t *testing.T) {
	p, err := Parse("nat.yaml", []byte(natList))
	require.NoError(t, err)

	assert.Equal(t, "h", p.Resolve.Value)
	assert.Equal(t, "succ", p.Case)

	n, err := p.Hypothesis("n")
	require.NoError(t, err)
	h, err := p.Hypothesis("h")
	require.NoError(t, err)

	nat := term.Const("Nat")
	m, ok := p.Meta.MCtx.FindByName("m")
	require.True(t, ok)

	want := term.MkEqTerm(nat, term.FVar(n.ID), term.App(term.Const("Nat.succ"), term.MVar(m.ID)))
	assert.True(t, term.Equal(want, h.Type), "got %s", h.Type)

	value, ok := p.Meta.MCtx.Assignment(m.ID)
	require.True(t, ok)
	assert.True(t, term.Equal(term.Const("one"), value))

	id, ok := p.Meta.Env.Find("idNat")
	require.True(t, ok)
	assert.True(t, term.Equal(term.Lam("x", nat, term.BVar(0)), id.Value))

	ctor, ok := p.Meta.Env.Constructor("List.cons")
	require.True(t, ok)
	assert.Equal(t, 2, ctor.NumFields)

	eqs, err := p.Equations()
	require.NoError(t, err)
	require.Len(t, eqs, 1)
	assert.Equal(t, "h", eqs[0].Name)
}

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(natList), 0o600))

	p, err := Load(path)
	require.NoError(t, err)

	h, err := p.Hypothesis(p.Resolve.Value)
	require.NoError(t, err)

	out, err := unify.New(p.Meta).ResolveCase(context.Background(), p.Goal, h.ID, p.Case)
	require.NoError(t, err)
	require.NotNil(t, out.Eliminated)
	assert.Equal(t, "n", out.Eliminated.Var.Name)

	g, err := p.Meta.Store.Get(out.Goal)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())

	succOne := term.App(term.Const("Nat.succ"), term.Const("one"))
	assert.True(t, term.Equal(term.App(term.Const("P"), succOne), g.Target()), "got %s", g.Target())
}

func TestHeterogeneousEquation(t *testing.T) {
	src := `version: "1.2.0"
axioms:
  - {name: Bool, type: Type}
  - {name: tt, type: Bool}
  - {name: A, type: Type}
hypotheses:
  - {name: a, type: A}
  - {name: h, type: a == tt}
target: A
`
	p, err := Parse("heq.yaml", []byte(src))
	require.NoError(t, err)

	h, err := p.Hypothesis("h")
	require.NoError(t, err)
	assert.True(t, term.IsHEq(h.Type))
}

func TestDefinitionMentionsAxiom(t *testing.T) {
	src := `version: "1.0"
definitions:
  - {name: b, type: A, value: a}
axioms:
  - {name: A, type: Type}
  - {name: a, type: A}
target: A
`
	p, err := Parse("order.yaml", []byte(src))
	require.NoError(t, err)

	b, ok := p.Meta.Env.Find("b")
	require.True(t, ok)
	assert.True(t, term.Equal(term.Const("a"), b.Value))
	assert.True(t, term.Equal(term.Const("A"), b.Type))
}

func TestBinderShadowsHypothesis(t *testing.T) {
	src := `version: "1.0"
axioms:
  - {name: A, type: Type}
hypotheses:
  - {name: n, type: A}
target: "(n : A) -> n = n"
`
	p, err := Parse("shadow.yaml", []byte(src))
	require.NoError(t, err)

	g, err := p.Meta.Store.Get(p.Goal)
	require.NoError(t, err)

	a := term.Const("A")
	want := term.Pi("n", a, term.MkEqTerm(a, term.BVar(0), term.BVar(0)))
	assert.True(t, term.Equal(want, g.Target()), "got %s", g.Target())
}

func TestUnknownIdentifierPosition(t *testing.T) {
	tests := []struct {
		name   string
		hyp    string
		column int
	}{
		{"plain", `  - {name: h, type: n = zz}`, 25},
		{"quoted", `  - {name: h, type: "n = zz"}`, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "version: \"1.0\"\naxioms:\n  - {name: A, type: Type}\nhypotheses:\n  - {name: n, type: A}\n" +
				tt.hyp + "\ntarget: A\n"

			_, err := Parse("unknown.yaml", []byte(src))
			d := diag(t, err)

			assert.Equal(t, diagnostic.CodeUnknownIdentifier, d.Code)
			assert.Equal(t, position.Position{Filename: "unknown.yaml", Line: 6, Column: tt.column}, d.Span.Start)
			assert.Contains(t, d.Message, "'zz'")
		})
	}
}

func TestUnknownMetavariablePosition(t *testing.T) {
	src := "version: \"1.0\"\naxioms:\n  - {name: A, type: Type}\nhypotheses:\n  - {name: a, type: A}\n" +
		"  - {name: h, type: \"a = ?x\"}\ntarget: A\n"

	_, err := Parse("holes.yaml", []byte(src))
	d := diag(t, err)

	assert.Equal(t, diagnostic.CodeUnknownIdentifier, d.Code)
	assert.Equal(t, position.Position{Filename: "holes.yaml", Line: 6, Column: 26}, d.Span.Start)
	assert.Contains(t, d.Message, "'?x'")
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unsupported version", "version: \"2.0\"\ntarget: Prop\n", diagnostic.CodeUnsupportedVersion},
		{"malformed version", "version: abc\ntarget: Prop\n", diagnostic.CodeUnsupportedVersion},
		{"missing version", "target: Prop\n", diagnostic.CodeInvalidDocument},
		{"unknown field", "version: \"1.0\"\ntarget: Prop\ngoals: []\n", diagnostic.CodeInvalidDocument},
		{"missing target", "version: \"1.0\"\n", diagnostic.CodeInvalidDocument},
		{"target not a type", "version: \"1.0\"\naxioms:\n  - {name: A, type: Type}\n  - {name: a, type: A}\ntarget: a\n", diagnostic.CodeIllTyped},
		{"definition type mismatch", "version: \"1.0\"\naxioms:\n  - {name: Bool, type: Type}\ndefinitions:\n  - {name: bad, type: Prop, value: Bool}\ntarget: Prop\n", diagnostic.CodeIllTyped},
		{"definition without value", "version: \"1.0\"\ndefinitions:\n  - {name: bad, type: Prop}\ntarget: Prop\n", diagnostic.CodeInvalidDocument},
		{"duplicate axiom", "version: \"1.0\"\naxioms:\n  - {name: A, type: Type}\n  - {name: A, type: Type}\ntarget: Prop\n", diagnostic.CodeIllTyped},
		{"unknown metavariable", "version: \"1.0\"\naxioms:\n  - {name: A, type: Type}\nhypotheses:\n  - {name: a, type: A}\n  - {name: h, type: \"a = ?x\"}\ntarget: Prop\n", diagnostic.CodeUnknownIdentifier},
		{"unknown resolve target", "version: \"1.0\"\ntarget: Prop\nresolve: nope\n", diagnostic.CodeUnknownIdentifier},
		{"syntax error", "version: \"1.0\"\ntarget: \"(Prop\"\n", diagnostic.CodeUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.yaml", []byte(tt.src))
			d := diag(t, err)

			assert.Equal(t, tt.code, d.Code, d.Error())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
