package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unifyeq/internal/position"
)

func TestUnsolvableEquationError(t *testing.T) {
	d := Common.UnsolvableEquation("n = Nat.succ n", "succ")

	assert.Equal(t, CodeUnsolvableEquation, d.Code)
	assert.Equal(t, "dependent elimination failed, failed to solve equation\n  n = Nat.succ n\nat case succ", d.Error())

	plain := Common.UnsolvableEquation("n = Nat.succ n", "")
	assert.Empty(t, plain.Notes)
	assert.Equal(t, "dependent elimination failed, failed to solve equation\n  n = Nat.succ n", plain.Error())
}

func TestBuilder(t *testing.T) {
	span := position.SpanAt(position.Position{Filename: "p.yaml", Line: 1, Column: 1}, 3)
	d := NewDiagnostic().Warning().Type().Code("X1").Title("t").Message("m").Note("").Note("n").Span(span).Build()

	assert.Equal(t, DiagnosticWarning, d.Level)
	assert.Equal(t, DiagnosticType, d.Category)
	assert.Equal(t, []string{"n"}, d.Notes)
	assert.Equal(t, span, d.Span)
	assert.Equal(t, "type", d.Category.String())
	assert.Equal(t, "warning", d.Level.String())
}

func TestEngineFormatsWithSource(t *testing.T) {
	sources := position.NewSourceMap()
	sources.AddFile("p.yaml", "target: P x\n")

	engine := NewDiagnosticEngine(DefaultConfig(), sources)
	engine.AddDiagnostic(Common.UnknownIdentifier(
		position.SpanAt(position.Position{Filename: "p.yaml", Line: 1, Column: 11}, 1), "x"))

	require.True(t, engine.HasErrors())

	out := engine.FormatDiagnostics()
	assert.Contains(t, out, "p.yaml:1:11: error[PROB002]: Unknown identifier")
	assert.Contains(t, out, "   1 | target: P x\n")
	assert.Contains(t, out, "Found 1 error(s).")
}

func TestEngineTruncates(t *testing.T) {
	engine := NewDiagnosticEngine(DiagnosticConfig{MaxErrors: 2}, nil)

	engine.AddDiagnostic(Common.NoEquation("p.yaml"))
	engine.AddDiagnostic(Common.NotAnEquation("h", "Nat"))
	engine.AddDiagnostic(Common.NotAnEquation("k", "Nat"))
	engine.AddDiagnostic(Common.NotAnEquation("dropped", "Nat"))

	diags := engine.GetDiagnostics()
	require.Len(t, diags, 4)
	assert.Equal(t, codeTooManyErrors, diags[3].Code)
	assert.Len(t, engine.GetWarnings(), 1)
}

func TestEngineSummaryCountsWarnings(t *testing.T) {
	sources := position.NewSourceMap()
	sources.AddFile("p.yaml", "resolve: n\n")

	engine := NewDiagnosticEngine(DefaultConfig(), sources)
	engine.AddDiagnostic(Common.ResolveNotEquation(
		position.SpanAt(position.Position{Filename: "p.yaml", Line: 1, Column: 10}, 1), "n", "Nat"))

	assert.False(t, engine.HasErrors())

	out := engine.FormatDiagnostics()
	assert.Contains(t, out, "p.yaml:1:10: warning[PROB006]: Resolve target is not an equation")
	assert.Contains(t, out, "  n : Nat\n")
	assert.Contains(t, out, "Found 1 warning(s).")
}

func TestEmptyEngine(t *testing.T) {
	engine := NewDiagnosticEngine(DefaultConfig(), nil)

	assert.False(t, engine.HasErrors())
	assert.Empty(t, engine.FormatDiagnostics())
}
