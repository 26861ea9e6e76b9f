package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/position"
	"github.com/orizon-lang/unifyeq/internal/problem"
	"github.com/orizon-lang/unifyeq/internal/term"
	"github.com/orizon-lang/unifyeq/internal/unify"
)

func (a *app) renderResolution(w io.Writer, rep report) {
	fmt.Fprintf(w, "== %s\n", rep.path)

	for _, msg := range rep.trace {
		fmt.Fprintf(w, "[%s] %s\n", msg.Class, msg.Text)
	}

	if rep.err != nil {
		fmt.Fprint(w, formatError(rep))
		return
	}

	out := rep.outcome
	if out.Kind == unify.Closed {
		fmt.Fprintf(w, "%s: contradiction, goal closed\n", rep.hyp)
		return
	}

	printer := func(t *term.Term) string { return t.String() }

	g, err := rep.problem.Meta.Store.Get(out.Goal)
	if err == nil {
		printer = rep.problem.Meta.Printer(g).Print
	}

	summary := fmt.Sprintf("%s: %s", rep.hyp, out.Kind)
	if out.Eliminated != nil {
		// The eliminated variable no longer has a name in the new goal.
		summary += fmt.Sprintf(", eliminated %s := %s", out.Eliminated.Var.Name, printer(out.Eliminated.Replacement))
	}

	if out.PendingEquations > 0 {
		names := lo.Map(out.Pending(), func(r goal.Ref, _ int) string { return r.Name })
		summary += fmt.Sprintf(", %d pending (%s)", out.PendingEquations, strings.Join(names, ", "))
	}

	fmt.Fprintln(w, summary)

	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	pending := lo.SliceToMap(out.Pending(), func(r goal.Ref) (term.FVarID, bool) { return r.ID, true })
	renderGoal(w, rep.problem, g, pending, a.width)
}

// renderGoal prints the hypotheses of g and its target as a table. Hypotheses in
// pending are marked.
func renderGoal(w io.Writer, p *problem.Problem, g *goal.Goal, pending map[term.FVarID]bool, width int) {
	printer := p.Meta.Printer(g)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// Term names are case sensitive.
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Hypothesis", "Type", ""})

	for i, h := range g.Hypotheses() {
		mark := ""
		if pending[h.ID] {
			mark = "pending"
		}

		t.AppendRow(table.Row{i + 1, h.Name, printer.Print(h.Type), mark})
	}

	t.AppendFooter(table.Row{"", "⊢", printer.Print(g.Target()), ""})

	if width > 0 {
		t.SetAllowedRowLength(width)
	}

	t.Render()
}

// formatError renders diagnostics against the problem source and falls back to
// the plain error text.
func formatError(rep report) string {
	var (
		d  *diagnostic.Diagnostic
		ue *unify.Error
	)

	switch {
	case errors.As(rep.err, &ue):
		d = ue.Diagnostic
	case errors.As(rep.err, &d):
	default:
		return fmt.Sprintf("Error: %v\n", rep.err)
	}

	return formatDiagnostics(rep, d)
}

// formatDiagnostics renders diags against the source of rep.
func formatDiagnostics(rep report, diags ...*diagnostic.Diagnostic) string {
	sources := position.NewSourceMap()
	sources.AddFile(rep.path, rep.source)

	engine := diagnostic.NewDiagnosticEngine(diagnostic.DefaultConfig(), sources)
	for _, d := range diags {
		engine.AddDiagnostic(d)
	}

	return engine.FormatDiagnostics()
}
