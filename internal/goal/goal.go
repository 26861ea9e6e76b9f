// Package goal implements the context store: goals are immutable snapshots of an
// ordered hypothesis list plus a target, addressed by generation-checked handles.
// Every mutation produces a fresh snapshot under a fresh handle and retires the
// handle it was given, so a stale handle can never observe a context it does not own.
package goal

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/orizon-lang/unifyeq/internal/term"
)

// ID is a handle on a goal snapshot.
type ID struct {
	slot uint32
	gen  uint32
}

// String returns a string representation of the handle.
func (id ID) String() string {
	return fmt.Sprintf("#%d.%d", id.slot, id.gen)
}

// IsZero reports whether id is the zero handle, which never refers to a goal.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Hypothesis is a local declaration of a goal.
type Hypothesis struct {
	Type *term.Term
	// Proof records how an asserted hypothesis was obtained. It is nil for
	// hypotheses introduced with the goal and is not part of dependency checks.
	Proof *term.Term
	Name  string
	ID    term.FVarID
}

// Ref names a hypothesis of a goal.
type Ref struct {
	Name string
	ID   term.FVarID
}

// Ref returns a reference to h.
func (h *Hypothesis) Ref() Ref {
	return Ref{ID: h.ID, Name: h.Name}
}

// Goal is an immutable snapshot: hypotheses in dependency order and a target.
type Goal struct {
	target *term.Term
	hyps   []*Hypothesis
}

// Target returns the target type.
func (g *Goal) Target() *term.Term { return g.target }

// Len returns the number of hypotheses.
func (g *Goal) Len() int { return len(g.hyps) }

// Hypotheses returns the hypotheses in order.
func (g *Goal) Hypotheses() []*Hypothesis {
	return append([]*Hypothesis(nil), g.hyps...)
}

// Find returns the hypothesis with the given id and its position index.
func (g *Goal) Find(id term.FVarID) (*Hypothesis, int, bool) {
	h, index, ok := lo.FindIndexOf(g.hyps, func(h *Hypothesis) bool { return h.ID == id })

	return h, index, ok
}

// Index returns the position index of the hypothesis, or -1 when absent. A
// hypothesis may only depend on hypotheses with a smaller index.
func (g *Goal) Index(id term.FVarID) int {
	_, index, _ := g.Find(id)

	return index
}

// FindByName returns the last hypothesis named name.
func (g *Goal) FindByName(name string) (*Hypothesis, bool) {
	h, _, ok := lo.FindLastIndexOf(g.hyps, func(h *Hypothesis) bool { return h.Name == name })

	return h, ok
}

// TypeOf returns the type of the hypothesis id.
func (g *Goal) TypeOf(id term.FVarID) (*term.Term, bool) {
	h, _, ok := g.Find(id)
	if !ok {
		return nil, false
	}

	return h.Type, true
}

// Mentions reports whether any hypothesis type or the target refers to id.
func (g *Goal) Mentions(id term.FVarID) bool {
	if term.HasFVar(g.target, id) {
		return true
	}

	return lo.ContainsBy(g.hyps, func(h *Hypothesis) bool {
		return h.ID != id && term.HasFVar(h.Type, id)
	})
}

// NameOf returns the user-facing name of the hypothesis id.
func (g *Goal) NameOf(id term.FVarID) (string, bool) {
	h, _, ok := g.Find(id)
	if !ok {
		return "", false
	}

	return h.Name, true
}

// Printer returns a term printer that resolves free variables to hypothesis names.
func (g *Goal) Printer() *term.Printer {
	return &term.Printer{FVarName: g.NameOf}
}

// Pretty renders t with the hypothesis names of the goal.
func (g *Goal) Pretty(t *term.Term) string {
	return g.Printer().Print(t)
}

// String renders the goal in the usual hypotheses-then-turnstile layout.
func (g *Goal) String() string {
	var sb strings.Builder

	p := g.Printer()
	for _, h := range g.hyps {
		fmt.Fprintf(&sb, "%s : %s\n", h.Name, p.Print(h.Type))
	}

	fmt.Fprintf(&sb, "⊢ %s", p.Print(g.target))

	return sb.String()
}
