package problem

import (
	"fmt"
	"os"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/env"
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/meta"
	"github.com/orizon-lang/unifyeq/internal/position"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// Problem is an elaborated document, ready to be resolved.
type Problem struct {
	Meta *meta.Context
	// Resolve names the hypothesis to resolve. It is empty when the document
	// leaves the choice to the caller.
	Resolve Scalar
	// Case labels failures, as in "at case succ".
	Case     string
	Filename string
	Source   string
	Goal     goal.ID
}

// Load reads and elaborates the problem file at path.
func Load(path string, opts ...meta.Option) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem: %w", err)
	}

	return Parse(path, data, opts...)
}

// Parse elaborates a problem held in memory. Failures are *diagnostic.Diagnostic
// values carrying the position of the offending scalar.
func Parse(filename string, data []byte, opts ...meta.Option) (*Problem, error) {
	doc, err := Decode(filename, data)
	if err != nil {
		return nil, err
	}

	m := meta.NewContext(env.New(), goal.NewStore(), opts...)
	e := newElaborator(m)

	// Axioms may mention inductives; definitions may mention both.
	steps := []func() error{
		func() error { return e.inductives(doc.Inductives) },
		func() error { return e.axioms(doc.Axioms) },
		func() error { return e.definitions(doc.Definitions) },
		func() error { return e.metavariables(doc.Metavariables) },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	hyps, err := e.hypotheses(doc.Hypotheses)
	if err != nil {
		return nil, err
	}

	if !doc.Target.IsSet() {
		return nil, diagnostic.Common.InvalidDocument(
			position.SpanAt(position.Position{Filename: filename, Line: 1, Column: 1}, 1), "missing target")
	}

	target, err := e.typ(doc.Target)
	if err != nil {
		return nil, err
	}

	id, err := m.Store.NewGoal(hyps, target)
	if err != nil {
		return nil, diagnostic.Common.IllTyped(doc.Target.Span(), message(err))
	}

	if doc.Resolve.IsSet() {
		if _, ok := e.hyps[doc.Resolve.Value]; !ok {
			return nil, diagnostic.Common.UnknownIdentifier(doc.Resolve.Span(), doc.Resolve.Value)
		}
	}

	return &Problem{
		Meta:     m,
		Goal:     id,
		Resolve:  doc.Resolve,
		Case:     doc.Case.Value,
		Filename: filename,
		Source:   string(data),
	}, nil
}

// Hypothesis looks up a hypothesis of the problem's goal by name.
func (p *Problem) Hypothesis(name string) (*goal.Hypothesis, error) {
	g, err := p.Meta.Store.Get(p.Goal)
	if err != nil {
		return nil, err
	}

	h, ok := g.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown hypothesis %q", name)
	}

	return h, nil
}

// Equations lists the hypotheses whose types are equalities, in context order.
func (p *Problem) Equations() ([]goal.Ref, error) {
	g, err := p.Meta.Store.Get(p.Goal)
	if err != nil {
		return nil, err
	}

	var refs []goal.Ref
	for _, h := range g.Hypotheses() {
		if term.IsEq(h.Type) || term.IsHEq(h.Type) {
			refs = append(refs, h.Ref())
		}
	}

	return refs, nil
}

// Warnings reports what elaborates but cannot be resolved: a resolve field naming
// a hypothesis whose type does not reduce to an equality, or a context with no
// equation at all.
func (p *Problem) Warnings() ([]*diagnostic.Diagnostic, error) {
	g, err := p.Meta.Store.Get(p.Goal)
	if err != nil {
		return nil, err
	}

	if p.Resolve.IsSet() {
		h, err := p.Hypothesis(p.Resolve.Value)
		if err != nil {
			return nil, err
		}

		ty, err := p.Meta.WHNF(p.Meta.InstantiateMVars(h.Type))
		if err != nil {
			return nil, err
		}

		if term.IsEq(ty) || term.IsHEq(ty) {
			return nil, nil
		}

		return []*diagnostic.Diagnostic{
			diagnostic.Common.ResolveNotEquation(p.Resolve.Span(), h.Name, p.Meta.Printer(g).Print(h.Type)),
		}, nil
	}

	eqs, err := p.Equations()
	if err != nil {
		return nil, err
	}

	if len(eqs) == 0 {
		return []*diagnostic.Diagnostic{diagnostic.Common.NoEquation(p.Filename)}, nil
	}

	return nil, nil
}

func (e *elaborator) inductives(decls []InductiveDecl) error {
	for _, d := range decls {
		ty, err := e.typ(d.Type)
		if err != nil {
			return err
		}

		e.declaring = []string{d.Name.Value}

		ctors := make([]env.Constructor, 0, len(d.Constructors))
		for _, c := range d.Constructors {
			cty, err := e.term(c.Type)
			if err != nil {
				e.declaring = nil
				return err
			}

			ctors = append(ctors, env.Constructor{Name: c.Name.Value, Type: cty})
		}

		e.declaring = nil

		ind := env.Inductive{Name: d.Name.Value, Type: ty, NumParams: d.Params}
		if err := e.meta.Env.AddInductive(ind, ctors...); err != nil {
			return diagnostic.Common.IllTyped(d.Name.Span(), message(err))
		}
	}

	return nil
}

func (e *elaborator) definitions(decls []Declaration) error {
	for _, d := range decls {
		if d.Value == nil {
			return diagnostic.Common.InvalidDocument(d.Name.Span(), fmt.Sprintf("definition %s has no value", d.Name.Value))
		}

		ty, err := e.typ(d.Type)
		if err != nil {
			return err
		}

		value, err := e.check(*d.Value, ty)
		if err != nil {
			return err
		}

		if err := e.meta.Env.AddDefinition(d.Name.Value, ty, value); err != nil {
			return diagnostic.Common.IllTyped(d.Name.Span(), message(err))
		}
	}

	return nil
}

func (e *elaborator) axioms(decls []Declaration) error {
	for _, d := range decls {
		ty, err := e.typ(d.Type)
		if err != nil {
			return err
		}

		if err := e.meta.Env.AddAxiom(d.Name.Value, ty); err != nil {
			return diagnostic.Common.IllTyped(d.Name.Span(), message(err))
		}
	}

	return nil
}

func (e *elaborator) metavariables(decls []Declaration) error {
	for _, d := range decls {
		if _, ok := e.meta.MCtx.FindByName(d.Name.Value); ok {
			return diagnostic.Common.InvalidDocument(d.Name.Span(), fmt.Sprintf("metavariable ?%s is declared twice", d.Name.Value))
		}

		ty, err := e.typ(d.Type)
		if err != nil {
			return err
		}

		mv := e.meta.NewMVar(d.Name.Value, ty)

		if d.Value == nil {
			continue
		}

		value, err := e.check(*d.Value, ty)
		if err != nil {
			return err
		}

		e.meta.Assign(mv.MVarID(), value)
	}

	return nil
}

func (e *elaborator) hypotheses(decls []Declaration) ([]*goal.Hypothesis, error) {
	hyps := make([]*goal.Hypothesis, 0, len(decls))

	for _, d := range decls {
		ty, err := e.typ(d.Type)
		if err != nil {
			return nil, err
		}

		id := e.introduce(d.Name.Value, ty)
		hyps = append(hyps, &goal.Hypothesis{ID: id, Name: d.Name.Value, Type: ty})
	}

	return hyps, nil
}
