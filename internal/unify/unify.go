// Package unify eliminates equation hypotheses from a goal. One call resolves one
// hypothesis: it substitutes a variable away, dismisses a trivially true equation,
// decomposes an equation between constructor applications, or converts a
// heterogeneous equation into a homogeneous one for the caller to resolve again.
package unify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/meta"
	"github.com/orizon-lang/unifyeq/internal/term"
	"github.com/orizon-lang/unifyeq/internal/trace"
)

// Resolver resolves equation hypotheses of goals held in one store. It is not safe
// for concurrent use.
type Resolver struct {
	meta   *meta.Context
	store  *goal.Store
	logger *slog.Logger
	sink   trace.Sink
	trace  trace.Options
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTrace enables trace output for the classes enabled in opts.
func WithTrace(opts trace.Options, sink trace.Sink) Option {
	return func(r *Resolver) {
		r.trace = opts
		if sink != nil {
			r.sink = sink
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a resolver working on the store of m.
func New(m *meta.Context, opts ...Option) *Resolver {
	r := &Resolver{
		meta:   m,
		store:  m.Store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sink:   trace.NopSink{},
		trace:  trace.NewOptions(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve eliminates the equation hypothesis h from goal id.
func (r *Resolver) Resolve(ctx context.Context, id goal.ID, h term.FVarID) (*Outcome, error) {
	return r.ResolveCase(ctx, id, h, "")
}

// ResolveCase is Resolve for an equation arising in the case caseName of a case
// analysis; the name is reported in diagnostics and on the outcome.
//
// On failure nothing changes: id stays valid and metavariable assignments made
// during the call are undone.
func (r *Resolver) ResolveCase(ctx context.Context, id goal.ID, h term.FVarID, caseName string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn, err := r.store.Begin(id)
	if err != nil {
		return nil, err
	}

	saved := r.meta.SaveState()

	out, err := r.resolve(ctx, id, h, caseName)
	if err != nil {
		txn.Rollback()
		r.meta.RestoreState(saved)
		r.logger.Debug("equation not resolved", "goal", id.String(), "hypothesis", h.String(), "error", err)

		return nil, err
	}

	if err := txn.Commit(); err != nil {
		return nil, err
	}

	out.Case = caseName
	r.logger.Debug("equation resolved",
		"hypothesis", h.String(),
		"outcome", out.Kind.String(),
		"produced", out.Names(),
		"pending", out.PendingEquations)

	return out, nil
}

// call carries the state of one resolution.
type call struct {
	r        *Resolver
	g        *goal.Goal
	hyp      *goal.Hypothesis
	caseName string
	id       goal.ID
}

func (r *Resolver) resolve(ctx context.Context, id goal.ID, h term.FVarID, caseName string) (*Outcome, error) {
	hyp, err := r.store.Hypothesis(id, h)
	if err != nil {
		return nil, err
	}

	g, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}

	c := &call{r: r, id: id, g: g, hyp: hyp, caseName: caseName}

	ty := r.meta.InstantiateMVars(hyp.Type)

	shape := Classify(ty)
	if shape.Kind == ShapeNotAnEquation {
		whnf, err := r.meta.WHNF(ty)
		if err != nil {
			return nil, err
		}

		shape = Classify(whnf)
	}

	if r.trace.IsEnabled(trace.UnifyEq) {
		trace.SafeEmit(r.sink, trace.UnifyEq, fmt.Sprintf("%s : %s (%s)", hyp.Name, c.pretty(ty), shape.Kind))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch shape.Kind {
	case ShapeHeterogeneous:
		return c.heqToEq()

	case ShapeHomogeneous:
		a := r.meta.InstantiateMVars(shape.LHS)
		b := r.meta.InstantiateMVars(shape.RHS)

		return c.homogeneous(shape.Type, a, b)

	default:
		return nil, newError(ErrNotAnEquation, hyp.Name,
			diagnostic.Common.NotAnEquation(hyp.Name, c.pretty(hyp.Type)))
	}
}

func (c *call) homogeneous(ty, a, b *term.Term) (*Outcome, error) {
	switch {
	case a.IsFVar() && b.IsFVar():
		if x := a.FVarID(); x == b.FVarID() {
			return c.substEq(x, b, a, b, false, func() (*Outcome, error) { return c.clearTied(x) })
		}

		// The variable introduced later is eliminated.
		if c.g.Index(a.FVarID()) > c.g.Index(b.FVarID()) {
			return c.substEq(a.FVarID(), b, a, b, false, nil)
		}

		return c.substEq(b.FVarID(), a, a, b, true, nil)

	case b.IsFVar():
		return c.substEq(b.FVarID(), a, a, b, true, nil)

	case a.IsFVar():
		return c.substEq(a.FVarID(), b, a, b, false, nil)
	}

	env := c.r.meta.Env
	if env.IsConstructorApp(a) && env.IsConstructorApp(b) {
		return c.injection(a, b)
	}

	same, err := c.r.meta.IsDefEq(a, b)
	if err != nil {
		return nil, err
	}

	if same {
		return c.dismiss()
	}

	return c.reduce(ty, a, b)
}

// reduce normalizes both sides of an equation that is neither substitutable nor
// trivially true. Constructor applications go to injection; otherwise a changed
// equation is asserted in place of the original for the caller to resolve again.
func (c *call) reduce(ty, a, b *term.Term) (*Outcome, error) {
	m := c.r.meta

	ra, err := m.WHNF(a)
	if err != nil {
		return nil, err
	}

	rb, err := m.WHNF(b)
	if err != nil {
		return nil, err
	}

	if m.Env.IsConstructorApp(ra) && m.Env.IsConstructorApp(rb) {
		return c.injection(ra, rb)
	}

	if term.Equal(ra, a) && term.Equal(rb, b) {
		return nil, c.unsolvable()
	}

	if c.r.trace.IsEnabled(trace.MetaDebug) {
		trace.SafeEmit(c.r.sink, trace.MetaDebug, fmt.Sprintf("a: %s ==> %s", c.pretty(a), c.pretty(ra)))
		trace.SafeEmit(c.r.sink, trace.MetaDebug, fmt.Sprintf("b: %s ==> %s", c.pretty(b), c.pretty(rb)))
	}

	next, fv, err := c.r.store.Assert(c.id, c.hyp.Name, term.MkEqTerm(ty, ra, rb), term.FVar(c.hyp.ID))
	if err != nil {
		return nil, err
	}

	next, err = c.r.store.Clear(next, c.hyp.ID)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Kind:             Progress,
		Goal:             next,
		Hypotheses:       []goal.Ref{{ID: fv, Name: c.hyp.Name}},
		PendingEquations: 1,
	}, nil
}

// dismiss drops a hypothesis whose sides are definitionally equal.
func (c *call) dismiss() (*Outcome, error) {
	next, err := c.r.store.Clear(c.id, c.hyp.ID)
	if err != nil {
		return nil, err
	}

	return &Outcome{Kind: Progress, Goal: next}, nil
}

func (c *call) unsolvable() error {
	return newError(ErrUnsolvableEquation, c.hyp.Name,
		diagnostic.Common.UnsolvableEquation(c.pretty(c.hyp.Type), c.caseName))
}

func (c *call) pretty(t *term.Term) string {
	return c.r.meta.Printer(c.g).Print(t)
}

