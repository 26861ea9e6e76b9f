// Package meta implements the definitional-equality oracle used by the equation
// resolver: weak head normalization, type inference, definitional equality with
// first-order metavariable assignment and the equality proof builders.
package meta

import (
	"github.com/orizon-lang/unifyeq/internal/env"
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// Default limits for normalization and definitional equality.
const (
	DefaultMaxWHNFSteps  = 512
	DefaultMaxDefEqDepth = 256
)

// LocalContext resolves the types of free variables. *goal.Goal implements it.
type LocalContext interface {
	TypeOf(id term.FVarID) (*term.Term, bool)
}

// Config bounds the work done by the oracle.
type Config struct {
	MaxWHNFSteps  int
	MaxDefEqDepth int
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{MaxWHNFSteps: DefaultMaxWHNFSteps, MaxDefEqDepth: DefaultMaxDefEqDepth}
}

// Context bundles the environment, the goal store and the metavariable context.
// It is not safe for concurrent use.
type Context struct {
	Env    *env.Environment
	Store  *goal.Store
	MCtx   *MetavarContext
	config Config
	// whnfCache memoizes WHNF results. It is dropped whenever assignments change.
	whnfCache map[*term.Term]*term.Term
}

// Option configures a Context.
type Option func(*Context)

// WithConfig overrides the default limits. Non-positive fields keep their default.
func WithConfig(cfg Config) Option {
	return func(c *Context) {
		if cfg.MaxWHNFSteps > 0 {
			c.config.MaxWHNFSteps = cfg.MaxWHNFSteps
		}

		if cfg.MaxDefEqDepth > 0 {
			c.config.MaxDefEqDepth = cfg.MaxDefEqDepth
		}
	}
}

// NewContext creates an oracle over e and s.
func NewContext(e *env.Environment, s *goal.Store, opts ...Option) *Context {
	c := &Context{
		Env:       e,
		Store:     s,
		MCtx:      NewMetavarContext(),
		config:    DefaultConfig(),
		whnfCache: make(map[*term.Term]*term.Term),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Config returns the active limits.
func (c *Context) Config() Config { return c.config }

// NewMVar declares a fresh metavariable of type ty.
func (c *Context) NewMVar(name string, ty *term.Term) *term.Term {
	return term.MVar(c.MCtx.Declare(name, ty))
}

// Assign solves the metavariable id with value.
func (c *Context) Assign(id term.MVarID, value *term.Term) {
	c.MCtx.Assign(id, value)
	clear(c.whnfCache)
}

// SaveState checkpoints the metavariable assignments.
func (c *Context) SaveState() MCtxState {
	return c.MCtx.Save()
}

// RestoreState restores a checkpoint taken with SaveState.
func (c *Context) RestoreState(s MCtxState) {
	c.MCtx.Restore(s)
	clear(c.whnfCache)
}

// Printer returns a printer naming free variables after the hypotheses of g and
// metavariables after their declarations.
func (c *Context) Printer(g *goal.Goal) *term.Printer {
	p := &term.Printer{MVarName: c.MCtx.Name}
	if g != nil {
		p.FVarName = g.NameOf
	}

	return p
}

// withLocal extends a local context with one binder.
type withLocal struct {
	parent LocalContext
	ty     *term.Term
	id     term.FVarID
}

func (w *withLocal) TypeOf(id term.FVarID) (*term.Term, bool) {
	if id == w.id {
		return w.ty, true
	}

	if w.parent == nil {
		return nil, false
	}

	return w.parent.TypeOf(id)
}
