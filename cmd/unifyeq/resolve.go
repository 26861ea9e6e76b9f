package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/unifyeq/internal/config"
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/meta"
	"github.com/orizon-lang/unifyeq/internal/problem"
	"github.com/orizon-lang/unifyeq/internal/trace"
	"github.com/orizon-lang/unifyeq/internal/unify"
)

var errNoEquation = errors.New("no equation hypothesis to resolve")

type resolveOptions struct {
	hyp      string
	caseName string
}

// report is the result of one problem file.
type report struct {
	err     error
	problem *problem.Problem
	outcome *unify.Outcome
	path    string
	source  string
	hyp     string
	trace   []trace.Message
}

func newResolveCmd(a *app) *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve FILE...",
		Short: "Resolve one equation hypothesis in each problem file",
		Long: `Resolve loads each problem file, resolves one equation hypothesis and prints
the outcome with the resulting context. The hypothesis is taken from --hyp,
then from the document's resolve field, then the first equation of the context.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			err := a.resolveAll(ctx, out, args, opts)
			if !a.cfg.Watch {
				return err
			}

			return a.watch(ctx, args, func(path string) {
				_ = a.resolveAll(ctx, out, []string{path}, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.hyp, "hyp", "", "hypothesis to resolve")
	cmd.Flags().StringVar(&opts.caseName, "case", "", "case name reported in diagnostics")
	cmd.Flags().Bool("watch", false, "resolve again whenever a problem file changes")
	cmd.Flags().Int("jobs", config.DefaultJobs, "number of problem files resolved in parallel")

	return cmd
}

// resolveAll resolves every file, at most cfg.Jobs at a time, and prints the
// reports in argument order.
func (a *app) resolveAll(ctx context.Context, w io.Writer, paths []string, opts resolveOptions) error {
	reports := make([]report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Jobs)

	for i, path := range paths {
		g.Go(func() error {
			reports[i] = a.resolveOne(gctx, path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, rep := range reports {
		a.renderResolution(w, rep)

		if rep.err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d problems failed", failed, len(paths))
	}

	return nil
}

func (a *app) resolveOne(ctx context.Context, path string, opts resolveOptions) report {
	logger := a.logger.With("file", path)

	rep, p := a.load(path)
	if rep.err != nil {
		logger.Debug("problem rejected", "error", rep.err)
		return rep
	}

	h, err := pickHypothesis(p, opts.hyp)
	if err != nil {
		rep.err = err
		return rep
	}

	rep.hyp = h.Name
	caseName := lo.Ternary(opts.caseName != "", opts.caseName, p.Case)

	rec := trace.NewRecorder()

	var sink trace.Sink = rec
	if logger.Enabled(ctx, slog.LevelDebug) {
		sink = trace.Fanout{rec, trace.SlogSink{Logger: logger}}
	}

	r := unify.New(p.Meta,
		unify.WithTrace(trace.NewOptions(a.cfg.Trace...), sink),
		unify.WithLogger(logger))

	rep.outcome, rep.err = r.ResolveCase(ctx, p.Goal, h.ID, caseName)
	rep.trace = rec.Snapshot()

	return rep
}

// load reads and elaborates one problem file.
func (a *app) load(path string) (report, *problem.Problem) {
	rep := report{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		rep.err = fmt.Errorf("failed to read problem: %w", err)
		return rep, nil
	}

	rep.source = string(data)

	p, err := problem.Parse(path, data, meta.WithConfig(a.cfg.MetaConfig()))
	if err != nil {
		rep.err = err
		return rep, nil
	}

	rep.problem = p

	return rep, p
}

// pickHypothesis chooses the equation to resolve: name if given, else the
// document's choice, else the first equation of the context.
func pickHypothesis(p *problem.Problem, name string) (*goal.Hypothesis, error) {
	if name == "" {
		name = p.Resolve.Value
	}

	if name != "" {
		return p.Hypothesis(name)
	}

	eqs, err := p.Equations()
	if err != nil {
		return nil, err
	}

	if len(eqs) == 0 {
		return nil, errNoEquation
	}

	return p.Hypothesis(eqs[0].Name)
}
