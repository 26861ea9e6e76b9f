package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/orizon-lang/unifyeq/internal/cli"
	"github.com/orizon-lang/unifyeq/internal/config"
)

// app carries what the subcommands share once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cfgFile string
	runID   string
	width   int
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "unifyeq",
		Short: "Resolve equation hypotheses of dependent case analysis goals",
		Long: `unifyeq eliminates one equation hypothesis from a goal described in a
problem file: it substitutes a variable away, dismisses a trivially true
equation, decomposes an equation between constructor applications, or turns a
heterogeneous equation into a homogeneous one.`,
		Version: cli.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./unifyeq.yaml)")
	pf.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	pf.String("log-format", config.DefaultLogFormat, "log format (text|json)")
	pf.StringSlice("trace", nil, "enable a trace class such as Meta.debug or Meta.Tactic.injection (repeatable)")
	pf.Int("width", 0, "table width, 0 probes the terminal")

	root.AddCommand(newResolveCmd(a), newCheckCmd(a), newVersionCmd())

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := cli.NewLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.logger = logger.With("run", a.runID)
	a.width = cfg.Width

	if a.width == 0 {
		a.width = outputWidth(cmd.OutOrStdout())
	}

	if cfg.File != "" {
		a.logger.Debug("using config file", "path", cfg.File)
	}

	return nil
}

func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return cli.TerminalWidth(f)
	}

	return cli.DefaultWidth
}

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.PrintVersion(cmd.OutOrStdout(), "unifyeq", jsonOutput); err != nil {
				return fmt.Errorf("version: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version in JSON format")

	return cmd
}
