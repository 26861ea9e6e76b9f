package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Elaborate problem files and print their contexts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0

			for _, path := range args {
				rep, p := a.load(path)

				fmt.Fprintf(w, "== %s\n", path)

				if rep.err != nil {
					fmt.Fprint(w, formatError(rep))
					failed++

					continue
				}

				g, err := p.Meta.Store.Get(p.Goal)
				if err != nil {
					return err
				}

				renderGoal(w, p, g, nil, a.width)

				warnings, err := p.Warnings()
				if err != nil {
					return err
				}

				if len(warnings) > 0 {
					fmt.Fprint(w, formatDiagnostics(rep, warnings...))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d problems failed", failed, len(args))
			}

			return nil
		},
	}
}
