package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/BaSui01/clinicalflow/pipeline"
	"github.com/BaSui01/clinicalflow/render"
	"github.com/BaSui01/clinicalflow/results"
	"github.com/BaSui01/clinicalflow/source"
	"github.com/BaSui01/clinicalflow/types"
)

func newInteractiveCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"chat"},
		Short:   "Analyze narratives typed on the terminal",
		Long: `Interactive reads one patient narrative per line and prints the analysis
as it completes. Type 'sair' or 'exit' to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root, true)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			return runInteractive(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runInteractive runs the console loop until a quit word, end of input or
// cancellation.
func runInteractive(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	f := render.New(out)
	console := source.NewConsole(in)
	runID := results.NewRunID()
	ctx = types.WithRunID(ctx, runID)

	fmt.Fprintln(out, f.Banner(a.machine.Variant()))
	for ctx.Err() == nil {
		fmt.Fprint(out, "\nDigite o relato do paciente: ")
		item, ok := console.Next()
		if !ok {
			break
		}

		fmt.Fprintln(out, "Processando análise...")
		res := a.machine.Run(ctx, item)
		fmt.Fprintln(out, f.Result(res))
		a.persist(ctx, runID, []pipeline.Result{res})
	}

	fmt.Fprintln(out, "\nEncerrando sessão.")
	return console.Err()
}
