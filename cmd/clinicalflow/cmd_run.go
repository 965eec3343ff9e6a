package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BaSui01/clinicalflow/pipeline"
	"github.com/BaSui01/clinicalflow/render"
	"github.com/BaSui01/clinicalflow/results"
	"github.com/BaSui01/clinicalflow/source"
	"github.com/BaSui01/clinicalflow/types"
)

type runFlags struct {
	inputDir    string
	pattern     string
	output      string
	concurrency int
	retryLimit  int
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze every input file and write the results report",
		Long: `Run reads every matching file from the input directory, analyzes each one
through the correction loop and writes the aggregate report as JSON.

Examples:
  clinicalflow run
  clinicalflow run --prompt v1 --input data/input --output results.json
  clinicalflow run --concurrency 4 --retry-limit 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root, true)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("input") {
				cfg.Input.Dir = flags.inputDir
			}
			if f.Changed("pattern") {
				cfg.Input.Pattern = flags.pattern
			}
			if f.Changed("output") {
				cfg.Output.ResultsPath = flags.output
			}
			if f.Changed("concurrency") {
				cfg.Pipeline.Concurrency = flags.concurrency
			}
			if f.Changed("retry-limit") {
				cfg.Pipeline.RetryLimit = flags.retryLimit
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = runBatch(cmd.Context(), a, cmd.OutOrStdout())
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.inputDir, "input", "i", "", "Input directory (default from config)")
	f.StringVar(&flags.pattern, "pattern", "", "Input file glob (default *.txt)")
	f.StringVarP(&flags.output, "output", "o", "", "Results report path (default from config)")
	f.IntVar(&flags.concurrency, "concurrency", 0, "Items analyzed in parallel")
	f.IntVar(&flags.retryLimit, "retry-limit", 0, "Correction attempts per item")
	return cmd
}

// runBatch analyzes the input directory and writes the report. An empty
// input set writes nothing.
func runBatch(ctx context.Context, a *app, out io.Writer) (pipeline.Summary, error) {
	cfg := a.cfg
	items, err := source.NewDirReader(cfg.Input.Dir, cfg.Input.Pattern, a.logger).Read()
	if err != nil {
		return pipeline.Summary{}, err
	}
	variant := a.machine.Variant()
	if len(items) == 0 {
		fmt.Fprintf(out, "No files found in %s. Nothing to do.\n", cfg.Input.Dir)
		return pipeline.Summarize(variant, nil), nil
	}

	runID := results.NewRunID()
	ctx = types.WithRunID(ctx, runID)

	fmt.Fprintf(out, "Starting pipeline with prompt %s over %d file(s)...\n", variant, len(items))
	res := a.machine.RunBatch(ctx, items, cfg.Pipeline.Concurrency)
	summary := pipeline.Summarize(variant, res)

	writer := results.NewJSONWriter(cfg.Output.ResultsPath, a.logger)
	if err := writer.Write(summary); err != nil {
		return summary, err
	}

	a.persist(ctx, runID, res)
	a.logger.Info("batch finished",
		zap.String("run_id", runID),
		zap.Int("total", summary.Total),
		zap.Int("ok", summary.OK),
		zap.Int("failed", summary.Failed),
	)

	fmt.Fprintf(out, "Results written to %s\n", writer.Path())
	fmt.Fprintln(out, render.New(out).Summary(summary))
	return summary, nil
}
