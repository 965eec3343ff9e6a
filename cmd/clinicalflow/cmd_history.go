package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/BaSui01/clinicalflow/results"
)

func newHistoryCmd(root *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List persisted results from the run history store",
		Long: `History prints the most recent persisted results, or every result of one
run when a run ID is given. Requires database.enabled in the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root, false)
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled {
				return errors.New("run history is disabled (set database.enabled: true)")
			}
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.store == nil {
				return errors.New("run history store is not available")
			}

			runID := ""
			if len(args) > 0 {
				runID = args[0]
			}
			return printHistory(cmd.Context(), a.store, runID, limit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows when no run ID is given")
	return cmd
}

func printHistory(ctx context.Context, store *results.Store, runID string, limit int, out io.Writer) error {
	var (
		records []results.Record
		err     error
	)
	if runID != "" {
		records, err = store.Run(ctx, runID)
	} else {
		records, err = store.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No results recorded.")
		return nil
	}

	for _, r := range records {
		status := "ok"
		if !r.OK {
			status = "failed"
		}
		fmt.Fprintf(out, "%s  %s  %-6s  %-3s  attempts=%d  %s\n",
			r.CreatedAt.Format(time.RFC3339), r.RunID, status, r.PromptVersion, r.Attempts, r.Identifier)
	}
	return nil
}
