// clinicalflow runs the self-correcting clinical analysis pipeline.
//
// Usage:
//
//	clinicalflow run [--config config.yaml] [--prompt v2]   # batch over the input directory
//	clinicalflow interactive [--prompt v1]                  # one narrative per line from stdin
//	clinicalflow history [run-id] [--limit 20]              # list persisted results
//	clinicalflow version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Build information, injected with -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	prompt     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "clinicalflow",
		Short: "Self-correcting clinical analysis pipeline backed by Gemini",
		Long: `clinicalflow sends patient narratives to Gemini, validates each response
against the clinical output contract and asks the model to correct itself
until the response conforms or the retry limit is reached.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config file (YAML)")
	pf.StringVarP(&flags.prompt, "prompt", "p", "", "Prompt variant: v0, v1 or v2 (default from config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(flags),
		newInteractiveCmd(flags),
		newHistoryCmd(flags),
		newVersionCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
