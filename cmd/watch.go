package cmd

import (
	"os/signal"
	"syscall"

	"github.com/huangsam/deeptime/core"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/spf13/cobra"
)

// watchCmd re-renders whenever the events file changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the timeline whenever the events file changes.",
	Long: `Render the --events file, then watch it and render again after every
content change. Bursts of writes within --debounce collapse into one reload.
A file that fails to load renders the built-in events until it is fixed.

If the view ends at now, each reload moves the right edge to the current instant.
Stop with Ctrl-C.

Examples:
  deeptime watch --events my-events.yaml
  deeptime watch --events my-events.csv --debounce 1s --output json --output-file frame.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := core.ExecuteWatch(ctx, cfg); err != nil {
			contract.LogFatal("Cannot watch events", err)
		}
	},
}
