package cmd

import (
	"github.com/huangsam/deeptime/core"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/eventstore"
	"github.com/spf13/cobra"
)

// ticksCmd prints the axis ticks only.
var ticksCmd = &cobra.Command{
	Use:   "ticks",
	Short: "Print the labelled axis ticks of the viewport.",
	Long: `Generate at most --max-ticks labelled ticks for the viewport.

Ticks prefer round intervals (1, 2 and 5 times a power of ten, or a nice
sub-year unit) measured back from now, and never share a pixel.

Examples:
  # Ticks from the Big Bang to now
  deeptime ticks

  # A dozen ticks for the last week as CSV
  deeptime ticks --start "7 days ago" --max-ticks 12 --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTicks(rootCtx, cfg, eventstore.Manager.GetEventStore()); err != nil {
			contract.LogFatal("Cannot generate ticks", err)
		}
	},
}
