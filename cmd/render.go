package cmd

import (
	"github.com/huangsam/deeptime/core"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/eventstore"
	"github.com/spf13/cobra"
)

// renderCmd draws one frame of the timeline.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the timeline axis and the visible events.",
	Long: `Render one frame of the logarithmic timeline.

Maps every event inside [--start, --end] to a pixel, lifts small clusters of
overlapping labels so they stay readable, and prints ticks plus events.

Events come from --events when given, otherwise from a populated event store
(--events-backend), otherwise from the built-in set.

Examples:
  # The whole history of the universe on a 1200px axis
  deeptime render

  # The last ten thousand years, history only
  deeptime render --start "10000 years ago" --categories history

  # Your own events as JSON for a drawing layer
  deeptime render --events my-events.yaml --output json --output-file frame.json

  # Events and ticks as Parquet (frame.parquet and frame.ticks.parquet)
  deeptime render --output parquet --output-file frame.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, eventstore.Manager.GetEventStore()); err != nil {
			contract.LogFatal("Cannot render timeline", err)
		}
	},
}
