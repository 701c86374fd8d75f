package cmd

import (
	"github.com/huangsam/deeptime/core"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/spf13/cobra"
)

// convertCmd parses time strings and describes them.
var convertCmd = &cobra.Command{
	Use:   "convert <time> [time...]",
	Short: "Parse time strings and show their precision, year and distance from now.",
	Long: `Parse each argument and print its precision (calendar or magnitude), year,
minutes since the Unix epoch, ISO form, relative phrase and log distance from --reference.

Accepted forms: "now", a year ("2023", "-1.23e6"), an era year ("1000 BC", "AD 1066"),
ISO-8601 ("1969-07-20T20:17:40Z", "2024-03-10T12:00[Europe/Paris]") and
relative offsets ("13.8 billion years ago", "3 days ago").

Examples:
  deeptime convert "66 million years ago" "1000 BC" 1969-07-20
  deeptime convert now --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteConvert(rootCtx, cfg, args); err != nil {
			contract.LogFatal("Cannot convert times", err)
		}
	},
}
