package cmd

import (
	"fmt"
	"strconv"

	"github.com/huangsam/deeptime/core"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/spf13/cobra"
)

// parsePixels reads the pixel arguments.
func parsePixels(args []string) ([]float64, error) {
	pixels := make([]float64, len(args))
	for i, a := range args {
		x, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid pixel %q: %w", a, err)
		}
		pixels[i] = x
	}
	return pixels, nil
}

// pixelCmd looks up the time under pixels.
var pixelCmd = &cobra.Command{
	Use:   "pixel <x> [x...]",
	Short: "Show the time under each pixel of the viewport.",
	Long: `Invert the logarithmic mapping: print the time under each horizontal pixel.
Pixels outside [0, --width] clamp to the edges of the viewport.

Examples:
  # What is halfway across the default 1200px view?
  deeptime pixel 600

  # Several pixels of the last million years
  deeptime pixel 0 300 900 1200 --start "1 million years ago"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		pixels, err := parsePixels(args)
		if err != nil {
			contract.LogFatal("Cannot read pixels", err)
		}
		if err := core.ExecutePixels(rootCtx, cfg, pixels); err != nil {
			contract.LogFatal("Cannot look up pixels", err)
		}
	},
}
