package outwriter

import (
	"os"

	"github.com/huangsam/deeptime/internal/contract"
	"golang.org/x/term"
)

// fallbackTerminalWidth is used when the terminal size can't be detected.
const fallbackTerminalWidth = 80 // Conservative default for narrow terminals and CI

// GetTerminalWidth returns the override from config, the detected terminal
// width, or a conservative fallback.
func GetTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.TerminalWidth > 0 {
		return cfg.TerminalWidth
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return fallbackTerminalWidth
	}
	return detectedWidth
}

// GetMaxTableLabelWidth calculates the maximum width for event names in table output
// based on terminal width and table configuration.
func GetMaxTableLabelWidth(cfg *contract.Config) int {
	// Reserve space for X + Y + Date + Significance + Categories with borders/padding
	baseWidth := 80

	available := GetTerminalWidth(cfg) - baseWidth
	if available < 15 {
		// Minimum reasonable label width
		return 15
	}
	if available > 60 {
		// Maximum label width to prevent overly wide tables
		return 60
	}
	return available
}
