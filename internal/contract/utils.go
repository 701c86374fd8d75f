package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/deeptime/schema"
	"github.com/mattn/go-runewidth"
)

// Color variables for console output.
var (
	EpochalColor = color.New(color.FgRed, color.Bold)     // EpochalColor marks turning points of deep time.
	MajorColor   = color.New(color.FgMagenta, color.Bold) // MajorColor marks strong, distinct events.
	NotableColor = color.New(color.FgYellow)              // NotableColor is not bold.
	MinorColor   = color.New(color.FgCyan)                // MinorColor is informational.
)

// GetColorLabel returns a colored significance label for console output (table).
// It uses schema.GetSignificanceLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(significance int) string {
	text := schema.GetSignificanceLabel(significance)

	switch {
	case significance >= 9:
		return EpochalColor.Sprint(text)
	case significance >= 7:
		return MajorColor.Sprint(text)
	case significance >= 4:
		return NotableColor.Sprint(text)
	default:
		return MinorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for event storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".deeptime_events.db"
	}
	return filepath.Join(homeDir, ".deeptime_events.db")
}

// TruncateLabel shortens a label to maxWidth terminal cells with a trailing ellipsis.
// Wide runes count as two cells.
func TruncateLabel(label string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(label) <= maxWidth {
		return label
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(label, maxWidth, "")
	}
	return runewidth.Truncate(label, maxWidth, "...")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
