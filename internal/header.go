// Package internal has the headers printed ahead of command results.
package internal

import (
	"fmt"
	"io"

	"github.com/huangsam/deeptime/internal/contract"
)

// LogRenderHeader prints which events feed a render and the window being drawn.
func LogRenderHeader(w io.Writer, cfg *contract.Config, source string, count int) {
	// Line 1: where the events came from
	_, _ = fmt.Fprintf(w, "🔎 Events: %d from %s\n", count, source)

	// Line 2: the window being drawn
	_, _ = fmt.Fprintf(w, "📅 Range: %s → %s\n", cfg.Start, cfg.End)
}

// LogReloadHeader prints a header for a watch reload.
func LogReloadHeader(w io.Writer, path string, generation int) {
	_, _ = fmt.Fprintf(w, "🔁 Reload %d: %s\n", generation, path)
}
