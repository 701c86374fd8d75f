// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRender prints a rendered viewport using the configured output format.
func (ow *OutWriter) WriteRender(result *schema.RenderResult, cfg *contract.Config) error {
	return PrintRenderResult(result, cfg)
}

// WriteTicks prints axis ticks using the configured output format.
func (ow *OutWriter) WriteTicks(result *schema.RenderResult, cfg *contract.Config) error {
	return PrintTicks(result, cfg)
}

// WriteConvert prints parsed time values using the configured output format.
func (ow *OutWriter) WriteConvert(results []schema.ConvertResult, cfg *contract.Config) error {
	return PrintConvertResults(results, cfg)
}

// WritePixels prints pixel lookups using the configured output format.
func (ow *OutWriter) WritePixels(results []schema.PixelResult, cfg *contract.Config) error {
	return PrintPixelResults(results, cfg)
}
