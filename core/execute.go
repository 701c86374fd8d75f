package core

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/core/timeline"
	"github.com/huangsam/deeptime/internal"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/outwriter"
	"github.com/huangsam/deeptime/schema"
)

// ExecutorFunc defines the function signature for the render-style commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, store contract.EventStore) error

// GetRenderResults loads events and renders one frame without writing it.
func GetRenderResults(ctx context.Context, cfg *contract.Config, store contract.EventStore) (*schema.RenderResult, error) {
	events, source, err := LoadTimelineEvents(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	return renderEvents(ctx, cfg, events, source)
}

func renderEvents(ctx context.Context, cfg *contract.Config, events []schema.Event, source string) (*schema.RenderResult, error) {
	if !shouldSuppressHeader(ctx) {
		internal.LogRenderHeader(os.Stderr, cfg, source, len(events))
	}
	return Render(ctx, cfg, events)
}

// ExecuteRender renders the configured viewport and prints it.
// It serves as the main entry point for the 'render' command.
func ExecuteRender(ctx context.Context, cfg *contract.Config, store contract.EventStore) error {
	result, err := GetRenderResults(ctx, cfg, store)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRender(result, cfg)
}

// ExecuteTicks prints the axis ticks of the configured viewport.
func ExecuteTicks(ctx context.Context, cfg *contract.Config, _ contract.EventStore) error {
	tl, err := NewTimeline(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	result := &schema.RenderResult{
		Width:         tl.PixelWidth(),
		Leftmost:      tl.Leftmost(),
		Rightmost:     tl.Rightmost(),
		Reference:     tl.Reference(),
		TimeSpanYears: tl.TimeSpan(),
		Ticks:         tl.GenerateLogTicks(cfg.MaxTicks),
	}
	return outwriter.NewOutWriter().WriteTicks(result, cfg)
}

// ConvertTime parses input and describes it relative to ref.
func ConvertTime(input string, ref deeptime.Time, cfg *contract.Config) (schema.ConvertResult, error) {
	t, err := deeptime.Parse(input)
	if err != nil {
		return schema.ConvertResult{}, err
	}
	label := schema.MagnitudeLabel
	if t.IsCalendar() {
		label = schema.CalendarLabel
	}
	return schema.ConvertResult{
		Input:     input,
		Precision: label,
		Year:      t.Year(),
		Minutes:   t.Minutes(),
		ISO:       t.String(),
		Relative:  t.RelativeString(ref),
		Locale:    t.LocaleString(cfg.Locale),
		Log:       t.ToLog(ref),
	}, nil
}

// ExecuteConvert parses every input and prints the conversions.
func ExecuteConvert(_ context.Context, cfg *contract.Config, inputs []string) error {
	results := make([]schema.ConvertResult, 0, len(inputs))
	for _, in := range inputs {
		r, err := ConvertTime(in, cfg.Reference, cfg)
		if err != nil {
			return fmt.Errorf("cannot convert %q: %w", in, err)
		}
		results = append(results, r)
	}
	return outwriter.NewOutWriter().WriteConvert(results, cfg)
}

// PixelLookups maps each pixel to the time under it.
func PixelLookups(tl *timeline.LogTimeline, pixels []float64) []schema.PixelResult {
	results := make([]schema.PixelResult, len(pixels))
	for i, x := range pixels {
		t := tl.TimeAtPixel(x)
		results[i] = schema.PixelResult{Pixel: x, Time: t, Relative: t.RelativeString(tl.Anchor())}
	}
	return results
}

// ExecutePixels prints the time under each pixel of the configured viewport.
func ExecutePixels(_ context.Context, cfg *contract.Config, pixels []float64) error {
	tl, err := NewTimeline(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePixels(PixelLookups(tl, pixels), cfg)
}
