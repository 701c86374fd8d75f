// Package core has core logic for rendering timelines and orchestrating event sources.
package core

import (
	"context"
	"math"
	"sort"

	"github.com/huangsam/deeptime/core/spatial"
	"github.com/huangsam/deeptime/core/timeline"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
)

// FilterEvents keeps the events passing filter, in their original order.
func FilterEvents(events []schema.Event, filter schema.EventFilter) []schema.Event {
	out := make([]schema.Event, 0, len(events))
	for i := range events {
		if filter.Matches(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

// BuildVisibleEvents places the filtered events inside the viewport and declutters them.
// Events are indexed by position, then significance (highest first), then name.
// It returns the index and the number of pushed clusters.
func BuildVisibleEvents(tl *timeline.LogTimeline, events []schema.Event, filter schema.EventFilter, opts spatial.Options) (*spatial.RangeQueryableEvents, int) {
	left, right := tl.Leftmost(), tl.Rightmost()
	var visible []*schema.VisibleEvent
	for i := range events {
		e := &events[i]
		if !filter.Matches(e) || e.Date.Before(left) || e.Date.After(right) {
			continue
		}
		x := tl.PixelPosition(e.Date)
		if math.IsNaN(x) {
			continue
		}
		visible = append(visible, &schema.VisibleEvent{X: x, Event: e})
	}
	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Event.Significance != b.Event.Significance {
			return a.Event.Significance > b.Event.Significance
		}
		return a.Event.Name < b.Event.Name
	})

	idx := spatial.NewRangeQueryableEvents()
	idx.AddAll(visible)
	pushed := spatial.PushClustersForVisibility(idx, opts)
	return idx, pushed
}

// NewTimeline builds the viewport described by cfg.
func NewTimeline(cfg *contract.Config) (*timeline.LogTimeline, error) {
	return timeline.New(cfg.Width, cfg.Start, cfg.End, timeline.WithReference(cfg.Reference))
}

// Render draws one frame: ticks plus decluttered events.
func Render(ctx context.Context, cfg *contract.Config, events []schema.Event) (*schema.RenderResult, error) {
	tl, err := NewTimeline(cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ticks := tl.GenerateLogTicks(cfg.MaxTicks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, pushed := BuildVisibleEvents(tl, events, cfg.Filter, cfg.Declutter)

	items := idx.Items()
	placed := make([]schema.VisibleEvent, len(items))
	for i, ve := range items {
		placed[i] = *ve
	}
	return &schema.RenderResult{
		Width:          tl.PixelWidth(),
		Leftmost:       tl.Leftmost(),
		Rightmost:      tl.Rightmost(),
		Reference:      tl.Reference(),
		TimeSpanYears:  tl.TimeSpan(),
		Ticks:          ticks,
		Events:         placed,
		PushedClusters: pushed,
	}, nil
}
