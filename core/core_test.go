package core

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/core/spatial"
	"github.com/huangsam/deeptime/core/timeline"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var referenceInstant = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

// testConfig returns a validated-looking config for the years 1000 to 2000.
func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Width:         1000,
		Start:         deeptime.FromYear(1000),
		End:           deeptime.FromYear(2000),
		Reference:     deeptime.FromYear(2000),
		MaxTicks:      contract.DefaultMaxTicks,
		Filter:        schema.EventFilter{MinSignificance: 1},
		Declutter:     spatial.DefaultOptions(),
		Output:        schema.JSONOut,
		Precision:     contract.DefaultPrecision,
		Locale:        language.English,
		TerminalWidth: 120,
		EventsBackend: schema.NoneBackend,
		Debounce:      20 * time.Millisecond,
	}
}

func event(name string, year float64, significance int, categories ...string) schema.Event {
	return schema.Event{Name: name, Date: deeptime.FromYear(year), Significance: significance, Categories: categories}
}

func eventNames(items []*schema.VisibleEvent) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Event.Name
	}
	return out
}

func TestFilterEvents(t *testing.T) {
	events := []schema.Event{
		event("Pyramids", -2560, 7, "history"),
		event("Comet", 1910, 3, "space"),
		event("Printing press", 1440, 8, "History", "technology"),
	}

	tests := []struct {
		name   string
		filter schema.EventFilter
		want   []string
	}{
		{"no filter", schema.EventFilter{}, []string{"Pyramids", "Comet", "Printing press"}},
		{"significance floor", schema.EventFilter{MinSignificance: 5}, []string{"Pyramids", "Printing press"}},
		{"category any-of", schema.EventFilter{Categories: []string{"SPACE", "technology"}}, []string{"Comet", "Printing press"}},
		{"nothing matches", schema.EventFilter{Categories: []string{"music"}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEvents(events, tt.filter)
			names := make([]string, len(got))
			for i := range got {
				names[i] = got[i].Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestBuildVisibleEvents(t *testing.T) {
	tl, err := timeline.New(1000, deeptime.FromYear(1000), deeptime.FromYear(2000),
		timeline.WithReference(deeptime.FromYear(2000)))
	require.NoError(t, err)

	events := []schema.Event{
		event("Beta", 1500, 5),
		event("Recent", 1990, 5),
		event("Zeta", 1500, 9),
		event("Too early", 500, 9),
		event("Too late", 2010, 9),
		event("Minor", 1700, 1),
		event("Alpha", 1500, 5),
	}
	idx, pushed := BuildVisibleEvents(tl, events, schema.EventFilter{MinSignificance: 2}, spatial.DefaultOptions())

	items := idx.Items()
	assert.Equal(t, []string{"Zeta", "Alpha", "Beta", "Recent"}, eventNames(items))
	assert.Equal(t, 1, pushed)

	// same-pixel cluster rises with rank from the right
	assert.Equal(t, 28.0, items[0].Y)
	assert.Equal(t, 14.0, items[1].Y)
	assert.Equal(t, 0.0, items[2].Y)
	assert.Equal(t, 0.0, items[3].Y)

	for _, it := range items {
		assert.GreaterOrEqual(t, it.X, 0.0)
		assert.LessOrEqual(t, it.X, 1000.0)
	}
	assert.Less(t, items[0].X, items[3].X)
}

func TestBuildVisibleEventsEmpty(t *testing.T) {
	tl, err := timeline.New(500, deeptime.FromYear(1000), deeptime.FromYear(2000))
	require.NoError(t, err)

	idx, pushed := BuildVisibleEvents(tl, nil, schema.EventFilter{}, spatial.DefaultOptions())
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, pushed)
}

func TestRender(t *testing.T) {
	cfg := testConfig(t)
	events := []schema.Event{
		event("Magna Carta", 1215, 7, "history"),
		event("Columbus", 1492, 8, "history"),
		event("Outside", 2100, 8),
	}

	result, err := Render(context.Background(), cfg, events)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, result.Width)
	assert.True(t, result.Leftmost.Equal(cfg.Start))
	assert.True(t, result.Rightmost.Equal(cfg.End))
	assert.InDelta(t, 1000, result.TimeSpanYears, 1e-2)
	require.NotEmpty(t, result.Ticks)
	assert.LessOrEqual(t, len(result.Ticks), cfg.MaxTicks)
	require.Len(t, result.Events, 2)
	assert.Equal(t, "Magna Carta", result.Events[0].Event.Name)
	assert.Equal(t, "Columbus", result.Events[1].Event.Name)
}

func TestRenderErrors(t *testing.T) {
	t.Run("invalid width", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Width = 0
		_, err := Render(context.Background(), cfg, nil)
		var widthErr *timeline.InvalidWidthError
		assert.ErrorAs(t, err, &widthErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Render(ctx, testConfig(t), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewTimelineUsesReference(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reference = deeptime.FromTime(referenceInstant)
	cfg.End = cfg.Reference

	tl, err := NewTimeline(cfg)
	require.NoError(t, err)
	assert.True(t, tl.Reference().Equal(cfg.Reference))
	assert.Equal(t, cfg.Width, tl.PixelWidth())
}
