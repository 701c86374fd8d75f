package timeline

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(ticks []schema.Tick) []string {
	out := make([]string, len(ticks))
	for i, tk := range ticks {
		out[i] = tk.Label
	}
	return out
}

func assertTickInvariants(t *testing.T, tl *LogTimeline, ticks []schema.Tick, maxTicks int) {
	t.Helper()
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, len(ticks), max(1, maxTicks))
	minSpacing := math.Max(1, tl.PixelWidth()/float64(max(1, maxTicks)))
	seen := map[int64]bool{}
	for i, tk := range ticks {
		assert.GreaterOrEqual(t, tk.Position, 0.0)
		assert.LessOrEqual(t, tk.Position, tl.PixelWidth())
		assert.NotEmpty(t, tk.Label)
		r := int64(math.Round(tk.Position))
		assert.False(t, seen[r], "two ticks round to pixel %d", r)
		seen[r] = true
		if i > 0 {
			assert.GreaterOrEqual(t, tk.Position-ticks[i-1].Position, minSpacing)
		}
	}
}

func TestGenerateLogTicksFullRange(t *testing.T) {
	tl := newFixed(t, 800, 13.8e9, 0)
	ticks := tl.GenerateLogTicks(10)
	assertTickInvariants(t, tl, ticks, 10)
	assert.GreaterOrEqual(t, len(ticks), 5)

	all := strings.Join(labels(ticks), "|")
	assert.Contains(t, all, "million years ago")
	assert.Contains(t, all, "billion years ago")
	assert.Equal(t, "now", ticks[len(ticks)-1].Label)
	assert.Equal(t, 800.0, ticks[len(ticks)-1].Position)
}

func TestGenerateLogTicksMinutes(t *testing.T) {
	ref := deeptime.FromTime(referenceInstant)
	tl, err := New(800, deeptime.FromTime(referenceInstant.Add(-5*time.Minute)), ref, WithReference(ref))
	require.NoError(t, err)

	ticks := tl.GenerateLogTicks(10)
	assertTickInvariants(t, tl, ticks, 10)
	assert.Equal(t, []string{"5 minutes ago", "2 minutes ago", "1 minute ago", "now"}, labels(ticks))
}

func TestGenerateLogTicksLinearFallback(t *testing.T) {
	t.Run("narrow window in deep time", func(t *testing.T) {
		tl := newFixed(t, 800, 65.5e6, 65e6)
		ticks := tl.GenerateLogTicks(6)
		assertTickInvariants(t, tl, ticks, 6)
		assert.Equal(t, []string{
			"65.5 million years ago",
			"65.4 million years ago",
			"65.3 million years ago",
			"65.2 million years ago",
			"65.1 million years ago",
			"65.0 million years ago",
		}, labels(ticks))
	})

	t.Run("minutes wide a thousand years ago", func(t *testing.T) {
		tl := newFixed(t, 800, 1000+3/deeptime.MinutesPerYear, 1000)
		ticks := tl.GenerateLogTicks(4)
		assertTickInvariants(t, tl, ticks, 4)
		assert.GreaterOrEqual(t, len(ticks), 2)
		distinct := map[string]bool{}
		for _, l := range labels(ticks) {
			assert.Len(t, l, len("2006-01-02 15:04:05"), l)
			distinct[l] = true
		}
		assert.Len(t, distinct, len(ticks))
	})
}

func TestGenerateLogTicksAlwaysNonEmpty(t *testing.T) {
	ref := deeptime.FromTime(referenceInstant)
	point := deeptime.FromYear(1990)
	degenerate, err := New(800, point, point, WithReference(ref))
	require.NoError(t, err)

	views := map[string]*LogTimeline{
		"full":       newFixed(t, 800, 13.8e9, 0),
		"oldest":     newFixed(t, 1920, 1e12, 0),
		"historical": newFixed(t, 800, 1e6, 10),
		"deep slice": newFixed(t, 640, 65.5e6, 65e6),
		"one day":    newFixed(t, 800, 1/deeptime.DaysPerYear, 0),
		"degenerate": degenerate,
	}
	for name, tl := range views {
		for _, maxTicks := range []int{-3, 0, 1, 3, 10, 25} {
			ticks := tl.GenerateLogTicks(maxTicks)
			assertTickInvariants(t, tl, ticks, maxTicks)
			if maxTicks <= 1 {
				assert.Len(t, ticks, 1, "%s maxTicks %d", name, maxTicks)
			}
		}
	}
}

func TestNiceCeil(t *testing.T) {
	tests := map[float64]float64{0.3: 0.5, 0.5: 0.5, 1: 1, 1.2: 2, 3: 5, 7: 10, 83333: 1e5, 1e-3: 1e-3}
	for in, want := range tests {
		assert.InDelta(t, want, niceCeil(in), want*1e-12, "niceCeil(%v)", in)
	}
}

func TestDecimalsFor(t *testing.T) {
	assert.Equal(t, 0, decimalsFor(5))
	assert.Equal(t, 1, decimalsFor(0.1))
	assert.Equal(t, 1, decimalsFor(0.5))
	assert.Equal(t, 2, decimalsFor(0.05))
	assert.Equal(t, 3, decimalsFor(0.001))
}
