package timeline

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceInstant = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a controllable clock for reset tests.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() deeptime.Time { return deeptime.FromTime(c.now) }

func yearsBefore(ref deeptime.Time, years float64) deeptime.Time {
	return deeptime.FromMinutes(ref.Minutes() - years*deeptime.MinutesPerYear)
}

// newFixed builds a timeline whose reference and clock are pinned to referenceInstant.
func newFixed(t *testing.T, width float64, leftYearsAgo, rightYearsAgo float64, opts ...Option) *LogTimeline {
	t.Helper()
	ref := deeptime.FromTime(referenceInstant)
	clock := &fakeClock{now: referenceInstant}
	right := ref
	if rightYearsAgo > 0 {
		right = yearsBefore(ref, rightYearsAgo)
	}
	opts = append([]Option{WithReference(ref), WithClock(clock.Now)}, opts...)
	tl, err := New(width, yearsBefore(ref, leftYearsAgo), right, opts...)
	require.NoError(t, err)
	return tl
}

func TestNewValidation(t *testing.T) {
	now := deeptime.FromTime(referenceInstant)
	past := deeptime.FromYear(-999)

	for _, w := range []float64{0, -800, math.NaN(), math.Inf(1)} {
		_, err := New(w, past, now)
		var widthErr *InvalidWidthError
		require.True(t, errors.As(err, &widthErr), "width %v", w)
	}

	_, err := New(800, now, past)
	var orderErr *InvalidOrderError
	require.True(t, errors.As(err, &orderErr))
	assert.True(t, orderErr.Left.Equal(now))

	tl, err := New(800, now, now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tl.TimeSpanMinutes())
}

func TestNewFromSpecs(t *testing.T) {
	yearsAgo, zero := 1000.0, 0.0
	tl, err := NewFromSpecs(800, deeptime.Spec{YearsAgo: &yearsAgo}, deeptime.Spec{YearsAgo: &zero})
	require.NoError(t, err)

	now := deeptime.Now()
	assert.InDelta(t, 1000, now.Since(tl.TimeAtPixel(0))/deeptime.MinutesPerYear, 1e-6)
	assert.True(t, tl.TimeAtPixel(800).Equal(now))
	assert.InDelta(t, 1000, tl.TimeSpan(), 1e-6)

	tl, err = NewFromSpecs(400, "1000 BC", nil)
	require.NoError(t, err)
	assert.InDelta(t, -999, tl.Leftmost().Year(), 1e-9)

	fixed := deeptime.FromYear(2000)
	tl, err = NewFromSpecs(400, &fixed, "2020-01-01")
	require.NoError(t, err)
	assert.True(t, tl.Leftmost().Equal(fixed))

	_, err = NewFromSpecs(400, "not a date", nil)
	var parseErr *deeptime.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, err.Error(), "leftmost")

	_, err = NewFromSpecs(400, nil, 42)
	assert.ErrorContains(t, err, "unsupported endpoint type int")
}

func TestAccessorsAndClone(t *testing.T) {
	tl := newFixed(t, 800, 1e6, 0)
	assert.Equal(t, 800.0, tl.PixelWidth())
	assert.True(t, tl.Reference().Equal(deeptime.FromTime(referenceInstant)))
	assert.True(t, tl.Anchor().Equal(tl.Reference()))
	assert.InDelta(t, 1e6, tl.TimeSpan(), 1e-3)

	left, right := tl.Leftmost(), tl.Rightmost()
	c := tl.Clone()
	require.NoError(t, c.Shift(-10))
	assert.True(t, tl.Leftmost().Equal(left))
	assert.True(t, tl.Rightmost().Equal(right))
	assert.False(t, c.Rightmost().Equal(right))
}

func TestAnchorFollowsFutureRightEdge(t *testing.T) {
	ref := deeptime.FromTime(referenceInstant)
	future := deeptime.FromTime(referenceInstant.Add(48 * time.Hour))
	tl, err := New(800, deeptime.FromYear(2000), future, WithReference(ref))
	require.NoError(t, err)
	assert.True(t, tl.Anchor().Equal(future))
	assert.Equal(t, 800.0, tl.PixelPosition(future))
	assert.Less(t, tl.PixelPosition(ref), 800.0)
}

func TestSettersValidateAndNotify(t *testing.T) {
	calls := 0
	tl := newFixed(t, 800, 1000, 0, WithOnChange(func(*LogTimeline) { calls++ }))

	var widthErr *InvalidWidthError
	require.True(t, errors.As(tl.SetPixelWidth(0), &widthErr))
	assert.Equal(t, 0, calls)

	require.NoError(t, tl.SetPixelWidth(1200))
	assert.Equal(t, 1200.0, tl.PixelWidth())
	assert.Equal(t, 1, calls)

	var orderErr *InvalidOrderError
	require.True(t, errors.As(tl.SetEndpoints(tl.Rightmost(), tl.Leftmost()), &orderErr))
	assert.Equal(t, 1, calls)

	left := deeptime.FromYear(-5e6)
	require.NoError(t, tl.SetEndpoints(left, tl.Rightmost()))
	assert.True(t, tl.Leftmost().Equal(left))
	assert.Equal(t, 2, calls)
}

func TestResetRightmostToNow(t *testing.T) {
	t.Run("tracking view follows the clock", func(t *testing.T) {
		clock := &fakeClock{now: referenceInstant}
		calls := 0
		ref := deeptime.FromTime(referenceInstant)
		tl, err := New(800, yearsBefore(ref, 1), ref,
			WithClock(clock.Now), WithOnChange(func(*LogTimeline) { calls++ }))
		require.NoError(t, err)

		clock.now = referenceInstant.Add(10 * time.Minute)
		assert.True(t, tl.ResetRightmostToNow())
		assert.True(t, tl.Rightmost().Equal(clock.Now()))
		assert.True(t, tl.Reference().Equal(clock.Now()))
		assert.Equal(t, 1, calls)
	})

	t.Run("historical view stays put", func(t *testing.T) {
		clock := &fakeClock{now: referenceInstant}
		calls := 0
		ref := deeptime.FromTime(referenceInstant)
		right := yearsBefore(ref, 10)
		tl, err := New(800, yearsBefore(ref, 1000), right,
			WithClock(clock.Now), WithOnChange(func(*LogTimeline) { calls++ }))
		require.NoError(t, err)

		clock.now = referenceInstant.Add(time.Hour)
		assert.False(t, tl.ResetRightmostToNow())
		assert.True(t, tl.Rightmost().Equal(right))
		assert.True(t, tl.Reference().Equal(clock.Now()), "reference always advances")
		assert.Equal(t, 1, calls, "a moved reference shifts every pixel")
	})

	t.Run("unchanged clock is silent", func(t *testing.T) {
		clock := &fakeClock{now: referenceInstant}
		calls := 0
		ref := deeptime.FromTime(referenceInstant)
		tl, err := New(800, yearsBefore(ref, 1000), yearsBefore(ref, 10),
			WithClock(clock.Now), WithOnChange(func(*LogTimeline) { calls++ }))
		require.NoError(t, err)

		assert.False(t, tl.ResetRightmostToNow())
		assert.Equal(t, 0, calls)
	})
}
