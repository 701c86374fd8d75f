package timeline

import (
	"math"

	"github.com/huangsam/deeptime/core/deeptime"
)

// PixelPosition maps t to [0, PixelWidth]. The left edge maps to 0 and the right
// edge to PixelWidth; times outside the view clamp to the nearest edge.
func (tl *LogTimeline) PixelPosition(t deeptime.Time) float64 {
	anchor, lLeft, lRight := tl.logBounds()
	span := lLeft - lRight
	if !(span > 0) {
		switch {
		case t.Before(tl.leftmost):
			return 0
		case t.After(tl.rightmost):
			return tl.pixelWidth
		default:
			return tl.pixelWidth / 2
		}
	}
	x := tl.pixelWidth * (lLeft - t.ToLog(anchor)) / span
	return math.Min(tl.pixelWidth, math.Max(0, x))
}

// TimeAtPixel inverts PixelPosition. Pixels outside the view clamp to the edges.
func (tl *LogTimeline) TimeAtPixel(x float64) deeptime.Time {
	switch {
	case math.IsNaN(x), x <= 0:
		return tl.leftmost
	case x >= tl.pixelWidth:
		return tl.rightmost
	}
	anchor, lLeft, lRight := tl.logBounds()
	span := lLeft - lRight
	if !(span > 0) {
		return tl.leftmost
	}
	return deeptime.FromLog(lLeft-x/tl.pixelWidth*span, anchor)
}

// PanToPosition moves the view so t lands on pixel, keeping the log span.
// The right edge never moves later than the reference or its current position,
// whichever is later, and the left edge stops at the oldest supported instant.
func (tl *LogTimeline) PanToPosition(t deeptime.Time, pixel float64) {
	_, lLeft, lRight := tl.logBounds()
	span := lLeft - lRight
	frac := clampFraction(pixel / tl.pixelWidth)
	ref := *tl.reference

	var left, right deeptime.Time
	if a := ref.Since(t); a >= 0 && math.Log1p(a) >= (1-frac)*span {
		// the right edge stays at or before the reference, which remains the anchor
		l := math.Log1p(a) + frac*span
		left, right = deeptime.FromLog(l, ref), deeptime.FromLog(l-span, ref)
	} else {
		// the right edge lands past the reference and anchors the view itself
		right = offset(t, math.Expm1((1-frac)*span))
		left = offset(right, -math.Expm1(span))
	}

	if ceiling := tl.rightLimit(); right.After(ceiling) {
		right, left = ceiling, deeptime.FromLog(span, ceiling)
	}
	if limit := tl.leftLimit(); left.Before(limit) {
		anchor := latest(ref, right)
		left = limit
		right = deeptime.FromLog(math.Max(0, limit.ToLog(anchor)-span), anchor)
	}
	tl.leftmost, tl.rightmost = left, right
	tl.notify()
}

// ZoomAroundPixel scales the time span by 1/factor while the time under pixel stays put.
// factor > 1 zooms in. A zoom that would narrow the view below MinSpanMinutes is ignored.
// Zooming out never pushes the right edge later than the reference or its current
// position; the span is then kept and the left edge stops at the oldest instant.
func (tl *LogTimeline) ZoomAroundPixel(factor, pixel float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return ErrInvalidZoomFactor
	}
	span := tl.TimeSpanMinutes() / factor
	if !(span > 0) || (span < MinSpanMinutes && factor > 1) {
		return nil
	}
	frac := clampFraction(pixel / tl.pixelWidth)
	left, right := tl.solveZoom(tl.TimeAtPixel(frac*tl.pixelWidth), frac, span)

	if ceiling := tl.rightLimit(); right.After(ceiling) {
		right = ceiling
		left = offset(ceiling, -span)
	}
	if limit := tl.leftLimit(); left.Before(limit) {
		left = limit
	}
	tl.leftmost, tl.rightmost = left, right
	tl.notify()
	return nil
}

// solveZoom returns the edges of a view span minutes wide that puts under at
// fraction frac of the width.
func (tl *LogTimeline) solveZoom(under deeptime.Time, frac, span float64) (left, right deeptime.Time) {
	ref := *tl.reference
	a := ref.Since(under)
	lSpan := math.Log1p(span)
	if a < 0 || math.Log1p(a) < (1-frac)*lSpan {
		// the right edge lands past the reference and anchors the view itself
		right = offset(under, math.Expm1((1-frac)*lSpan))
		return offset(right, -span), right
	}

	// With the reference as anchor, find e, the minutes from the right edge to the
	// reference. g is increasing in e, non-positive at lo and non-negative at hi.
	la := math.Log1p(a)
	g := func(e float64) float64 {
		return (1-frac)*math.Log1p(e+span) + frac*math.Log1p(e) - la
	}
	lo, hi := math.Max(0, a-span), a
	for range 200 {
		mid := lo + (hi-lo)/2
		if mid <= lo || mid >= hi {
			break
		}
		if g(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	e := lo
	if math.Abs(g(hi)) < math.Abs(g(lo)) {
		e = hi
	}
	right = offset(ref, -e)
	return offset(right, -span), right
}

// Shift moves both endpoints by years (negative moves into the past).
func (tl *LogTimeline) Shift(years float64) error {
	left, err := tl.leftmost.AddYears(years)
	if err != nil {
		return err
	}
	right, err := tl.rightmost.AddYears(years)
	if err != nil {
		return err
	}
	return tl.SetEndpoints(left, right)
}

// rightLimit is the latest right edge a pan or zoom may produce.
func (tl *LogTimeline) rightLimit() deeptime.Time {
	return latest(*tl.reference, tl.rightmost)
}

// leftLimit is the oldest supported instant, or the current left edge if that is older.
func (tl *LogTimeline) leftLimit() deeptime.Time {
	if oldest := deeptime.Oldest(); tl.leftmost.After(oldest) {
		return oldest
	}
	return tl.leftmost
}

func latest(a, b deeptime.Time) deeptime.Time {
	if b.After(a) {
		return b
	}
	return a
}

// offset returns t moved by minutes; negative values move into the past.
func offset(t deeptime.Time, minutes float64) deeptime.Time {
	out, err := t.Add(deeptime.Duration{Minutes: minutes})
	if err != nil {
		return t
	}
	return out
}

func clampFraction(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Min(1, math.Max(0, f))
}
