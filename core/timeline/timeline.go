// Package timeline maps between pixels and deep time on a logarithmic viewport.
//
// Pixel distance is proportional to log1p(minutes before the anchor), where the anchor
// is the later of the reference instant and the right edge. Recent time is expanded
// and ancient time compressed.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/deeptime/core/deeptime"
)

const (
	// MinSpanMinutes is the narrowest view a zoom may produce.
	MinSpanMinutes = 1.0

	// TrackingTolerance is how close, in minutes, the right edge must be to now
	// for ResetRightmostToNow to keep following the present.
	TrackingTolerance = 1.0
)

// ErrInvalidZoomFactor is returned for non-positive or non-finite zoom factors.
var ErrInvalidZoomFactor = errors.New("zoom factor must be a positive finite number")

// InvalidWidthError reports a non-positive pixel width.
type InvalidWidthError struct {
	Width float64
}

func (e *InvalidWidthError) Error() string {
	return fmt.Sprintf("pixel width must be positive (received %v)", e.Width)
}

// InvalidOrderError reports a left endpoint later than the right endpoint.
type InvalidOrderError struct {
	Left, Right deeptime.Time
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("leftmost %s is after rightmost %s", e.Left, e.Right)
}

// LogTimeline is a mutable viewport. It is not safe for concurrent mutation.
type LogTimeline struct {
	pixelWidth float64
	leftmost   deeptime.Time
	rightmost  deeptime.Time
	reference  *deeptime.Time // nil until construction finishes
	clock      func() deeptime.Time
	onChange   func(*LogTimeline)
}

// Option configures a LogTimeline at construction.
type Option func(*LogTimeline)

// WithReference sets the "now" anchor instead of reading the clock.
func WithReference(ref deeptime.Time) Option {
	return func(tl *LogTimeline) { tl.reference = &ref }
}

// WithClock replaces deeptime.Now as the source of the current instant.
func WithClock(clock func() deeptime.Time) Option {
	return func(tl *LogTimeline) { tl.clock = clock }
}

// WithOnChange registers a callback invoked after every mutation.
func WithOnChange(fn func(*LogTimeline)) Option {
	return func(tl *LogTimeline) { tl.onChange = fn }
}

// New builds a viewport of width pixels between left and right.
func New(width float64, left, right deeptime.Time, opts ...Option) (*LogTimeline, error) {
	if err := validateWidth(width); err != nil {
		return nil, err
	}
	if err := validateOrder(left, right); err != nil {
		return nil, err
	}
	tl := &LogTimeline{pixelWidth: width, leftmost: left, rightmost: right, clock: deeptime.Now}
	for _, opt := range opts {
		opt(tl)
	}
	if tl.reference == nil {
		now := tl.clock()
		tl.reference = &now
	}
	return tl, nil
}

// NewFromSpecs accepts endpoints as a deeptime.Time, a deeptime.Spec, a parseable
// string or nil (now).
func NewFromSpecs(width float64, left, right any, opts ...Option) (*LogTimeline, error) {
	l, err := ResolveEndpoint(left)
	if err != nil {
		return nil, fmt.Errorf("leftmost: %w", err)
	}
	r, err := ResolveEndpoint(right)
	if err != nil {
		return nil, fmt.Errorf("rightmost: %w", err)
	}
	return New(width, l, r, opts...)
}

// ResolveEndpoint converts a construction input into a time.
func ResolveEndpoint(v any) (deeptime.Time, error) {
	switch e := v.(type) {
	case nil:
		return deeptime.Now(), nil
	case deeptime.Time:
		return e, nil
	case *deeptime.Time:
		if e == nil {
			return deeptime.Now(), nil
		}
		return *e, nil
	case deeptime.Spec:
		return deeptime.FromSpec(e), nil
	case *deeptime.Spec:
		if e == nil {
			return deeptime.Now(), nil
		}
		return deeptime.FromSpec(*e), nil
	case string:
		return deeptime.Parse(e)
	default:
		return deeptime.Time{}, fmt.Errorf("unsupported endpoint type %T", v)
	}
}

// Clone returns an independent copy with the same state and callback.
func (tl *LogTimeline) Clone() *LogTimeline {
	c := *tl
	ref := *tl.reference
	c.reference = &ref
	return &c
}

// PixelWidth returns the horizontal extent.
func (tl *LogTimeline) PixelWidth() float64 { return tl.pixelWidth }

// Leftmost returns the left endpoint.
func (tl *LogTimeline) Leftmost() deeptime.Time { return tl.leftmost }

// Rightmost returns the right endpoint.
func (tl *LogTimeline) Rightmost() deeptime.Time { return tl.rightmost }

// Reference returns the "now" anchor.
func (tl *LogTimeline) Reference() deeptime.Time { return *tl.reference }

// Anchor returns the instant that log distances are measured from.
func (tl *LogTimeline) Anchor() deeptime.Time {
	return latest(*tl.reference, tl.rightmost)
}

// TimeSpan returns the width of the view in years.
func (tl *LogTimeline) TimeSpan() float64 {
	return tl.TimeSpanMinutes() / deeptime.MinutesPerYear
}

// TimeSpanMinutes returns the width of the view in minutes.
func (tl *LogTimeline) TimeSpanMinutes() float64 {
	return tl.rightmost.Since(tl.leftmost)
}

// SetEndpoints replaces both bounds.
func (tl *LogTimeline) SetEndpoints(left, right deeptime.Time) error {
	if err := validateOrder(left, right); err != nil {
		return err
	}
	tl.leftmost, tl.rightmost = left, right
	tl.notify()
	return nil
}

// SetPixelWidth resizes the view.
func (tl *LogTimeline) SetPixelWidth(width float64) error {
	if err := validateWidth(width); err != nil {
		return err
	}
	tl.pixelWidth = width
	tl.notify()
	return nil
}

// ResetRightmostToNow advances the reference to the clock and moves the right edge
// to it when the edge was tracking the present. It reports whether the edge moved.
// A changed reference shifts historical views too, so it always notifies.
func (tl *LogTimeline) ResetRightmostToNow() bool {
	now := tl.clock()
	prev := *tl.reference
	tl.reference = &now

	tracking := math.Abs(tl.rightmost.Since(prev)) <= TrackingTolerance ||
		math.Abs(tl.rightmost.Since(now)) <= TrackingTolerance
	if !tracking || tl.leftmost.After(now) {
		if !now.Equal(prev) {
			tl.notify()
		}
		return false
	}
	tl.rightmost = now
	tl.notify()
	return true
}

func (tl *LogTimeline) notify() {
	if tl.onChange != nil {
		tl.onChange(tl)
	}
}

// logBounds returns the anchor and the log coordinates of both edges.
func (tl *LogTimeline) logBounds() (anchor deeptime.Time, left, right float64) {
	anchor = tl.Anchor()
	return anchor, tl.leftmost.ToLog(anchor), tl.rightmost.ToLog(anchor)
}

func validateWidth(width float64) error {
	if !(width > 0) || math.IsInf(width, 0) {
		return &InvalidWidthError{Width: width}
	}
	return nil
}

func validateOrder(left, right deeptime.Time) error {
	if left.After(right) {
		return &InvalidOrderError{Left: left, Right: right}
	}
	return nil
}
