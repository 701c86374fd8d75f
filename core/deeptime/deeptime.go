// Package deeptime provides a time value that spans from the Big Bang to the far future.
//
// A Time is either calendar precision, backed by a zone-aware time.Time, or magnitude
// precision, backed only by a count of minutes since 1970-01-01T00:00Z. Both precisions
// share one year <-> minutes conversion so the same instant never drifts between them.
package deeptime

import (
	"math"
	"time"
)

// Precision identifies which representation a Time carries.
type Precision uint8

// Supported precisions.
const (
	MagnitudePrecision Precision = iota // minutes since epoch only
	CalendarPrecision                   // zone-aware calendar timestamp
)

// String returns the lowercase precision name.
func (p Precision) String() string {
	if p == CalendarPrecision {
		return "calendar"
	}
	return "magnitude"
}

// Unit constants.
const (
	MinutesPerHour = 60.0
	MinutesPerDay  = 24 * MinutesPerHour
	MinutesPerWeek = 7 * MinutesPerDay
	DaysPerYear    = 365.2425 // mean Gregorian year
	MinutesPerYear = DaysPerYear * MinutesPerDay
)

// Range constants, in fractional ISO years.
const (
	MinCalendarYear = -200000
	MaxCalendarYear = 200000
	OldestYear      = -1e12
	NewestYear      = 1e12
)

// Time is an immutable instant. The zero Time is the Unix epoch in magnitude precision.
type Time struct {
	precision Precision
	cal       time.Time
	mins      float64
}

// nowFunc is swapped in tests.
var nowFunc = time.Now

var (
	minCalendarMinutes = yearToMinutes(MinCalendarYear)
	maxCalendarMinutes = yearToMinutes(MaxCalendarYear + 1)
)

// Now returns the current instant in calendar precision.
func Now() Time {
	return FromTime(nowFunc())
}

// FromTime wraps a calendar timestamp. Timestamps outside the calendar range are
// converted to magnitude precision.
func FromTime(t time.Time) Time {
	y := t.Year()
	if y < MinCalendarYear || y > MaxCalendarYear {
		return Time{precision: MagnitudePrecision, mins: unixMinutes(t)}
	}
	return Time{precision: CalendarPrecision, cal: t}
}

// FromMinutes returns the instant m minutes after the Unix epoch.
func FromMinutes(m float64) Time {
	return fromMinutesIn(m, time.UTC)
}

// FromYear returns the start of fractional ISO year y (year 0 is 1 BC).
func FromYear(y float64) Time {
	return FromMinutes(yearToMinutes(y))
}

// YearsAgo returns the instant n mean Gregorian years before now.
func YearsAgo(n float64) Time {
	return FromMinutes(Now().Minutes() - n*MinutesPerYear)
}

// Oldest returns the earliest supported instant.
func Oldest() Time { return FromYear(OldestYear) }

// Newest returns the latest supported instant.
func Newest() Time { return FromYear(NewestYear) }

// Spec is the structured construction input used by configuration and tools.
// Exactly one field is expected; an empty Spec means now.
type Spec struct {
	Year     *float64 `json:"year,omitempty" yaml:"year,omitempty"`
	YearsAgo *float64 `json:"yearsAgo,omitempty" yaml:"yearsAgo,omitempty"`
	Minutes  *float64 `json:"minutesSinceEpoch,omitempty" yaml:"minutesSinceEpoch,omitempty"`
}

// FromSpec builds a Time from a Spec.
func FromSpec(s Spec) Time {
	switch {
	case s.Year != nil:
		return FromYear(*s.Year)
	case s.YearsAgo != nil:
		return YearsAgo(*s.YearsAgo)
	case s.Minutes != nil:
		return FromMinutes(*s.Minutes)
	default:
		return Now()
	}
}

// fromMinutesIn picks calendar precision when m falls inside the calendar range.
func fromMinutesIn(m float64, loc *time.Location) Time {
	if math.IsNaN(m) || m < minCalendarMinutes || m >= maxCalendarMinutes {
		return Time{precision: MagnitudePrecision, mins: m}
	}
	secs := math.Floor(m * 60)
	nanos := math.Round((m*60 - secs) * 1e9)
	if nanos >= 1e9 {
		secs++
		nanos -= 1e9
	}
	return Time{precision: CalendarPrecision, cal: time.Unix(int64(secs), int64(nanos)).In(loc)}
}

// Precision reports the active representation.
func (t Time) Precision() Precision { return t.precision }

// IsCalendar reports whether t carries a calendar timestamp.
func (t Time) IsCalendar() bool { return t.precision == CalendarPrecision }

// Minutes returns minutes since the Unix epoch.
func (t Time) Minutes() float64 {
	if t.precision == CalendarPrecision {
		return unixMinutes(t.cal)
	}
	return t.mins
}

// Year returns the fractional ISO year.
func (t Time) Year() float64 {
	return minutesToYear(t.Minutes())
}

// ToDate returns the calendar timestamp, or a *RangeError in magnitude precision.
func (t Time) ToDate() (time.Time, error) {
	if t.precision != CalendarPrecision {
		return time.Time{}, &RangeError{Year: t.Year()}
	}
	return t.cal, nil
}

// location returns the zone of a calendar value, or UTC.
func (t Time) location() *time.Location {
	if t.precision == CalendarPrecision {
		return t.cal.Location()
	}
	return time.UTC
}

func unixMinutes(t time.Time) float64 {
	return float64(t.Unix())/60 + float64(t.Nanosecond())/6e10
}
