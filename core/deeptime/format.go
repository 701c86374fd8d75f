package deeptime

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ISOLayout is the calendar layout used by String. It round-trips through Parse.
const ISOLayout = "2006-01-02T15:04:05.999999999Z07:00"

// localeLayout is the calendar layout used by LocaleString.
const localeLayout = "2 Jan 2006 15:04 MST"

var englishPrinter = message.NewPrinter(language.English)

// String returns an ISO-8601 timestamp in calendar precision and the shortest
// year literal that parses back to the same value in magnitude precision.
func (t Time) String() string {
	if t.precision == CalendarPrecision {
		return t.cal.Format(ISOLayout)
	}
	return strconv.FormatFloat(t.Year(), 'g', -1, 64)
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Relative formats t relative to now.
func (t Time) Relative() string {
	return t.RelativeString(Now())
}

// RelativeString buckets the distance from t to ref into human units:
// "now", minutes, hours, days, years, grouped thousands, millions and billions.
// Instants after ref read "in N ...".
func (t Time) RelativeString(ref Time) string {
	elapsed := ref.Since(t)
	future := elapsed < 0
	phrase := relativePhrase(math.Abs(elapsed))
	switch {
	case phrase == "now":
		return phrase
	case future:
		return "in " + phrase
	default:
		return phrase + " ago"
	}
}

// relativePhrase picks each bucket by the value it prints, so 59.6 minutes
// reads "1 hour" and 999.96 million years reads "1.0 billion years".
func relativePhrase(mins float64) string {
	if mins*60 < 45 {
		return "now"
	}
	if m := math.Max(1, math.Round(mins)); m < MinutesPerHour {
		return plural(int64(m), "minute")
	}
	if h := math.Round(mins / MinutesPerHour); h < 24 {
		return plural(int64(h), "hour")
	}
	if d := math.Round(mins / MinutesPerDay); d < 365 {
		return plural(int64(d), "day")
	}
	years := mins / MinutesPerYear
	whole := math.Round(years)
	millions := math.Round(years/1e5) / 10
	switch {
	case whole < 1e4:
		return plural(int64(whole), "year")
	case whole < 1e6:
		return englishPrinter.Sprintf("%d years", int64(whole))
	case millions < 1e3:
		return trimDecimal(millions) + " million years"
	default:
		return fmt.Sprintf("%.1f billion years", years/1e9)
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}

// trimDecimal renders v with one decimal, dropping a trailing ".0".
func trimDecimal(v float64) string {
	r := math.Round(v*10) / 10
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// LocaleString formats t as an era year grouped the way tag groups digits.
// Calendar dates in the common era ignore tag and print with localeLayout.
func (t Time) LocaleString(tag language.Tag) string {
	p := message.NewPrinter(tag)
	if t.precision == CalendarPrecision && t.cal.Year() >= 1 {
		return t.cal.Format(localeLayout)
	}
	y := math.Floor(t.Year())
	if y <= 0 {
		return p.Sprintf("%d BC", int64(1-y))
	}
	return p.Sprintf("%d AD", int64(y))
}
