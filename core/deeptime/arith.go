package deeptime

import (
	"math"
	"time"
)

// Duration is a calendar-aware span. Months, Weeks and Days must be integral;
// Years, Hours, Minutes and Seconds may be fractional.
type Duration struct {
	Years   float64
	Months  float64
	Weeks   float64
	Days    float64
	Hours   float64
	Minutes float64
	Seconds float64
}

// maxCalendarShiftSeconds bounds the sub-day part handed to time.Duration.
const maxCalendarShiftSeconds = 1e9

func (d Duration) validate() error {
	integral := []struct {
		name string
		v    float64
	}{{"months", d.Months}, {"weeks", d.Weeks}, {"days", d.Days}}
	for _, f := range integral {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v != math.Trunc(f.v) {
			return &InvalidDurationError{Field: f.name, Value: f.v}
		}
	}
	fractional := []struct {
		name string
		v    float64
	}{{"years", d.Years}, {"hours", d.Hours}, {"minutes", d.Minutes}, {"seconds", d.Seconds}}
	for _, f := range fractional {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &InvalidDurationError{Field: f.name, Value: f.v}
		}
	}
	return nil
}

func (d Duration) negate() Duration {
	return Duration{-d.Years, -d.Months, -d.Weeks, -d.Days, -d.Hours, -d.Minutes, -d.Seconds}
}

// minutes converts d with mean Gregorian years and months.
func (d Duration) minutes() float64 {
	return d.Years*MinutesPerYear + d.Months*MinutesPerYear/12 + d.Weeks*MinutesPerWeek +
		d.Days*MinutesPerDay + d.Hours*MinutesPerHour + d.Minutes + d.Seconds/60
}

func (d Duration) subDaySeconds() float64 {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// Add returns t shifted by d. Calendar values with integral years use calendar
// arithmetic so month ends and leap days behave; everything else is minute math.
func (t Time) Add(d Duration) (Time, error) {
	if err := d.validate(); err != nil {
		return Time{}, err
	}
	if t.precision == CalendarPrecision && d.Years == math.Trunc(d.Years) &&
		math.Abs(d.Years) <= 2*MaxCalendarYear && math.Abs(d.Months) <= 24*MaxCalendarYear &&
		math.Abs(d.Weeks*7+d.Days) <= 800*MaxCalendarYear &&
		math.Abs(d.subDaySeconds()) < maxCalendarShiftSeconds {
		c := t.cal.AddDate(int(d.Years), int(d.Months), int(d.Weeks*7+d.Days))
		c = c.Add(time.Duration(d.subDaySeconds() * float64(time.Second)))
		return FromTime(c), nil
	}
	return fromMinutesIn(t.Minutes()+d.minutes(), t.location()), nil
}

// Subtract returns t shifted back by d.
func (t Time) Subtract(d Duration) (Time, error) {
	return t.Add(d.negate())
}

// AddYears shifts t by a possibly fractional number of years.
func (t Time) AddYears(years float64) (Time, error) {
	return t.Add(Duration{Years: years})
}
