package deeptime

import "math"

// Equality tolerances. Two instants are equal when they differ by at most
// max(EqualityTolerance, |minutes| * RelativeTolerance) minutes.
const (
	EqualityTolerance = 0.5
	RelativeTolerance = 1e-14
)

// Since returns the signed minutes from earlier to t.
func (t Time) Since(earlier Time) float64 {
	if t.precision == CalendarPrecision && earlier.precision == CalendarPrecision {
		secs := t.cal.Unix() - earlier.cal.Unix()
		nanos := t.cal.Nanosecond() - earlier.cal.Nanosecond()
		return float64(secs)/60 + float64(nanos)/6e10
	}
	return t.Minutes() - earlier.Minutes()
}

// Until returns the signed minutes from t to later.
func (t Time) Until(later Time) float64 {
	return later.Since(t)
}

// Equal reports whether t and o name the same instant within tolerance.
func (t Time) Equal(o Time) bool {
	diff := math.Abs(t.Since(o))
	scale := math.Max(math.Abs(t.Minutes()), math.Abs(o.Minutes()))
	return diff <= math.Max(EqualityTolerance, scale*RelativeTolerance)
}

// Compare returns -1, 0 or 1. It returns 0 exactly when Equal holds.
func (t Time) Compare(o Time) int {
	if t.Equal(o) {
		return 0
	}
	if t.Since(o) < 0 {
		return -1
	}
	return 1
}

// Before reports whether t is strictly earlier than o.
func (t Time) Before(o Time) bool { return t.Compare(o) < 0 }

// After reports whether t is strictly later than o.
func (t Time) After(o Time) bool { return t.Compare(o) > 0 }

// ToLog maps t onto the log axis anchored at ref: 0 at or after ref and
// log1p(elapsed minutes) before it. The oldest supported instant maps to about 40.8.
func (t Time) ToLog(ref Time) float64 {
	elapsed := ref.Since(t)
	if !(elapsed > 0) {
		return 0
	}
	return math.Log1p(elapsed)
}

// FromLog inverts ToLog for the same ref.
func FromLog(v float64, ref Time) Time {
	if !(v > 0) {
		return ref
	}
	return fromMinutesIn(ref.Minutes()-math.Expm1(v), ref.location())
}
