package deeptime

import "math"

// linearYearLimit bounds the proleptic Gregorian math. Past it day counts no longer
// fit comfortably in int64, so conversions fall back to mean-year arithmetic.
const linearYearLimit = 1e15

// epochYear is the year containing minute zero.
const epochYear = 1970

// yearToMinutes converts a fractional ISO year to minutes since the epoch.
// Year Y.f is the start of year Y plus fraction f of that year's length.
func yearToMinutes(y float64) float64 {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return y
	}
	if math.Abs(y) > linearYearLimit {
		return (y - epochYear) * MinutesPerYear
	}
	fy := math.Floor(y)
	yi := int64(fy)
	start := daysFromCivil(yi, 1, 1)
	days := float64(start) + (y-fy)*float64(yearLength(yi))
	return days * MinutesPerDay
}

// minutesToYear is the exact inverse of yearToMinutes.
func minutesToYear(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return m
	}
	days := m / MinutesPerDay
	if math.Abs(days) > linearYearLimit*DaysPerYear {
		return m/MinutesPerYear + epochYear
	}
	yi, _, _ := civilFromDays(int64(math.Floor(days)))
	start := daysFromCivil(yi, 1, 1)
	return float64(yi) + (days-float64(start))/float64(yearLength(yi))
}

func isLeap(y int64) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func yearLength(y int64) int64 {
	if isLeap(y) {
		return 366
	}
	return 365
}

func daysInMonth(y int64, m int) int {
	switch m {
	case 2:
		if isLeap(y) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// daysFromCivil returns days since 1970-01-01 for a proleptic Gregorian date.
func daysFromCivil(y, m, d int64) int64 {
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int64) (y, m, d int64) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = doy - (153*mp+2)/5 + 1
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}
