package deeptime

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	eraRe      = regexp.MustCompile(`(?i)^(?:(bce|bc|ad|ce)\s*)?(\d[\d,]*(?:\.\d+)?(?:e[+-]?\d+)?)(?:\s*(bce|bc|ad|ce))?$`)
	relativeRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?(?:e[+-]?\d+)?)\s*(minutes?|mins?|hours?|days?|weeks?|months?|years?|thousand\s+years?|million\s+years?|billion\s+years?|kyr|myr|gyr|byr)\s+ago$`)
	groupedRe  = regexp.MustCompile(`^[+-]?\d{1,3}(?:,\d{3})+$`)
	literalRe  = regexp.MustCompile(`(?i)^[+-]?(?:\d+\.\d*|\.\d+|\d+)(?:e[+-]?\d+)?$`)
	isoRe      = regexp.MustCompile(`(?i)^([+-]?\d{4,})-(\d{2})(?:-(\d{2})(?:[t ](\d{2}):(\d{2})(?::(\d{2})(?:[.,](\d{1,9}))?)?)?)?(z|[+-]\d{2}:?\d{2})?(?:\[([^\]]+)\])?$`)
	offsetRe   = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)
)

// maxParsedYear bounds parsed years so civil day counts stay in int64.
const maxParsedYear = linearYearLimit

// Parse interprets s as one of: "now", an era year ("1000 BC", "AD 1066"),
// a relative offset ("13.8 billion years ago"), a bare or scientific-notation year
// ("2023", "-1.23e6"), or an ISO-8601 date or date-time with an optional offset
// and [Area/City] zone. Local ISO times without an offset are read as UTC.
func Parse(s string) (Time, error) {
	in := strings.TrimSpace(s)
	switch {
	case in == "":
		return Time{}, &ParseError{Input: s}
	case strings.EqualFold(in, "now"):
		return Now(), nil
	}
	if m := eraRe.FindStringSubmatch(in); m != nil && (m[1] != "" || m[3] != "") {
		return parseEra(s, m)
	}
	if m := relativeRe.FindStringSubmatch(in); m != nil {
		return parseRelative(s, m)
	}
	if y, ok := parseLiteralYear(in); ok {
		return FromYear(y), nil
	}
	if m := isoRe.FindStringSubmatch(in); m != nil {
		return parseISO(s, m)
	}
	return Time{}, &ParseError{Input: s}
}

func parseEra(input string, m []string) (Time, error) {
	if m[1] != "" && m[3] != "" {
		return Time{}, &ParseError{Input: input, Err: errors.New("era given twice")}
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil || n <= 0 || n > maxParsedYear {
		return Time{}, &ParseError{Input: input, Err: errors.New("era year must be a positive number")}
	}
	era := strings.ToLower(m[1] + m[3])
	if era == "bc" || era == "bce" {
		return FromYear(1 - n), nil // no year zero: 1 BC is ISO year 0
	}
	return FromYear(n), nil
}

func parseRelative(input string, m []string) (Time, error) {
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Time{}, &ParseError{Input: input, Err: err}
	}
	unit := strings.ToLower(strings.Join(strings.Fields(m[2]), " "))
	unit = strings.TrimSuffix(unit, "s")
	var perUnit float64
	switch unit {
	case "minute", "min":
		perUnit = 1
	case "hour":
		perUnit = MinutesPerHour
	case "day":
		perUnit = MinutesPerDay
	case "week":
		perUnit = MinutesPerWeek
	case "month":
		perUnit = MinutesPerYear / 12
	case "year":
		perUnit = MinutesPerYear
	case "thousand year", "kyr":
		perUnit = 1e3 * MinutesPerYear
	case "million year", "myr":
		perUnit = 1e6 * MinutesPerYear
	case "billion year", "gyr", "byr":
		perUnit = 1e9 * MinutesPerYear
	default:
		return Time{}, &ParseError{Input: input, Err: fmt.Errorf("unsupported unit %q", m[2])}
	}
	if n*perUnit/MinutesPerYear > maxParsedYear {
		return Time{}, &ParseError{Input: input, Err: errors.New("offset out of range")}
	}
	now := Now()
	return fromMinutesIn(now.Minutes()-n*perUnit, now.location()), nil
}

// parseLiteralYear accepts grouped years ("50,000"), integer years with at least four
// digits, and any decimal or scientific-notation number.
func parseLiteralYear(in string) (float64, bool) {
	if groupedRe.MatchString(in) {
		y, err := strconv.ParseFloat(strings.ReplaceAll(in, ",", ""), 64)
		return y, err == nil
	}
	if !literalRe.MatchString(in) {
		return 0, false
	}
	if !strings.ContainsAny(in, ".eE") && len(strings.TrimLeft(in, "+-")) < 4 {
		return 0, false
	}
	y, err := strconv.ParseFloat(in, 64)
	if err != nil || math.Abs(y) > maxParsedYear {
		return 0, false
	}
	return y, true
}

func parseISO(input string, m []string) (Time, error) {
	fail := func(format string, args ...any) (Time, error) {
		return Time{}, &ParseError{Input: input, Err: fmt.Errorf(format, args...)}
	}

	year, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || math.Abs(float64(year)) > maxParsedYear {
		return fail("year %s out of range", m[1])
	}
	month := atoiOr(m[2], 1)
	day := atoiOr(m[3], 1)
	hour, minute, sec := atoiOr(m[4], 0), atoiOr(m[5], 0), atoiOr(m[6], 0)
	nanos := 0
	if m[7] != "" {
		nanos, _ = strconv.Atoi(m[7] + strings.Repeat("0", 9-len(m[7])))
	}
	switch {
	case month < 1 || month > 12:
		return fail("month %d out of range", month)
	case day < 1 || day > daysInMonth(year, month):
		return fail("day %d out of range for %04d-%02d", day, year, month)
	case hour > 23 || minute > 59 || sec > 59:
		return fail("clock %02d:%02d:%02d out of range", hour, minute, sec)
	}

	offsetSecs := 0
	var fixed *time.Location
	if zone := strings.ToLower(m[8]); zone != "" {
		if zone == "z" {
			fixed = time.UTC
		} else {
			om := offsetRe.FindStringSubmatch(zone)
			hh, mm := atoiOr(om[2], 0), atoiOr(om[3], 0)
			if hh > 23 || mm > 59 {
				return fail("offset %s out of range", m[8])
			}
			offsetSecs = hh*3600 + mm*60
			if om[1] == "-" {
				offsetSecs = -offsetSecs
			}
			fixed = time.FixedZone("", offsetSecs)
		}
	}

	if year < MinCalendarYear || year > MaxCalendarYear {
		days := daysFromCivil(year, int64(month), int64(day))
		mins := float64(days)*MinutesPerDay + float64(hour)*MinutesPerHour + float64(minute) +
			(float64(sec)+float64(nanos)/1e9)/60 - float64(offsetSecs)/60
		return Time{precision: MagnitudePrecision, mins: mins}, nil
	}

	var named *time.Location
	if m[9] != "" {
		named, err = time.LoadLocation(m[9])
		if err != nil {
			return Time{}, &ParseError{Input: input, Err: err}
		}
	}

	var t time.Time
	switch {
	case fixed != nil:
		t = time.Date(int(year), time.Month(month), day, hour, minute, sec, nanos, fixed)
		if named != nil {
			t = t.In(named)
		}
	case named != nil:
		t = time.Date(int(year), time.Month(month), day, hour, minute, sec, nanos, named)
	default:
		t = time.Date(int(year), time.Month(month), day, hour, minute, sec, nanos, time.UTC)
	}
	return FromTime(t), nil
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
