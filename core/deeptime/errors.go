package deeptime

import (
	"fmt"
	"strconv"
)

// ParseError reports a string that matches no supported time format.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as a time: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as a time", e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidDurationError reports a duration field that must be integral but is not.
type InvalidDurationError struct {
	Field string
	Value float64
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %s must be a finite integer (received %s)", e.Field, strconv.FormatFloat(e.Value, 'g', -1, 64))
}

// RangeError reports a calendar conversion of a magnitude-precision value.
type RangeError struct {
	Year float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("year %s is outside the calendar range [%d, %d]", strconv.FormatFloat(e.Year, 'g', -1, 64), MinCalendarYear, MaxCalendarYear)
}
