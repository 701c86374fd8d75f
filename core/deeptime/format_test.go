package deeptime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestRelativeString(t *testing.T) {
	ref := FromTime(referenceInstant)
	ago := func(mins float64) Time { return FromMinutes(ref.Minutes() - mins) }

	tests := []struct {
		name string
		time Time
		want string
	}{
		{"same instant", ref, "now"},
		{"seconds", ago(0.5), "now"},
		{"one minute", ago(1), "1 minute ago"},
		{"minutes", ago(17), "17 minutes ago"},
		{"hours", ago(2 * MinutesPerHour), "2 hours ago"},
		{"one day", ago(MinutesPerDay), "1 day ago"},
		{"days", ago(3 * MinutesPerDay), "3 days ago"},
		{"century", ago(100 * MinutesPerYear), "100 years ago"},
		{"grouped years", ago(50000 * MinutesPerYear), "50,000 years ago"},
		{"millions", ago(65e6 * MinutesPerYear), "65 million years ago"},
		{"fractional millions", ago(1.5e6 * MinutesPerYear), "1.5 million years ago"},
		{"billions", ago(4.5e9 * MinutesPerYear), "4.5 billion years ago"},
		{"age of the earth", ago(4.54e9 * MinutesPerYear), "4.5 billion years ago"},
		{"rounds up to an hour", ago(59.6), "1 hour ago"},
		{"rounds up to a year", ago(364.7 * MinutesPerDay), "1 year ago"},
		{"rounds up to grouped years", ago(9999.6 * MinutesPerYear), "10,000 years ago"},
		{"rounds up to a million", ago(999999.6 * MinutesPerYear), "1 million years ago"},
		{"rounds up to a billion", ago(999.96e6 * MinutesPerYear), "1.0 billion years ago"},
		{"future hours", ago(-2 * MinutesPerHour), "in 2 hours"},
		{"future millions", ago(-3e6 * MinutesPerYear), "in 3 million years"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.time.RelativeString(ref))
		})
	}
}

func TestRelativeUsesClock(t *testing.T) {
	fixClock(t, referenceInstant)
	assert.Equal(t, "3 hours ago", FromTime(referenceInstant.Add(-3*time.Hour)).Relative())
}

func TestString(t *testing.T) {
	assert.Equal(t, "2000-01-01T00:00:00Z", FromYear(2000).String())
	assert.Equal(t, "-0999-01-01T00:00:00Z", FromYear(-999).String())
	assert.Equal(t, "-5e+09", FromYear(-5e9).String())
	assert.Equal(t, "-1e+12", Oldest().String())

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2023-06-15T21:30:00+09:00", FromTime(time.Date(2023, 6, 15, 21, 30, 0, 0, tokyo)).String())
}

func TestLocaleString(t *testing.T) {
	assert.Equal(t, "10,000 BC", FromYear(-9999).LocaleString(language.English))
	assert.Equal(t, "10.000 BC", FromYear(-9999).LocaleString(language.German))
	assert.Equal(t, "13,800,000,001 BC", FromYear(-13.8e9).LocaleString(language.English))
	assert.Equal(t, "500,000,000 AD", FromYear(5e8).LocaleString(language.English))
	assert.Equal(t, "1 BC", FromYear(0).LocaleString(language.English))

	modern := FromTime(time.Date(2023, 6, 15, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, "15 Jun 2023 12:30 UTC", modern.LocaleString(language.English))
	assert.Equal(t, "15 Jun 2023 12:30 UTC", modern.LocaleString(language.German), "calendar layout ignores the tag")
	assert.Equal(t, "1 Jan 0001 00:00 UTC", FromTime(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)).LocaleString(language.German))
}
