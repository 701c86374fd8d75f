package schema

import "github.com/huangsam/deeptime/core/deeptime"

// RenderResult is everything a drawing layer needs for one frame.
type RenderResult struct {
	Width          float64        `json:"width"`
	Leftmost       deeptime.Time  `json:"leftmost"`
	Rightmost      deeptime.Time  `json:"rightmost"`
	Reference      deeptime.Time  `json:"reference"`
	TimeSpanYears  float64        `json:"time_span_years"`
	Ticks          []Tick         `json:"ticks"`
	Events         []VisibleEvent `json:"events"`
	PushedClusters int            `json:"pushed_clusters"`
}

// ConvertResult describes one parsed time value.
type ConvertResult struct {
	Input     string         `json:"input"`
	Precision PrecisionLabel `json:"precision"`
	Year      float64        `json:"year"`
	Minutes   float64        `json:"minutes_since_epoch"`
	ISO       string         `json:"iso"`
	Relative  string         `json:"relative"`
	Locale    string         `json:"locale"`
	Log       float64        `json:"log"`
}

// PixelResult maps one pixel to the time under it.
type PixelResult struct {
	Pixel    float64       `json:"pixel"`
	Time     deeptime.Time `json:"time"`
	Relative string        `json:"relative"`
}

// GetSignificanceLabel returns a plain text label for an event significance.
func GetSignificanceLabel(significance int) string {
	switch {
	case significance >= 9:
		return "Epochal"
	case significance >= 7:
		return "Major"
	case significance >= 4:
		return "Notable"
	default:
		return "Minor"
	}
}
