// Package schema has the models shared by the timeline core, the event sources and the writers.
package schema

import (
	"strings"

	"github.com/huangsam/deeptime/core/deeptime"
)

// Event is an immutable dated event from an event source.
type Event struct {
	Name         string        `json:"name"`
	Date         deeptime.Time `json:"date"`
	Significance int           `json:"significance"`         // 1 (minor) to 10 (epochal)
	Categories   []string      `json:"categories,omitempty"` // free-form tags such as "geology"
	Description  string        `json:"description,omitempty"`
}

// HasCategory reports whether the event carries category c, ignoring case.
func (e *Event) HasCategory(c string) bool {
	for _, have := range e.Categories {
		if strings.EqualFold(have, c) {
			return true
		}
	}
	return false
}

// VisibleEvent is an event placed on the current viewport.
// X is the pixel position and Y the vertical declutter offset (0 = baseline).
type VisibleEvent struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Event *Event  `json:"event"`
}

// Tick is a labelled axis mark.
type Tick struct {
	Time     deeptime.Time `json:"time"`
	Position float64       `json:"position"`
	Label    string        `json:"label"`
}

// EventFilter selects which events become visible.
type EventFilter struct {
	Categories      []string // any-of, case-insensitive; empty matches everything
	MinSignificance int      // inclusive lower bound
}

// Matches reports whether e passes the filter.
func (f EventFilter) Matches(e *Event) bool {
	if e.Significance < f.MinSignificance {
		return false
	}
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if e.HasCategory(c) {
			return true
		}
	}
	return false
}
