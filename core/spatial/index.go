// Package spatial indexes visible events by pixel position and declutters their labels.
package spatial

import (
	"math"
	"sort"

	"github.com/huangsam/deeptime/schema"
)

// smallBatch is the largest AddAll batch inserted one item at a time.
const smallBatch = 8

// RangeQueryableEvents keeps visible events sorted ascending by X.
// Items with equal X keep their insertion order.
type RangeQueryableEvents struct {
	events []*schema.VisibleEvent
}

// NewRangeQueryableEvents returns an index holding items.
func NewRangeQueryableEvents(items ...*schema.VisibleEvent) *RangeQueryableEvents {
	idx := &RangeQueryableEvents{}
	idx.AddAll(items)
	return idx
}

// Len returns the number of indexed items.
func (r *RangeQueryableEvents) Len() int { return len(r.events) }

// Items returns a copy of the items in ascending X order.
func (r *RangeQueryableEvents) Items() []*schema.VisibleEvent {
	out := make([]*schema.VisibleEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Add inserts item after any items with the same X.
func (r *RangeQueryableEvents) Add(item *schema.VisibleEvent) {
	if item == nil {
		return
	}
	i := len(r.events)
	if !math.IsNaN(item.X) {
		i = r.upperBound(item.X)
	}
	r.events = append(r.events, nil)
	copy(r.events[i+1:], r.events[i:])
	r.events[i] = item
}

// AddAll inserts items. Large batches are appended and stably sorted once.
func (r *RangeQueryableEvents) AddAll(items []*schema.VisibleEvent) {
	if len(items) <= smallBatch {
		for _, it := range items {
			r.Add(it)
		}
		return
	}
	for _, it := range items {
		if it != nil {
			r.events = append(r.events, it)
		}
	}
	sort.SliceStable(r.events, func(i, j int) bool { return less(r.events[i].X, r.events[j].X) })
}

// QueryRange returns the items with x0 <= X <= x1 in ascending order.
func (r *RangeQueryableEvents) QueryRange(x0, x1 float64) []*schema.VisibleEvent {
	lo, hi := r.bounds(x0, x1)
	if lo >= hi {
		return nil
	}
	out := make([]*schema.VisibleEvent, hi-lo)
	copy(out, r.events[lo:hi])
	return out
}

// CountInRange returns len(QueryRange(x0, x1)) without building the slice.
func (r *RangeQueryableEvents) CountInRange(x0, x1 float64) int {
	lo, hi := r.bounds(x0, x1)
	return max(0, hi-lo)
}

// FindIndex locates item by identity and returns -1 if it is not indexed.
func (r *RangeQueryableEvents) FindIndex(item *schema.VisibleEvent) int {
	if item == nil {
		return -1
	}
	if math.IsNaN(item.X) {
		for i, e := range r.events {
			if e == item {
				return i
			}
		}
		return -1
	}
	for i := r.lowerBound(item.X); i < len(r.events) && r.events[i].X == item.X; i++ {
		if r.events[i] == item {
			return i
		}
	}
	return -1
}

// Remove deletes item by identity and reports whether it was present.
func (r *RangeQueryableEvents) Remove(item *schema.VisibleEvent) bool {
	i := r.FindIndex(item)
	if i < 0 {
		return false
	}
	r.events = append(r.events[:i], r.events[i+1:]...)
	return true
}

// Clear drops every item.
func (r *RangeQueryableEvents) Clear() {
	r.events = nil
}

func (r *RangeQueryableEvents) bounds(x0, x1 float64) (lo, hi int) {
	if !(x0 <= x1) {
		return 0, 0
	}
	return r.lowerBound(x0), r.upperBound(x1)
}

// lowerBound is the first index with X >= x. NaN positions sort last.
func (r *RangeQueryableEvents) lowerBound(x float64) int {
	return sort.Search(len(r.events), func(i int) bool {
		e := r.events[i].X
		return e >= x || math.IsNaN(e)
	})
}

// upperBound is the first index with X > x.
func (r *RangeQueryableEvents) upperBound(x float64) int {
	return sort.Search(len(r.events), func(i int) bool {
		e := r.events[i].X
		return e > x || math.IsNaN(e)
	})
}

// less orders NaN positions after every number.
func less(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a < b
}
