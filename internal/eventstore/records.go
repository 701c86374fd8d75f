package eventstore

import (
	"strings"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/schema"
)

// categorySeparator joins categories in a single column.
const categorySeparator = "|"

// ToRecord flattens e into a table row at position seq.
func ToRecord(seq int, e schema.Event) schema.EventRecord {
	return schema.EventRecord{
		Seq:          seq,
		Name:         e.Name,
		DateText:     e.Date.String(),
		Minutes:      e.Date.Minutes(),
		Significance: e.Significance,
		Categories:   strings.Join(e.Categories, categorySeparator),
		Description:  e.Description,
	}
}

// FromRecord rebuilds an event. Calendar dates come back from their text so the
// zone offset survives; magnitude dates come back from the exact minutes.
func FromRecord(r schema.EventRecord) schema.Event {
	date, err := deeptime.Parse(r.DateText)
	if err != nil || !date.IsCalendar() {
		date = deeptime.FromMinutes(r.Minutes)
	}
	return schema.Event{
		Name:         r.Name,
		Date:         date,
		Significance: r.Significance,
		Categories:   splitCategories(r.Categories),
		Description:  r.Description,
	}
}

func splitCategories(joined string) []string {
	var out []string
	for c := range strings.SplitSeq(joined, categorySeparator) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
