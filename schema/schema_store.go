package schema

// EventRecord is one row of the timeline_events table.
type EventRecord struct {
	Seq          int // insertion order, breaks date ties
	Name         string
	DateText     string  // round-trippable deeptime string
	Minutes      float64 // minutes since epoch, used for window queries
	Significance int
	Categories   string // "|" separated
	Description  string
}

// TimeWindow bounds a store query in minutes since epoch. A nil bound is open.
type TimeWindow struct {
	FromMinutes *float64
	ToMinutes   *float64
}
