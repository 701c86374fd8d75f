package schema

// EventStoreStatus represents the status of the event store.
type EventStoreStatus struct {
	Backend     string   `json:"backend"`
	Connected   bool     `json:"connected"`
	TotalEvents int      `json:"total_events"`
	Oldest      string   `json:"oldest,omitempty"`
	Newest      string   `json:"newest,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}
