// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/deeptime/schema"
)

// EventSource produces the events a timeline displays.
// This allows the render path to be tested without files or databases.
type EventSource interface {
	// LoadEvents returns every event the source knows about.
	LoadEvents(ctx context.Context) ([]schema.Event, error)
}

// EventStore defines the interface for persisted event storage.
// This allows mocking the store for testing.
type EventStore interface {
	// ReplaceEvents swaps the stored events for the given slice in one transaction.
	ReplaceEvents(ctx context.Context, events []schema.Event) error

	// QueryEvents returns stored events inside the window, ordered by date.
	QueryEvents(ctx context.Context, window schema.TimeWindow) ([]schema.Event, error)

	// Clear removes every stored event.
	Clear(ctx context.Context) error

	// GetStatus returns status information about the store
	GetStatus() (schema.EventStoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
