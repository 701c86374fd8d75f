package eventstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/deeptime/internal/parquet"
	"github.com/huangsam/deeptime/schema"
)

// ExecuteEventsExport writes every stored event to a Parquet file.
func ExecuteEventsExport(ctx context.Context, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetEventStore()
	if store == nil {
		return errors.New("event store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get event store status: %w", err)
	}
	if status.TotalEvents == 0 {
		return errors.New("no stored events found to export")
	}

	fmt.Printf("Exporting events from %s backend...\n", status.Backend)
	fmt.Printf("Total events: %d\n", status.TotalEvents)

	events, err := store.QueryEvents(ctx, schema.TimeWindow{})
	if err != nil {
		return fmt.Errorf("failed to retrieve events: %w", err)
	}

	eventsFile := outputFile + ".events.parquet"
	rows := parquet.ConvertEvents(events)
	if err := parquet.WriteEventsParquet(rows, eventsFile); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}
	fmt.Printf("Exported %d events to: %s\n", len(rows), eventsFile)
	return nil
}
