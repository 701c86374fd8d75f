// Package parquet provides data structures and functions for exporting timeline
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/deeptime/schema"
	"github.com/parquet-go/parquet-go"
)

// Event represents one stored timeline event.
// This struct maps to the timeline_events database table.
type Event struct {
	// Seq is the insertion order of the event
	Seq int32 `parquet:"seq,snappy"`

	// Name is the display name
	Name string `parquet:"name,snappy"`

	// DateText is the round-trippable date string
	DateText string `parquet:"date_text,snappy"`

	// MinutesSinceEpoch is the absolute position of the event
	MinutesSinceEpoch float64 `parquet:"minutes_since_epoch,snappy"`

	// Year is the fractional proleptic Gregorian year
	Year float64 `parquet:"year,snappy"`

	// Significance runs from 1 (minor) to 10 (epochal)
	Significance int32 `parquet:"significance,snappy"`

	// Categories are "|" separated tags
	Categories string `parquet:"categories,snappy"`

	// Description is free text (nullable)
	Description *string `parquet:"description,optional,snappy"`
}

// PlacedEvent is an event laid out on a rendered viewport.
type PlacedEvent struct {
	Name         string  `parquet:"name,snappy"`
	DateText     string  `parquet:"date_text,snappy"`
	Significance int32   `parquet:"significance,snappy"`
	Categories   string  `parquet:"categories,snappy"`
	X            float64 `parquet:"x,snappy"`
	Y            float64 `parquet:"y,snappy"`
}

// Tick is a labelled axis mark of a rendered viewport.
type Tick struct {
	Position float64 `parquet:"position,snappy"`
	Label    string  `parquet:"label,snappy"`
	DateText string  `parquet:"date_text,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteEventsParquet writes a slice of Event structs to a Parquet file.
func WriteEventsParquet(data []Event, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePlacedEventsParquet writes a slice of PlacedEvent structs to a Parquet file.
func WritePlacedEventsParquet(data []PlacedEvent, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTicksParquet writes a slice of Tick structs to a Parquet file.
func WriteTicksParquet(data []Tick, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertEvents converts schema.Event values to Event rows in order.
func ConvertEvents(events []schema.Event) []Event {
	result := make([]Event, len(events))
	for i, e := range events {
		result[i] = Event{
			Seq:               int32(i),
			Name:              e.Name,
			DateText:          e.Date.String(),
			MinutesSinceEpoch: e.Date.Minutes(),
			Year:              e.Date.Year(),
			Significance:      int32(e.Significance),
			Categories:        strings.Join(e.Categories, "|"),
		}
		if e.Description != "" {
			desc := e.Description
			result[i].Description = &desc
		}
	}
	return result
}

// ConvertVisibleEvents converts placed events to PlacedEvent rows.
func ConvertVisibleEvents(events []schema.VisibleEvent) []PlacedEvent {
	result := make([]PlacedEvent, len(events))
	for i, ve := range events {
		result[i] = PlacedEvent{
			Name:         ve.Event.Name,
			DateText:     ve.Event.Date.String(),
			Significance: int32(ve.Event.Significance),
			Categories:   strings.Join(ve.Event.Categories, "|"),
			X:            ve.X,
			Y:            ve.Y,
		}
	}
	return result
}

// ConvertTicks converts axis ticks to Tick rows.
func ConvertTicks(ticks []schema.Tick) []Tick {
	result := make([]Tick, len(ticks))
	for i, t := range ticks {
		result[i] = Tick{Position: t.Position, Label: t.Label, DateText: t.Time.String()}
	}
	return result
}
