// Package loader reads timeline events from YAML, JSON and CSV files.
package loader

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
)

// Format is an events file encoding.
type Format string

// Supported event file formats.
const (
	YAMLFormat Format = "yaml"
	JSONFormat Format = "json"
	CSVFormat  Format = "csv"
)

//go:embed defaults.yaml
var defaultEventsYAML []byte

// ErrUnsupportedFormat is returned for file extensions the loader cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported events file format")

// rawEvent is the on-disk shape shared by every format.
type rawEvent struct {
	Name         string    `yaml:"name" json:"name"`
	Date         dateValue `yaml:"date" json:"date"`
	Significance int       `yaml:"significance" json:"significance"`
	Categories   []string  `yaml:"categories" json:"categories"`
	Description  string    `yaml:"description" json:"description"`
}

// eventFile is the wrapped document form: {events: [...]}.
type eventFile struct {
	Events []rawEvent `yaml:"events" json:"events"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".json":
		return JSONFormat, nil
	case ".csv":
		return CSVFormat, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and validates the events in path.
func LoadFile(path string) ([]schema.Event, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading events file: %w", err)
	}
	events, err := Decode(format, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Decode parses events encoded in format from r.
func Decode(format Format, r io.Reader) ([]schema.Event, error) {
	var (
		raws []rawEvent
		err  error
	)
	switch format {
	case YAMLFormat:
		raws, err = decodeYAML(r)
	case JSONFormat:
		raws, err = decodeJSON(r)
	case CSVFormat:
		raws, err = decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return toEvents(raws)
}

// DefaultEvents returns the built-in events.
func DefaultEvents() []schema.Event {
	events, err := Decode(YAMLFormat, bytes.NewReader(defaultEventsYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded default events are invalid: %v", err))
	}
	return events
}

// LoadOrDefault loads path, or the built-in events when path is empty.
// A file that cannot be loaded produces a warning and the built-in events.
func LoadOrDefault(path string) []schema.Event {
	if path == "" {
		return DefaultEvents()
	}
	events, err := LoadFile(path)
	if err != nil {
		contract.LogWarn("loading events, using built-in events", err)
		return DefaultEvents()
	}
	return events
}

// FileSource is an EventSource backed by an events file.
type FileSource struct {
	Path string // empty means the built-in events
}

// LoadEvents implements contract.EventSource with the LoadOrDefault fallback.
func (s FileSource) LoadEvents(ctx context.Context) ([]schema.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadOrDefault(s.Path), nil
}

func toEvents(raws []rawEvent) ([]schema.Event, error) {
	events := make([]schema.Event, 0, len(raws))
	for i, raw := range raws {
		e, err := raw.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i, raw.Name, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (r rawEvent) toEvent() (schema.Event, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return schema.Event{}, errors.New("name is required")
	}
	if r.Significance < schema.MinSignificance || r.Significance > schema.MaxSignificance {
		return schema.Event{}, fmt.Errorf("significance must be between %d and %d (received %d)",
			schema.MinSignificance, schema.MaxSignificance, r.Significance)
	}
	date, err := ParseDate(string(r.Date))
	if err != nil {
		return schema.Event{}, err
	}
	var categories []string
	for _, c := range r.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	return schema.Event{
		Name:         name,
		Date:         date,
		Significance: r.Significance,
		Categories:   categories,
		Description:  strings.TrimSpace(r.Description),
	}, nil
}

// ParseDate reads an event date. Anything deeptime.Parse accepts works; plain
// numbers that it rejects, such as short years ("476"), are taken as years.
func ParseDate(s string) (deeptime.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return deeptime.Time{}, errors.New("date is required")
	}
	t, err := deeptime.Parse(s)
	if err == nil {
		return t, nil
	}
	if y, numErr := strconv.ParseFloat(s, 64); numErr == nil && math.Abs(y) <= deeptime.NewestYear {
		return deeptime.FromYear(y), nil
	}
	return deeptime.Time{}, err
}
