package core

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/loader"
	"github.com/huangsam/deeptime/schema"
)

// builtinSource labels the embedded default events.
const builtinSource = "built-in events"

// storeSource reads the events of a viewport window from an event store.
type storeSource struct {
	store  contract.EventStore
	window schema.TimeWindow
}

var _ contract.EventSource = storeSource{} // Compile-time check

func (s storeSource) LoadEvents(ctx context.Context) ([]schema.Event, error) {
	return s.store.QueryEvents(ctx, s.window)
}

// defaultSource serves the embedded default events.
type defaultSource struct{}

var _ contract.EventSource = defaultSource{} // Compile-time check

func (defaultSource) LoadEvents(ctx context.Context) ([]schema.Event, error) {
	return loader.DefaultEvents(), ctx.Err()
}

// selectSource picks where events come from: an explicit file first, then a
// populated event store, then the built-in set.
func selectSource(cfg *contract.Config, store contract.EventStore) (contract.EventSource, string, error) {
	if cfg.EventsPath != "" {
		return loader.FileSource{Path: cfg.EventsPath}, cfg.EventsPath, nil
	}
	if store != nil && cfg.EventsBackend != schema.NoneBackend {
		status, err := store.GetStatus()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get event store status: %w", err)
		}
		if status.TotalEvents > 0 {
			from, to := cfg.Start.Minutes(), cfg.End.Minutes()
			src := storeSource{store: store, window: schema.TimeWindow{FromMinutes: &from, ToMinutes: &to}}
			return src, fmt.Sprintf("%s backend", status.Backend), nil
		}
	}
	return defaultSource{}, builtinSource, nil
}

// LoadTimelineEvents returns the events for cfg and a label naming their source.
// A file or store that fails to load falls back to the built-in events with a warning.
func LoadTimelineEvents(ctx context.Context, cfg *contract.Config, store contract.EventStore) ([]schema.Event, string, error) {
	src, label, err := selectSource(cfg, store)
	if err != nil {
		return nil, "", err
	}
	events, err := src.LoadEvents(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		contract.LogWarn(fmt.Sprintf("loading events from %s, using %s", label, builtinSource), err)
		return loader.DefaultEvents(), builtinSource, nil
	}
	return events, label, nil
}

// ExecuteEventsImport loads the configured events file and replaces the stored events with it.
func ExecuteEventsImport(ctx context.Context, cfg *contract.Config, store contract.EventStore) error {
	if cfg.EventsBackend == schema.NoneBackend {
		return fmt.Errorf("--events-backend is required for import (sqlite, mysql or postgresql)")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var events []schema.Event
	source := cfg.EventsPath
	if source == "" {
		events, source = loader.DefaultEvents(), builtinSource
	} else {
		var err error
		if events, err = loader.LoadFile(cfg.EventsPath); err != nil {
			return err
		}
	}
	if err := store.ReplaceEvents(ctx, events); err != nil {
		return fmt.Errorf("failed to store events: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Imported %d events from %s into %s backend\n", len(events), source, cfg.EventsBackend)
	return nil
}
