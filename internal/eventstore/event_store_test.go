package eventstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*EventStoreImpl, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := NewEventStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*EventStoreImpl), path
}

func fixtureEvents() []schema.Event {
	return []schema.Event{
		{Name: "Moon landing", Date: deeptime.FromYear(1969.55), Significance: 8, Categories: []string{"Space", "history"}},
		{Name: "Dinosaurs vanish", Date: deeptime.FromYear(-66e6), Significance: 9, Categories: []string{"biology"}},
		{Name: "Big Bang", Date: deeptime.FromYear(-13.8e9), Significance: 10, Categories: []string{"cosmology"},
			Description: "Everything begins"},
		{Name: "Apollo 11 launch", Date: deeptime.FromYear(1969.55), Significance: 5, Categories: []string{"space"}},
	}
}

func names(events []schema.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}

func TestReplaceAndQueryEvents(t *testing.T) {
	ctx := context.Background()
	store, _ := newSQLiteStore(t)
	require.NoError(t, store.ReplaceEvents(ctx, fixtureEvents()))

	all, err := store.QueryEvents(ctx, schema.TimeWindow{})
	require.NoError(t, err)
	// date order, ties keep insertion order
	assert.Equal(t, []string{"Big Bang", "Dinosaurs vanish", "Moon landing", "Apollo 11 launch"}, names(all))
	assert.Equal(t, "Everything begins", all[0].Description)
	assert.Equal(t, []string{"Space", "history"}, all[2].Categories)

	from := deeptime.FromYear(1900).Minutes()
	recent, err := store.QueryEvents(ctx, schema.TimeWindow{FromMinutes: &from})
	require.NoError(t, err)
	assert.Equal(t, []string{"Moon landing", "Apollo 11 launch"}, names(recent))

	to := deeptime.YearsAgo(1e9).Minutes()
	ancient, err := store.QueryEvents(ctx, schema.TimeWindow{ToMinutes: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"Big Bang"}, names(ancient))

	lo, hi := deeptime.YearsAgo(1e8).Minutes(), deeptime.FromYear(0).Minutes()
	middle, err := store.QueryEvents(ctx, schema.TimeWindow{FromMinutes: &lo, ToMinutes: &hi})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dinosaurs vanish"}, names(middle))

	require.NoError(t, store.ReplaceEvents(ctx, fixtureEvents()[:1]))
	all, err = store.QueryEvents(ctx, schema.TimeWindow{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Moon landing"}, names(all))
}

func TestQueryPreservesDates(t *testing.T) {
	ctx := context.Background()
	store, _ := newSQLiteStore(t)
	events := fixtureEvents()
	require.NoError(t, store.ReplaceEvents(ctx, events))

	got, err := store.QueryEvents(ctx, schema.TimeWindow{})
	require.NoError(t, err)
	byName := make(map[string]schema.Event)
	for _, e := range got {
		byName[e.Name] = e
	}
	for _, want := range events {
		have, ok := byName[want.Name]
		require.True(t, ok, want.Name)
		assert.Equal(t, want.Date.IsCalendar(), have.Date.IsCalendar(), want.Name)
		assert.InDelta(t, want.Date.Minutes(), have.Date.Minutes(), 1, want.Name)
		assert.Equal(t, want.Significance, have.Significance)
	}
}

func TestClearAndStatus(t *testing.T) {
	ctx := context.Background()
	store, _ := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEvents)
	assert.Empty(t, status.Oldest)

	require.NoError(t, store.ReplaceEvents(ctx, fixtureEvents()))
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 4, status.TotalEvents)
	assert.Equal(t, deeptime.FromYear(-13.8e9).String(), status.Oldest)
	assert.Equal(t, deeptime.FromYear(1969.55).String(), status.Newest)
	assert.Equal(t, []string{"biology", "cosmology", "history", "space"}, status.Categories)

	require.NoError(t, store.Clear(ctx))
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalEvents)
}

func TestNoneBackend(t *testing.T) {
	ctx := context.Background()
	store, err := NewEventStore(schema.NoneBackend, "")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceEvents(ctx, fixtureEvents()))
	events, err := store.QueryEvents(ctx, schema.TimeWindow{})
	require.NoError(t, err)
	assert.Empty(t, events)
	require.NoError(t, store.Clear(ctx))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewEventStoreUnsupportedBackend(t *testing.T) {
	_, err := NewEventStore(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported events backend")
}

func TestReplaceEventsHonorsContext(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, store.ReplaceEvents(ctx, fixtureEvents()))
}

func TestMigrateEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateEvents(schema.SQLiteBackend, path, -1))
	version, dirty, err := MigrationVersion(schema.SQLiteBackend, path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	// Up again is a no-op
	require.NoError(t, MigrateEvents(schema.SQLiteBackend, path, -1))

	require.NoError(t, MigrateEvents(schema.SQLiteBackend, path, 1))
	version, _, err = MigrationVersion(schema.SQLiteBackend, path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, MigrateEvents(schema.SQLiteBackend, path, 0))
	version, _, err = MigrationVersion(schema.SQLiteBackend, path)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	// Opening a store brings the schema back up
	store, err := NewEventStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	version, _, err = MigrationVersion(schema.SQLiteBackend, path)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestMigrateEventsNoneBackend(t *testing.T) {
	assert.ErrorContains(t, MigrateEvents(schema.NoneBackend, "", -1), "not supported")
	_, _, err := MigrationVersion(schema.NoneBackend, "")
	assert.Error(t, err)
}

func TestResetStore(t *testing.T) {
	_, path := newSQLiteStore(t)
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, ResetStore(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Missing file is fine
	require.NoError(t, ResetStore(schema.SQLiteBackend, path, ""))
	require.NoError(t, ResetStore(schema.NoneBackend, "", ""))
	assert.Error(t, ResetStore(schema.SQLiteBackend, "", ""))
	assert.ErrorContains(t, ResetStore(schema.DatabaseBackend("oracle"), "", ""), "unsupported")
}

func TestRecordConversion(t *testing.T) {
	e := schema.Event{Name: "x", Date: deeptime.YearsAgo(4.5e9), Significance: 3, Categories: []string{"a", " b "}}
	r := ToRecord(7, e)
	assert.Equal(t, 7, r.Seq)
	assert.Equal(t, "a| b ", r.Categories)

	back := FromRecord(r)
	assert.Equal(t, []string{"a", "b"}, back.Categories)
	assert.InDelta(t, e.Date.Minutes(), back.Date.Minutes(), 1e-6)
	assert.False(t, back.Date.IsCalendar())

	assert.Nil(t, splitCategories(""))
}
