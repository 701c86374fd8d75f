package eventstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// withStore swaps the global store for the duration of a test.
func withStore(t *testing.T, store contract.EventStore) {
	t.Helper()
	Manager.Lock()
	prev := Manager.events
	Manager.events = store
	Manager.Unlock()
	t.Cleanup(func() {
		Manager.Lock()
		Manager.events = prev
		Manager.Unlock()
	})
}

func TestExecuteEventsExport(t *testing.T) {
	ctx := context.Background()

	t.Run("requires output file", func(t *testing.T) {
		assert.ErrorContains(t, ExecuteEventsExport(ctx, ""), "--output-file")
	})

	t.Run("empty store", func(t *testing.T) {
		m := &MockEventStore{}
		m.On("GetStatus").Return(schema.EventStoreStatus{Backend: "sqlite", Connected: true}, nil)
		withStore(t, m)
		assert.ErrorContains(t, ExecuteEventsExport(ctx, filepath.Join(t.TempDir(), "out")), "no stored events")
		m.AssertExpectations(t)
	})

	t.Run("status failure", func(t *testing.T) {
		m := &MockEventStore{}
		m.On("GetStatus").Return(schema.EventStoreStatus{}, errors.New("boom"))
		withStore(t, m)
		assert.ErrorContains(t, ExecuteEventsExport(ctx, filepath.Join(t.TempDir(), "out")), "boom")
	})

	t.Run("writes parquet", func(t *testing.T) {
		events := fixtureEvents()
		m := &MockEventStore{}
		m.On("GetStatus").Return(schema.EventStoreStatus{Backend: "sqlite", Connected: true, TotalEvents: len(events)}, nil)
		m.On("QueryEvents", mock.Anything, schema.TimeWindow{}).Return(events, nil)
		withStore(t, m)

		out := filepath.Join(t.TempDir(), "backup")
		require.NoError(t, ExecuteEventsExport(ctx, out))
		info, err := os.Stat(out + ".events.parquet")
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		m.AssertExpectations(t)
	})

	t.Run("uninitialized", func(t *testing.T) {
		withStore(t, nil)
		assert.ErrorContains(t, ExecuteEventsExport(ctx, "out"), "not initialized")
	})
}
