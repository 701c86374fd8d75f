package eventstore

import (
	"context"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	"github.com/stretchr/testify/mock"
)

// MockEventStore is a mock implementation of contract.EventStore for testing.
type MockEventStore struct {
	mock.Mock
}

var _ contract.EventStore = &MockEventStore{} // Compile-time check

// ReplaceEvents mocks the ReplaceEvents method.
func (m *MockEventStore) ReplaceEvents(ctx context.Context, events []schema.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// QueryEvents mocks the QueryEvents method.
func (m *MockEventStore) QueryEvents(ctx context.Context, window schema.TimeWindow) ([]schema.Event, error) {
	args := m.Called(ctx, window)
	events, _ := args.Get(0).([]schema.Event)
	return events, args.Error(1)
}

// Clear mocks the Clear method.
func (m *MockEventStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetStatus mocks the GetStatus method.
func (m *MockEventStore) GetStatus() (schema.EventStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.EventStoreStatus), args.Error(1)
}

// Close mocks the Close method.
func (m *MockEventStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
