package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// MockReminderLedger is a mock implementation of storage.ReminderLedger.
type MockReminderLedger struct {
	mock.Mock
}

//nolint:revive
func (m *MockReminderLedger) Exists(ctx context.Context, subscriptionID string, thresholdDays int) (bool, error) {
	args := m.Called(ctx, subscriptionID, thresholdDays)
	return args.Bool(0), args.Error(1)
}

//nolint:revive
func (m *MockReminderLedger) SentChannels(ctx context.Context, subscriptionID string, thresholdDays int) ([]storage.Channel, error) {
	args := m.Called(ctx, subscriptionID, thresholdDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Channel), args.Error(1)
}

//nolint:revive
func (m *MockReminderLedger) Record(ctx context.Context, entry storage.ReminderLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

//nolint:revive
func (m *MockReminderLedger) Stats(ctx context.Context, userID string, since time.Time) (storage.ReminderStats, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(storage.ReminderStats), args.Error(1)
}

//nolint:revive
func (m *MockReminderLedger) ListRecent(ctx context.Context, limit int) ([]storage.ReminderLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ReminderLogEntry), args.Error(1)
}
