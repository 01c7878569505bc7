package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// MockPreferenceStore is a mock implementation of storage.PreferenceStore.
type MockPreferenceStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockPreferenceStore) ListUsersWithPreferences(ctx context.Context) ([]storage.UserPreferences, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.UserPreferences), args.Error(1)
}

//nolint:revive
func (m *MockPreferenceStore) Get(ctx context.Context, userID string) (*storage.NotificationPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.NotificationPreferences), args.Error(1)
}

//nolint:revive
func (m *MockPreferenceStore) Put(ctx context.Context, prefs *storage.NotificationPreferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}
