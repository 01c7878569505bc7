// Package mocks provides testify mocks for the storage interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// MockSubscriptionStore is a mock implementation of storage.SubscriptionStore.
type MockSubscriptionStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockSubscriptionStore) ListActiveForUser(ctx context.Context, userID string) ([]*storage.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Subscription), args.Error(1)
}

//nolint:revive
func (m *MockSubscriptionStore) ListForUser(ctx context.Context, userID string) ([]*storage.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Subscription), args.Error(1)
}

//nolint:revive
func (m *MockSubscriptionStore) Get(ctx context.Context, id string) (*storage.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Subscription), args.Error(1)
}

//nolint:revive
func (m *MockSubscriptionStore) Create(ctx context.Context, sub *storage.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

//nolint:revive
func (m *MockSubscriptionStore) Update(ctx context.Context, sub *storage.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

//nolint:revive
func (m *MockSubscriptionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
