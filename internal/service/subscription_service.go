package service

import (
	"context"
	"fmt"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// SubscriptionService manages the subscriptions the reminder engine reads.
type SubscriptionService interface {
	List(ctx context.Context, userID string) ([]*storage.Subscription, error)
	Get(ctx context.Context, id string) (*storage.Subscription, error)
	Create(ctx context.Context, sub *storage.Subscription) error
	Update(ctx context.Context, sub *storage.Subscription) error
	Delete(ctx context.Context, id string) error
}

// subscriptionServiceImpl implements SubscriptionService.
type subscriptionServiceImpl struct {
	store storage.SubscriptionStore
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(store storage.SubscriptionStore) SubscriptionService {
	return &subscriptionServiceImpl{store: store}
}

// List returns every subscription for a user, active or not.
func (s *subscriptionServiceImpl) List(ctx context.Context, userID string) ([]*storage.Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	return s.store.ListForUser(ctx, userID)
}

// Get returns one subscription.
func (s *subscriptionServiceImpl) Get(ctx context.Context, id string) (*storage.Subscription, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: subscription %q", ErrNotFound, id)
	}
	return sub, nil
}

// Create validates and persists a new subscription.
func (s *subscriptionServiceImpl) Create(ctx context.Context, sub *storage.Subscription) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.store.Create(ctx, sub)
}

// Update validates and replaces an existing subscription.
func (s *subscriptionServiceImpl) Update(ctx context.Context, sub *storage.Subscription) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	existing, err := s.store.Get(ctx, sub.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: subscription %q", ErrNotFound, sub.ID)
	}
	return s.store.Update(ctx, sub)
}

// Delete removes a subscription.
func (s *subscriptionServiceImpl) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
