package service

import (
	"context"
	"fmt"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// PreferenceService manages per-user notification preferences.
type PreferenceService interface {
	// Get returns a user's preferences. The calendar OAuth token is masked.
	Get(ctx context.Context, userID string) (*storage.NotificationPreferences, error)
	// Put creates or replaces a user's preferences. If the calendar token is
	// the mask sentinel, the previously stored token is preserved.
	Put(ctx context.Context, prefs *storage.NotificationPreferences) error
}

const maskedToken = "***"

// preferenceServiceImpl implements PreferenceService.
type preferenceServiceImpl struct {
	store storage.PreferenceStore
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(store storage.PreferenceStore) PreferenceService {
	return &preferenceServiceImpl{store: store}
}

// Get returns a user's preferences with credentials masked.
func (s *preferenceServiceImpl) Get(ctx context.Context, userID string) (*storage.NotificationPreferences, error) {
	prefs, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, fmt.Errorf("%w: preferences for user %q", ErrNotFound, userID)
	}
	if prefs.Calendar.Token != "" {
		prefs.Calendar.Token = maskedToken
	}
	return prefs, nil
}

// Put saves preferences, preserving the stored calendar token when the
// incoming one is the mask sentinel.
func (s *preferenceServiceImpl) Put(ctx context.Context, prefs *storage.NotificationPreferences) error {
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if prefs.Calendar.Token == maskedToken {
		existing, err := s.store.Get(ctx, prefs.UserID)
		if err != nil {
			return fmt.Errorf("loading existing preferences: %w", err)
		}
		if existing != nil {
			prefs.Calendar.Token = existing.Calendar.Token
		} else {
			prefs.Calendar.Token = ""
		}
	}
	return s.store.Put(ctx, prefs)
}
