// Package channel implements the delivery channel adapters for renewal
// reminders. Each adapter knows how to talk to one provider (SMTP email,
// Telegram, Google Calendar) and nothing about scheduling or idempotency.
package channel

import (
	"context"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// Adapter is the capability contract for one delivery surface. Expected
// provider failures are returned as errors from Send; the dispatcher records
// them, it never aborts on them.
type Adapter interface {
	// Name returns the channel this adapter serves.
	Name() storage.Channel
	// Send delivers a renewal reminder for sub firing at thresholdDays
	// before renewal, using the user's channel configuration from prefs.
	// On success it returns the provider's message identifier, which may be
	// empty for providers that do not expose one.
	Send(ctx context.Context, prefs *storage.NotificationPreferences, sub *storage.Subscription, thresholdDays int) (providerMessageID string, err error)
	// TestConnection verifies the channel configuration without sending a
	// real reminder.
	TestConnection(ctx context.Context, prefs *storage.NotificationPreferences) error
}
