package storage

import (
	"context"
	"time"
)

// ReminderStatus is the outcome recorded for one delivery attempt.
type ReminderStatus string

// Recorded attempt outcomes.
const (
	StatusSent   ReminderStatus = "sent"
	StatusFailed ReminderStatus = "failed"
)

// ReminderLogEntry records a single reminder delivery attempt. Entries are
// append-only: a failed attempt may be retried as a new entry, never mutated
// in place.
type ReminderLogEntry struct {
	ID                int64          `json:"id"`
	SubscriptionID    string         `json:"subscription_id"`
	UserID            string         `json:"user_id"`
	ThresholdDays     int            `json:"threshold_days"`
	Channel           Channel        `json:"channel"`
	Status            ReminderStatus `json:"status"`
	ProviderMessageID string         `json:"provider_message_id,omitempty"`
	ErrorMsg          string         `json:"error_msg,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// ChannelCounts maps a channel to a number of ledger entries.
type ChannelCounts map[Channel]int

// ReminderStats is the per-user aggregate over the ledger consumed by the
// stats endpoint.
type ReminderStats struct {
	SentByChannel   ChannelCounts `json:"sent_by_channel"`
	FailedByChannel ChannelCounts `json:"failed_by_channel"`
	WindowDays      int           `json:"window_days"`
}

// ReminderLedger is the append-only record of reminder attempts and the
// engine's sole source of idempotency truth.
type ReminderLedger interface {
	// Exists reports whether any sent entry exists for the
	// (subscription, threshold) pair, independent of channel.
	Exists(ctx context.Context, subscriptionID string, thresholdDays int) (bool, error)
	// SentChannels returns the channels that already have a sent entry for
	// the (subscription, threshold) pair.
	SentChannels(ctx context.Context, subscriptionID string, thresholdDays int) ([]Channel, error)
	// Record appends one delivery attempt. Recording a second sent entry for
	// the same (subscription, threshold, channel) triple fails the storage
	// uniqueness constraint.
	Record(ctx context.Context, entry ReminderLogEntry) error
	// Stats aggregates sent/failed counts by channel for one user since the
	// given instant.
	Stats(ctx context.Context, userID string, since time.Time) (ReminderStats, error)
	// ListRecent returns the most recent entries across all users, up to limit.
	ListRecent(ctx context.Context, limit int) ([]ReminderLogEntry, error)
}
