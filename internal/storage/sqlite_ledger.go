package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteReminderLedger implements ReminderLedger backed by SQLite. The
// partial unique index on (subscription_id, threshold_days, channel) for
// sent rows makes the at-most-one-sent invariant hold even under concurrent
// writers.
type SQLiteReminderLedger struct {
	db *sql.DB
}

// NewSQLiteReminderLedger returns a new SQLiteReminderLedger.
func NewSQLiteReminderLedger(db *sql.DB) *SQLiteReminderLedger {
	return &SQLiteReminderLedger{db: db}
}

// Exists reports whether any sent entry exists for the pair, on any channel.
func (l *SQLiteReminderLedger) Exists(ctx context.Context, subscriptionID string, thresholdDays int) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM reminder_log
		WHERE subscription_id = ? AND threshold_days = ? AND status = 'sent'`,
		subscriptionID, thresholdDays,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking sent reminders for %q/%d: %w", subscriptionID, thresholdDays, err)
	}
	return n > 0, nil
}

// SentChannels returns the channels that already carry a sent entry for the pair.
func (l *SQLiteReminderLedger) SentChannels(ctx context.Context, subscriptionID string, thresholdDays int) ([]Channel, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT DISTINCT channel FROM reminder_log
		WHERE subscription_id = ? AND threshold_days = ? AND status = 'sent'
		ORDER BY channel`,
		subscriptionID, thresholdDays,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sent channels for %q/%d: %w", subscriptionID, thresholdDays, err)
	}
	defer rows.Close() //nolint:errcheck

	var channels []Channel
	for rows.Next() {
		var ch string
		if err := rows.Scan(&ch); err != nil {
			return nil, fmt.Errorf("scanning sent channel row: %w", err)
		}
		channels = append(channels, Channel(ch))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sent channel rows: %w", err)
	}
	return channels, nil
}

// Record appends one delivery attempt. Violating the sent-once uniqueness
// constraint surfaces as an error from the driver.
func (l *SQLiteReminderLedger) Record(ctx context.Context, entry ReminderLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO reminder_log
			(subscription_id, user_id, threshold_days, channel, status,
			 provider_message_id, error_msg, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SubscriptionID, entry.UserID, entry.ThresholdDays,
		string(entry.Channel), string(entry.Status),
		entry.ProviderMessageID, entry.ErrorMsg, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting reminder log entry: %w", err)
	}
	return nil
}

// Stats aggregates sent/failed counts by channel for one user since the given instant.
func (l *SQLiteReminderLedger) Stats(ctx context.Context, userID string, since time.Time) (ReminderStats, error) {
	stats := ReminderStats{
		SentByChannel:   make(ChannelCounts),
		FailedByChannel: make(ChannelCounts),
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT channel, status, COUNT(1)
		FROM reminder_log
		WHERE user_id = ? AND created_at >= ?
		GROUP BY channel, status`,
		userID, since.UTC(),
	)
	if err != nil {
		return stats, fmt.Errorf("querying reminder stats for user %q: %w", userID, err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			ch, status string
			count      int
		)
		if err := rows.Scan(&ch, &status, &count); err != nil {
			return stats, fmt.Errorf("scanning reminder stats row: %w", err)
		}
		switch ReminderStatus(status) {
		case StatusSent:
			stats.SentByChannel[Channel(ch)] = count
		case StatusFailed:
			stats.FailedByChannel[Channel(ch)] = count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterating reminder stats rows: %w", err)
	}
	return stats, nil
}

// ListRecent returns the most recent entries ordered by creation time descending.
func (l *SQLiteReminderLedger) ListRecent(ctx context.Context, limit int) ([]ReminderLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, subscription_id, user_id, threshold_days, channel, status,
		       provider_message_id, error_msg, created_at
		FROM reminder_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reminder log: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []ReminderLogEntry
	for rows.Next() {
		var (
			e          ReminderLogEntry
			ch, status string
		)
		if err := rows.Scan(&e.ID, &e.SubscriptionID, &e.UserID, &e.ThresholdDays,
			&ch, &status, &e.ProviderMessageID, &e.ErrorMsg, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reminder log row: %w", err)
		}
		e.Channel = Channel(ch)
		e.Status = ReminderStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reminder log rows: %w", err)
	}
	return entries, nil
}
