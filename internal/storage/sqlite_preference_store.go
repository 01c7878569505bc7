package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLitePreferenceStore implements PreferenceStore backed by SQLite.
type SQLitePreferenceStore struct {
	db *sql.DB
}

// NewSQLitePreferenceStore returns a new SQLitePreferenceStore.
func NewSQLitePreferenceStore(db *sql.DB) *SQLitePreferenceStore {
	return &SQLitePreferenceStore{db: db}
}

const preferenceColumns = `user_id, thresholds, send_at, timezone,
	email_enabled, email_address, telegram_enabled, telegram_chat_id,
	calendar_enabled, calendar_id, calendar_token, updated_at`

// ListUsersWithPreferences returns every stored preference row ordered by user id.
func (s *SQLitePreferenceStore) ListUsersWithPreferences(ctx context.Context) ([]UserPreferences, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+preferenceColumns+`
		FROM notification_preferences
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []UserPreferences
	for rows.Next() {
		prefs, err := scanPreferences(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning preference row: %w", err)
		}
		out = append(out, UserPreferences{UserID: prefs.UserID, Preferences: prefs})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preference rows: %w", err)
	}
	return out, nil
}

// Get returns one user's preferences, or nil if none are stored.
func (s *SQLitePreferenceStore) Get(ctx context.Context, userID string) (*NotificationPreferences, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+preferenceColumns+`
		FROM notification_preferences WHERE user_id = ?`, userID)

	prefs, err := scanPreferences(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading preferences for user %q: %w", userID, err)
	}
	return prefs, nil
}

// Put creates or replaces a user's preferences. The preferences are validated
// before writing so malformed configuration never reaches the send path.
func (s *SQLitePreferenceStore) Put(ctx context.Context, prefs *NotificationPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	thresholds, err := json.Marshal(prefs.Thresholds)
	if err != nil {
		return fmt.Errorf("encoding thresholds: %w", err)
	}
	prefs.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notification_preferences (`+preferenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			thresholds = excluded.thresholds,
			send_at = excluded.send_at,
			timezone = excluded.timezone,
			email_enabled = excluded.email_enabled,
			email_address = excluded.email_address,
			telegram_enabled = excluded.telegram_enabled,
			telegram_chat_id = excluded.telegram_chat_id,
			calendar_enabled = excluded.calendar_enabled,
			calendar_id = excluded.calendar_id,
			calendar_token = excluded.calendar_token,
			updated_at = excluded.updated_at`,
		prefs.UserID, string(thresholds), prefs.SendAt, prefs.Timezone,
		boolToInt(prefs.Email.Enabled), prefs.Email.Address,
		boolToInt(prefs.Telegram.Enabled), prefs.Telegram.ChatID,
		boolToInt(prefs.Calendar.Enabled), prefs.Calendar.CalendarID, prefs.Calendar.Token,
		prefs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving preferences for user %q: %w", prefs.UserID, err)
	}
	return nil
}

func scanPreferences(row rowScanner) (*NotificationPreferences, error) {
	var (
		prefs                                     NotificationPreferences
		thresholds                                string
		emailEnabled, telegramEnabled, calEnabled int
	)
	err := row.Scan(&prefs.UserID, &thresholds, &prefs.SendAt, &prefs.Timezone,
		&emailEnabled, &prefs.Email.Address,
		&telegramEnabled, &prefs.Telegram.ChatID,
		&calEnabled, &prefs.Calendar.CalendarID, &prefs.Calendar.Token,
		&prefs.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(thresholds), &prefs.Thresholds); err != nil {
		return nil, fmt.Errorf("decoding thresholds for user %q: %w", prefs.UserID, err)
	}
	prefs.Email.Enabled = emailEnabled != 0
	prefs.Telegram.Enabled = telegramEnabled != 0
	prefs.Calendar.Enabled = calEnabled != 0
	return &prefs, nil
}
