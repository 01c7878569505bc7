package storage

import (
	"context"
	"fmt"
	"time"
)

// Channel identifies one reminder delivery surface.
type Channel string

// Supported delivery channels.
const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
	ChannelCalendar Channel = "calendar"
)

// Channels lists all supported channels in dispatch order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelTelegram, ChannelCalendar}
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelTelegram, ChannelCalendar:
		return true
	}
	return false
}

// EmailConfig is the per-user email channel configuration.
type EmailConfig struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
}

// Ready reports whether the channel is enabled and has the destination data
// required to attempt a send.
func (c EmailConfig) Ready() bool { return c.Enabled && c.Address != "" }

// TelegramConfig is the per-user Telegram channel configuration.
type TelegramConfig struct {
	Enabled bool   `json:"enabled"`
	ChatID  string `json:"chat_id"`
}

// Ready reports whether the channel is enabled and has a destination chat.
func (c TelegramConfig) Ready() bool { return c.Enabled && c.ChatID != "" }

// CalendarConfig is the per-user Google Calendar channel configuration.
// Token holds the user's OAuth2 token as JSON; it arrives decrypted from the
// preference layer and is never persisted in plaintext by the engine.
type CalendarConfig struct {
	Enabled    bool   `json:"enabled"`
	CalendarID string `json:"calendar_id"`
	Token      string `json:"token,omitempty"`
}

// Ready reports whether the channel is enabled and has a target calendar and
// credentials.
func (c CalendarConfig) Ready() bool { return c.Enabled && c.CalendarID != "" && c.Token != "" }

// NotificationPreferences is a user's reminder configuration: which channels
// are enabled, where each channel delivers, and the day-count thresholds at
// which reminders fire.
type NotificationPreferences struct {
	UserID     string         `json:"user_id"`
	Thresholds []int          `json:"thresholds"`
	SendAt     string         `json:"send_at"` // "HH:MM" local time, empty = any time
	Timezone   string         `json:"timezone"`
	Email      EmailConfig    `json:"email"`
	Telegram   TelegramConfig `json:"telegram"`
	Calendar   CalendarConfig `json:"calendar"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Enabled reports whether the given channel is switched on, regardless of
// whether it is fully configured.
func (p *NotificationPreferences) Enabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return p.Email.Enabled
	case ChannelTelegram:
		return p.Telegram.Enabled
	case ChannelCalendar:
		return p.Calendar.Enabled
	}
	return false
}

// Ready reports whether the given channel is enabled and configured well
// enough to attempt a send.
func (p *NotificationPreferences) Ready(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return p.Email.Ready()
	case ChannelTelegram:
		return p.Telegram.Ready()
	case ChannelCalendar:
		return p.Calendar.Ready()
	}
	return false
}

// ReadyChannels returns the channels that are enabled and configured.
func (p *NotificationPreferences) ReadyChannels() []Channel {
	var out []Channel
	for _, ch := range Channels() {
		if p.Ready(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// Validate checks the preference fields once at load time so the send path
// never has to re-check them ad hoc.
func (p *NotificationPreferences) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("preferences: missing user id")
	}
	if len(p.Thresholds) == 0 {
		return fmt.Errorf("preferences for user %q: no reminder thresholds configured", p.UserID)
	}
	for _, t := range p.Thresholds {
		if t <= 0 {
			return fmt.Errorf("preferences for user %q: threshold %d must be positive", p.UserID, t)
		}
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("preferences for user %q: unknown timezone %q", p.UserID, p.Timezone)
		}
	}
	if p.SendAt != "" {
		if _, err := time.Parse("15:04", p.SendAt); err != nil {
			return fmt.Errorf("preferences for user %q: invalid send_at %q", p.UserID, p.SendAt)
		}
	}
	return nil
}

// UserPreferences pairs a user id with that user's preferences, as returned
// by ListUsersWithPreferences.
type UserPreferences struct {
	UserID      string
	Preferences *NotificationPreferences
}

// PreferenceStore defines persistence for notification preferences.
type PreferenceStore interface {
	// ListUsersWithPreferences returns every user that has stored
	// preferences, in a stable order.
	ListUsersWithPreferences(ctx context.Context) ([]UserPreferences, error)
	// Get returns the preferences for a user, or nil if none are stored.
	Get(ctx context.Context, userID string) (*NotificationPreferences, error)
	// Put creates or replaces a user's preferences.
	Put(ctx context.Context, prefs *NotificationPreferences) error
}
