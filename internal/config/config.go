// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/shaharia-lab/renewd/internal/channel"
)

// AppConfig holds all application-level configuration loaded from environment
// variables. Per-user channel destinations live in the preference store; only
// shared provider settings belong here.
type AppConfig struct {
	// Port is the HTTP server port.
	Port int `envconfig:"PORT" default:"8991"`

	// DataDir is the root data directory. Defaults to ~/.renewd.
	DataDir string `envconfig:"RENEWD_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// TickIntervalMinutes is the cadence of the reminder evaluation loop.
	TickIntervalMinutes int `envconfig:"RENEWD_TICK_INTERVAL_MINUTES" default:"60"`

	// StartupDelaySeconds postpones the first tick after process start so the
	// engine never races database initialization.
	StartupDelaySeconds int `envconfig:"RENEWD_STARTUP_DELAY_SECONDS" default:"15"`

	// SMTP server settings shared by all users.
	SMTPHost       string `envconfig:"RENEWD_SMTP_HOST"`
	SMTPPort       int    `envconfig:"RENEWD_SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"RENEWD_SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"RENEWD_SMTP_PASSWORD"`
	SMTPFromAddr   string `envconfig:"RENEWD_SMTP_FROM"`
	SMTPEncryption string `envconfig:"RENEWD_SMTP_ENCRYPTION" default:"starttls"`

	// TelegramBotToken is the shared bot identity reminders are sent from.
	TelegramBotToken string `envconfig:"RENEWD_TELEGRAM_BOT_TOKEN"`

	// Google OAuth client credentials for the calendar channel.
	GoogleClientID     string `envconfig:"RENEWD_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"RENEWD_GOOGLE_CLIENT_SECRET"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.renewd if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".renewd")
	}
	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDir returns the path to the log directory.
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path to the SQLite database file.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "renewd.db")
}

// TickInterval returns the reminder loop cadence as a duration.
func (c *AppConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMinutes) * time.Minute
}

// StartupDelay returns the first-tick delay as a duration.
func (c *AppConfig) StartupDelay() time.Duration {
	return time.Duration(c.StartupDelaySeconds) * time.Second
}

// SMTP returns the email adapter configuration.
func (c *AppConfig) SMTP() channel.SMTPConfig {
	return channel.SMTPConfig{
		Host:       c.SMTPHost,
		Port:       c.SMTPPort,
		Username:   c.SMTPUsername,
		Password:   c.SMTPPassword,
		FromAddr:   c.SMTPFromAddr,
		Encryption: c.SMTPEncryption,
	}
}

// Telegram returns the Telegram adapter configuration.
func (c *AppConfig) Telegram() channel.TelegramConfig {
	return channel.TelegramConfig{BotToken: c.TelegramBotToken}
}

// Google returns the calendar adapter configuration.
func (c *AppConfig) Google() channel.GoogleConfig {
	return channel.GoogleConfig{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
	}
}
