package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shaharia-lab/renewd/internal/channel"
	"github.com/shaharia-lab/renewd/internal/config"
	"github.com/shaharia-lab/renewd/internal/logger"
	"github.com/shaharia-lab/renewd/internal/reminder"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// app bundles the shared dependencies both commands need: configuration,
// logging, storage, adapters and the dispatcher.
type app struct {
	Config        *config.AppConfig
	Logger        *slog.Logger
	DB            *sql.DB
	Subscriptions storage.SubscriptionStore
	Preferences   storage.PreferenceStore
	Ledger        storage.ReminderLedger
	Adapters      []channel.Adapter
	Dispatcher    *reminder.Dispatcher
}

// buildApp loads configuration and wires the storage and channel layers.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{
		Dir:    cfg.LogDir(),
		Level:  cfg.SlogLevel(),
		Stderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	db, fresh, err := storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	if fresh {
		log.Info("initialized new database", "path", cfg.DBPath())
	}

	ledger := storage.NewSQLiteReminderLedger(db)
	adapters := []channel.Adapter{
		channel.NewEmailAdapter(cfg.SMTP()),
		channel.NewTelegramAdapter(cfg.Telegram()),
		channel.NewCalendarAdapter(cfg.Google()),
	}

	return &app{
		Config:        cfg,
		Logger:        log,
		DB:            db,
		Subscriptions: storage.NewSQLiteSubscriptionStore(db),
		Preferences:   storage.NewSQLitePreferenceStore(db),
		Ledger:        ledger,
		Adapters:      adapters,
		Dispatcher:    reminder.NewDispatcher(ledger, log, adapters...),
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("closing database", "error", err)
	}
}
