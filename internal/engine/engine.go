// Package engine drives the recurring reminder evaluation loop. A single
// gocron timer fires ticks; each tick walks every user with notification
// preferences, runs the due-reminder policy over their active subscriptions,
// and hands due reminders to the dispatcher. Ticks are single-flight: a tick
// never starts while a previous one is still running.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/shaharia-lab/renewd/internal/reminder"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// EventPublisher allows the engine to emit lifecycle events without depending
// on a concrete event bus implementation.
type EventPublisher interface {
	Publish(eventType string, payload map[string]string)
}

// Event type constants for tick lifecycle notifications.
const (
	EventTickFinished   = "reminder_engine.tick.finished"
	EventDispatchFailed = "reminder_engine.dispatch.failed"
	EventUserSkipped    = "reminder_engine.user.skipped"
)

// ErrTickInProgress is returned by RunTickNow when a tick is already running.
var ErrTickInProgress = errors.New("a reminder tick is already running")

const (
	defaultTickInterval = time.Hour
	defaultStartupDelay = 15 * time.Second
)

// Config holds the engine configuration.
type Config struct {
	Subscriptions storage.SubscriptionStore
	Preferences   storage.PreferenceStore
	Ledger        storage.ReminderLedger
	Dispatcher    *reminder.Dispatcher
	Logger        *slog.Logger
	// Clock is injected so tests can advance virtual time. Defaults to the
	// real clock.
	Clock clockwork.Clock
	// TickInterval is the fixed cadence between ticks. Defaults to one hour.
	TickInterval time.Duration
	// StartupDelay postpones the first tick after Start, so the engine never
	// races database initialization. Defaults to 15 seconds.
	StartupDelay time.Duration
	// EventPublisher is optional. When set, tick lifecycle events are published.
	EventPublisher EventPublisher
}

// Engine is the reminder scheduler: Idle between ticks, Running while one
// tick walks the per-user loop.
type Engine struct {
	cron   gocron.Scheduler
	cfg    Config
	clock  clockwork.Clock
	logger *slog.Logger

	// tickMu enforces single-flight ticks. Held for the whole duration of a
	// tick; Stop acquires it to wait for an in-flight tick to finish.
	tickMu sync.Mutex
}

// New creates a new Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Subscriptions == nil || cfg.Preferences == nil || cfg.Ledger == nil || cfg.Dispatcher == nil {
		return nil, fmt.Errorf("engine: subscriptions, preferences, ledger and dispatcher are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.StartupDelay <= 0 {
		cfg.StartupDelay = defaultStartupDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cron, err := gocron.NewScheduler(gocron.WithClock(cfg.Clock))
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}

	return &Engine{
		cron:   cron,
		cfg:    cfg,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// Start schedules the recurring tick and starts the timer. The first tick
// fires after the configured startup delay, then every tick interval.
func (e *Engine) Start() error {
	_, err := e.cron.NewJob(
		gocron.DurationJob(e.cfg.TickInterval),
		gocron.NewTask(e.tick),
		gocron.WithStartAt(gocron.WithStartDateTime(e.clock.Now().Add(e.cfg.StartupDelay))),
	)
	if err != nil {
		return fmt.Errorf("scheduling reminder tick: %w", err)
	}

	e.cron.Start()
	e.logger.Info("reminder engine started",
		"tick_interval", e.cfg.TickInterval, "startup_delay", e.cfg.StartupDelay)
	return nil
}

// Stop halts the timer and waits for the in-flight tick, if any, to finish.
func (e *Engine) Stop() error {
	err := e.cron.Shutdown()

	// Block until a running tick releases the lock.
	e.tickMu.Lock()
	e.tickMu.Unlock() //nolint:staticcheck // acquire-release pair is the wait

	e.logger.Info("reminder engine stopped")
	if err != nil {
		return fmt.Errorf("shutting down scheduler: %w", err)
	}
	return nil
}

// RunTickNow triggers an out-of-band tick, used by the manual "test
// reminders" action. Returns ErrTickInProgress if a tick is already running.
func (e *Engine) RunTickNow(ctx context.Context) error {
	if !e.tickMu.TryLock() {
		return ErrTickInProgress
	}
	defer e.tickMu.Unlock()

	e.runTick(ctx)
	return nil
}

// tick is the timer entry point. If the previous tick is still running the
// new one is skipped entirely rather than queued, keeping ledger reads
// strictly after all writes of any in-flight tick.
func (e *Engine) tick() {
	if !e.tickMu.TryLock() {
		e.logger.Warn("previous reminder tick still running, skipping this tick")
		ticksSkippedTotal.Inc()
		return
	}
	defer e.tickMu.Unlock()

	e.runTick(context.Background())
}
