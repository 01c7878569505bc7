package service

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/shaharia-lab/renewd/internal/channel"
	"github.com/shaharia-lab/renewd/internal/engine"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// statsWindowDays is the window covered by reminder stats.
const statsWindowDays = 30

// TickRunner triggers an out-of-band reminder tick.
type TickRunner interface {
	RunTickNow(ctx context.Context) error
}

// ReminderService is the application surface over the reminder engine: manual
// ticks, channel configuration tests, and ledger read access.
type ReminderService interface {
	// RunTickNow triggers an out-of-band tick. Returns
	// engine.ErrTickInProgress if one is already running.
	RunTickNow(ctx context.Context) error
	// TestChannel verifies a channel configuration without sending a real
	// reminder or writing a ledger entry.
	TestChannel(ctx context.Context, ch storage.Channel, prefs *storage.NotificationPreferences) error
	// Stats returns the per-channel sent/failed aggregate for one user over
	// the last 30 days.
	Stats(ctx context.Context, userID string) (storage.ReminderStats, error)
	// ListLog returns the most recent reminder ledger entries.
	ListLog(ctx context.Context, limit int) ([]storage.ReminderLogEntry, error)
}

// reminderServiceImpl implements ReminderService.
type reminderServiceImpl struct {
	engine   TickRunner
	ledger   storage.ReminderLedger
	adapters map[storage.Channel]channel.Adapter
	clock    clockwork.Clock
}

// NewReminderService creates a new ReminderService.
func NewReminderService(eng TickRunner, ledger storage.ReminderLedger, clock clockwork.Clock, adapters ...channel.Adapter) ReminderService {
	byChannel := make(map[storage.Channel]channel.Adapter, len(adapters))
	for _, a := range adapters {
		byChannel[a.Name()] = a
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &reminderServiceImpl{
		engine:   eng,
		ledger:   ledger,
		adapters: byChannel,
		clock:    clock,
	}
}

// RunTickNow triggers an out-of-band tick.
func (s *reminderServiceImpl) RunTickNow(ctx context.Context) error {
	return s.engine.RunTickNow(ctx)
}

// TestChannel verifies the given configuration against the named channel's
// provider. Nothing is persisted and no ledger entry is written.
func (s *reminderServiceImpl) TestChannel(ctx context.Context, ch storage.Channel, prefs *storage.NotificationPreferences) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, ch)
	}
	adapter, ok := s.adapters[ch]
	if !ok {
		return fmt.Errorf("%w: no adapter for channel %q", ErrNotFound, ch)
	}
	return adapter.TestConnection(ctx, prefs)
}

// Stats aggregates the last 30 days of ledger entries for one user.
func (s *reminderServiceImpl) Stats(ctx context.Context, userID string) (storage.ReminderStats, error) {
	since := s.clock.Now().AddDate(0, 0, -statsWindowDays)
	stats, err := s.ledger.Stats(ctx, userID, since)
	if err != nil {
		return stats, err
	}
	stats.WindowDays = statsWindowDays
	return stats, nil
}

// ListLog returns the most recent ledger entries.
func (s *reminderServiceImpl) ListLog(ctx context.Context, limit int) ([]storage.ReminderLogEntry, error) {
	return s.ledger.ListRecent(ctx, limit)
}

// compile-time check that the engine satisfies TickRunner.
var _ TickRunner = (*engine.Engine)(nil)
