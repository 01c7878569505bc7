package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaharia-lab/renewd/internal/channel"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// ChannelOutcome is the per-channel result of dispatching one due reminder.
type ChannelOutcome struct {
	Channel           storage.Channel
	Status            storage.ReminderStatus
	ProviderMessageID string
	Err               error
}

// DispatchResult aggregates the per-channel outcomes for one due reminder.
// It is returned to the caller for logging and stats, never as a failure of
// the reminder as a whole.
type DispatchResult struct {
	SubscriptionID string
	ThresholdDays  int
	Outcomes       []ChannelOutcome
	Errors         []string
}

// Sent returns the number of channels that delivered successfully.
func (r DispatchResult) Sent() int { return r.count(storage.StatusSent) }

// Failed returns the number of channels whose delivery attempt failed.
func (r DispatchResult) Failed() int { return r.count(storage.StatusFailed) }

func (r DispatchResult) count(status storage.ReminderStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Dispatcher fans one due reminder out to the user's enabled channels. Each
// channel is attempted independently: a failure on one never blocks another,
// and every attempt lands in the ledger as a sent or failed entry.
type Dispatcher struct {
	adapters map[storage.Channel]channel.Adapter
	ledger   storage.ReminderLedger
	logger   *slog.Logger
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher over the given adapters.
func NewDispatcher(ledger storage.ReminderLedger, logger *slog.Logger, adapters ...channel.Adapter) *Dispatcher {
	byChannel := make(map[storage.Channel]channel.Adapter, len(adapters))
	for _, a := range adapters {
		byChannel[a.Name()] = a
	}
	return &Dispatcher{
		adapters: byChannel,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch delivers one due reminder on every enabled channel.
//
// Channels that are enabled but missing destination data are skipped with a
// warning and no ledger entry; channels that already carry a sent entry for
// this (subscription, threshold) pair are skipped silently, so a partially
// delivered reminder resumes on exactly the channels that still need it.
func (d *Dispatcher) Dispatch(ctx context.Context, due DueReminder, prefs *storage.NotificationPreferences) DispatchResult {
	sub := due.Subscription
	result := DispatchResult{
		SubscriptionID: sub.ID,
		ThresholdDays:  due.ThresholdDays,
	}

	alreadySent, err := d.ledger.SentChannels(ctx, sub.ID, due.ThresholdDays)
	if err != nil {
		// Without ledger state we cannot guarantee idempotency; skip the
		// whole reminder rather than risk a double send.
		d.logger.Error("failed to load sent channels, skipping reminder",
			"subscription_id", sub.ID, "threshold_days", due.ThresholdDays, "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("ledger lookup: %v", err))
		return result
	}
	sentSet := make(map[storage.Channel]bool, len(alreadySent))
	for _, ch := range alreadySent {
		sentSet[ch] = true
	}

	for _, ch := range storage.Channels() {
		if !prefs.Enabled(ch) {
			continue
		}
		if !prefs.Ready(ch) {
			d.logger.Warn("channel enabled but not configured, skipping",
				"user_id", prefs.UserID, "channel", ch, "subscription_id", sub.ID)
			continue
		}
		if sentSet[ch] {
			d.logger.Debug("channel already sent for this threshold, skipping",
				"subscription_id", sub.ID, "threshold_days", due.ThresholdDays, "channel", ch)
			continue
		}
		adapter, ok := d.adapters[ch]
		if !ok {
			d.logger.Warn("no adapter registered for channel, skipping", "channel", ch)
			continue
		}

		outcome := d.sendOne(ctx, adapter, prefs, due)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ch, outcome.Err))
		}
	}
	return result
}

// sendOne attempts delivery on a single channel and records the attempt.
func (d *Dispatcher) sendOne(ctx context.Context, adapter channel.Adapter, prefs *storage.NotificationPreferences, due DueReminder) ChannelOutcome {
	sub := due.Subscription
	ch := adapter.Name()

	msgID, sendErr := adapter.Send(ctx, prefs, sub, due.ThresholdDays)

	entry := storage.ReminderLogEntry{
		SubscriptionID:    sub.ID,
		UserID:            sub.UserID,
		ThresholdDays:     due.ThresholdDays,
		Channel:           ch,
		Status:            storage.StatusSent,
		ProviderMessageID: msgID,
		CreatedAt:         d.now().UTC(),
	}

	outcome := ChannelOutcome{Channel: ch, Status: storage.StatusSent, ProviderMessageID: msgID}
	if sendErr != nil {
		entry.Status = storage.StatusFailed
		entry.ErrorMsg = sendErr.Error()
		entry.ProviderMessageID = ""
		outcome.Status = storage.StatusFailed
		outcome.ProviderMessageID = ""
		outcome.Err = sendErr

		remindersFailedTotal.WithLabelValues(string(ch)).Inc()
		d.logger.Error("reminder delivery failed",
			"subscription_id", sub.ID, "threshold_days", due.ThresholdDays,
			"channel", ch, "error", sendErr)
	} else {
		remindersSentTotal.WithLabelValues(string(ch)).Inc()
		d.logger.Info("reminder delivered",
			"subscription_id", sub.ID, "threshold_days", due.ThresholdDays,
			"channel", ch, "provider_message_id", msgID)
	}

	if recordErr := d.ledger.Record(ctx, entry); recordErr != nil {
		d.logger.Error("failed to record reminder ledger entry",
			"subscription_id", sub.ID, "threshold_days", due.ThresholdDays,
			"channel", ch, "error", recordErr)
	}
	return outcome
}
