package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shaharia-lab/renewd/internal/reminder"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// tickTotals accumulates counters across one tick for logging and events.
type tickTotals struct {
	users         int
	subscriptions int
	due           int
	sent          int
	failed        int
	userErrors    int
}

// runTick executes one full evaluation pass. Failures are isolated per user
// and per subscription: a single bad record never halts the tick.
func (e *Engine) runTick(ctx context.Context) {
	started := e.clock.Now()

	users, err := e.cfg.Preferences.ListUsersWithPreferences(ctx)
	if err != nil {
		e.logger.Error("failed to load users with preferences, aborting tick", "error", err)
		return
	}

	var totals tickTotals
	totals.users = len(users)

	for _, up := range users {
		if err := e.processUser(ctx, up, &totals); err != nil {
			totals.userErrors++
			e.logger.Error("failed to process user, continuing with next",
				"user_id", up.UserID, "error", err)
			e.publish(EventUserSkipped, map[string]string{
				"user_id": up.UserID,
				"error":   err.Error(),
			})
		}
	}

	elapsed := e.clock.Now().Sub(started)
	tickDuration.Observe(elapsed.Seconds())
	ticksTotal.Inc()

	e.logger.Info("reminder tick finished",
		"users", totals.users, "subscriptions", totals.subscriptions,
		"due", totals.due, "sent", totals.sent, "failed", totals.failed,
		"user_errors", totals.userErrors, "duration", elapsed)

	e.publish(EventTickFinished, map[string]string{
		"users":       strconv.Itoa(totals.users),
		"due":         strconv.Itoa(totals.due),
		"sent":        strconv.Itoa(totals.sent),
		"failed":      strconv.Itoa(totals.failed),
		"user_errors": strconv.Itoa(totals.userErrors),
	})
}

// processUser evaluates all of one user's active subscriptions. Anything
// escaping the per-subscription handling, including panics from defects, is
// converted to an error here so the tick continues with the next user.
func (e *Engine) processUser(ctx context.Context, up storage.UserPreferences, totals *tickTotals) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing user: %v", r)
		}
	}()

	prefs := up.Preferences
	if prefs == nil {
		return fmt.Errorf("user %q has no preferences record", up.UserID)
	}
	if err := prefs.Validate(); err != nil {
		return err
	}

	if !sendWindowOpen(prefs, e.clock.Now()) {
		e.logger.Debug("user's preferred send time not reached, skipping",
			"user_id", up.UserID, "send_at", prefs.SendAt, "timezone", prefs.Timezone)
		return nil
	}

	subs, err := e.cfg.Subscriptions.ListActiveForUser(ctx, up.UserID)
	if err != nil {
		return fmt.Errorf("loading active subscriptions: %w", err)
	}
	totals.subscriptions += len(subs)

	for _, sub := range subs {
		if subErr := e.processSubscription(ctx, sub, prefs, totals); subErr != nil {
			e.logger.Error("failed to process subscription, continuing with next",
				"user_id", up.UserID, "subscription_id", sub.ID, "error", subErr)
		}
	}
	return nil
}

// processSubscription runs the policy for one subscription and dispatches any
// due reminders.
func (e *Engine) processSubscription(ctx context.Context, sub *storage.Subscription, prefs *storage.NotificationPreferences, totals *tickTotals) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	due, err := reminder.DueThresholds(ctx, sub, prefs, e.clock.Now(), e.cfg.Ledger)
	if err != nil {
		return err
	}
	totals.due += len(due)

	for _, d := range due {
		result := e.cfg.Dispatcher.Dispatch(ctx, d, prefs)
		totals.sent += result.Sent()
		totals.failed += result.Failed()

		if len(result.Errors) > 0 {
			e.publish(EventDispatchFailed, map[string]string{
				"subscription_id": result.SubscriptionID,
				"threshold_days":  strconv.Itoa(result.ThresholdDays),
				"errors":          fmt.Sprint(result.Errors),
			})
		}
	}
	return nil
}

// publish emits an event when a publisher is configured.
func (e *Engine) publish(eventType string, payload map[string]string) {
	if e.cfg.EventPublisher != nil {
		e.cfg.EventPublisher.Publish(eventType, payload)
	}
}

// sendWindowOpen reports whether the user's preferred local send time has
// passed for the current day. An empty send_at means reminders may go out on
// any tick; an unknown timezone falls back to UTC rather than silencing the
// user entirely.
func sendWindowOpen(prefs *storage.NotificationPreferences, now time.Time) bool {
	if prefs.SendAt == "" {
		return true
	}

	loc := time.UTC
	if prefs.Timezone != "" {
		if l, err := time.LoadLocation(prefs.Timezone); err == nil {
			loc = l
		}
	}

	at, err := time.Parse("15:04", prefs.SendAt)
	if err != nil {
		return true
	}

	local := now.In(loc)
	return local.Hour() > at.Hour() ||
		(local.Hour() == at.Hour() && local.Minute() >= at.Minute())
}
