// Package reminder contains the due-reminder decision policy and the
// per-channel dispatcher. The policy is a pure decision function over a
// subscription, the user's thresholds, the current instant, and ledger state;
// the dispatcher fans one due reminder out to the enabled channels and writes
// the ledger entries that make the whole process idempotent.
package reminder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// DueReminder is the ephemeral (subscription, threshold) pair produced by the
// policy and consumed immediately by the dispatcher. It is never persisted.
type DueReminder struct {
	Subscription  *storage.Subscription
	ThresholdDays int
}

// LedgerReader is the ledger lookup capability the policy needs.
type LedgerReader interface {
	SentChannels(ctx context.Context, subscriptionID string, thresholdDays int) ([]storage.Channel, error)
}

// DaysUntilRenewal computes ceil((renewal - now) / 1 day). A subscription
// renewing later today yields 0; one renewing tomorrow yields 1.
func DaysUntilRenewal(renewal, now time.Time) int {
	return int(math.Ceil(renewal.Sub(now).Hours() / 24))
}

// DueThresholds returns the thresholds due for sub right now.
//
// A threshold t is due iff the subscription is active, daysUntilRenewal == t
// (exact match, so a threshold fires on exactly one calendar day), and at
// least one of the user's ready channels has no sent ledger entry for the
// (subscription, t) pair. Scoping the ledger check per channel means a
// channel that failed while a sibling succeeded stays eligible for retry on a
// later tick, while channels that already sent are never re-attempted.
func DueThresholds(ctx context.Context, sub *storage.Subscription, prefs *storage.NotificationPreferences, now time.Time, ledger LedgerReader) ([]DueReminder, error) {
	if !sub.Active {
		return nil, nil
	}
	ready := prefs.ReadyChannels()
	if len(ready) == 0 {
		return nil, nil
	}

	days := DaysUntilRenewal(sub.NextRenewal, now)

	var due []DueReminder
	seen := make(map[int]bool, len(prefs.Thresholds))
	for _, t := range prefs.Thresholds {
		if t != days || seen[t] {
			continue
		}
		seen[t] = true

		sent, err := ledger.SentChannels(ctx, sub.ID, t)
		if err != nil {
			return nil, fmt.Errorf("looking up sent channels for %q/%d: %w", sub.ID, t, err)
		}
		if remaining(ready, sent) == 0 {
			continue
		}
		due = append(due, DueReminder{Subscription: sub, ThresholdDays: t})
	}
	return due, nil
}

// remaining counts the ready channels without a sent entry.
func remaining(ready, sent []storage.Channel) int {
	sentSet := make(map[storage.Channel]bool, len(sent))
	for _, ch := range sent {
		sentSet[ch] = true
	}
	n := 0
	for _, ch := range ready {
		if !sentSet[ch] {
			n++
		}
	}
	return n
}
