package reminder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/renewd/internal/reminder"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// sentLedger is a LedgerReader stub returning a fixed sent-channel set per
// (subscription, threshold) pair.
type sentLedger struct {
	sent map[string]map[int][]storage.Channel
}

func (l *sentLedger) SentChannels(_ context.Context, subscriptionID string, thresholdDays int) ([]storage.Channel, error) {
	return l.sent[subscriptionID][thresholdDays], nil
}

func emptyLedger() *sentLedger {
	return &sentLedger{sent: map[string]map[int][]storage.Channel{}}
}

func (l *sentLedger) markSent(subscriptionID string, thresholdDays int, channels ...storage.Channel) {
	if l.sent[subscriptionID] == nil {
		l.sent[subscriptionID] = map[int][]storage.Channel{}
	}
	l.sent[subscriptionID][thresholdDays] = append(l.sent[subscriptionID][thresholdDays], channels...)
}

func buildSubscription(renewal time.Time) *storage.Subscription {
	return &storage.Subscription{
		ID:           "sub-1",
		UserID:       "user-1",
		Name:         "Spotify",
		CostCents:    999,
		Currency:     "USD",
		BillingCycle: storage.CycleMonthly,
		NextRenewal:  renewal,
		Active:       true,
	}
}

func buildPrefs(thresholds ...int) *storage.NotificationPreferences {
	return &storage.NotificationPreferences{
		UserID:     "user-1",
		Thresholds: thresholds,
		Timezone:   "UTC",
		Email:      storage.EmailConfig{Enabled: true, Address: "user@example.com"},
		Telegram:   storage.TelegramConfig{Enabled: true, ChatID: "12345"},
	}
}

func TestDaysUntilRenewal(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, reminder.DaysUntilRenewal(now.Add(72*time.Hour), now))
	// Partial days round up.
	assert.Equal(t, 3, reminder.DaysUntilRenewal(now.Add(50*time.Hour), now))
	assert.Equal(t, 1, reminder.DaysUntilRenewal(now.Add(time.Hour), now))
	assert.Equal(t, 0, reminder.DaysUntilRenewal(now, now))
	// Past renewals go negative rather than matching any threshold.
	assert.Equal(t, -1, reminder.DaysUntilRenewal(now.Add(-30*time.Hour), now))
}

func TestDueThresholds_ExactDayFiring(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := buildSubscription(now.Add(72 * time.Hour))

	due, err := reminder.DueThresholds(context.Background(), sub, buildPrefs(7, 3, 1), now, emptyLedger())
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, 3, due[0].ThresholdDays)
	assert.Equal(t, "sub-1", due[0].Subscription.ID)
}

func TestDueThresholds_InactiveNeverDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := buildSubscription(now.Add(72 * time.Hour))
	sub.Active = false

	due, err := reminder.DueThresholds(context.Background(), sub, buildPrefs(7, 3, 1), now, emptyLedger())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueThresholds_NoReadyChannels(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := buildSubscription(now.Add(72 * time.Hour))

	prefs := buildPrefs(3)
	prefs.Email = storage.EmailConfig{Enabled: true} // enabled but no address
	prefs.Telegram = storage.TelegramConfig{}

	due, err := reminder.DueThresholds(context.Background(), sub, prefs, now, emptyLedger())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueThresholds_AllChannelsSentIsNotDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := buildSubscription(now.Add(72 * time.Hour))

	ledger := emptyLedger()
	ledger.markSent("sub-1", 3, storage.ChannelEmail, storage.ChannelTelegram)

	due, err := reminder.DueThresholds(context.Background(), sub, buildPrefs(7, 3, 1), now, ledger)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueThresholds_FailedChannelStaysDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := buildSubscription(now.Add(72 * time.Hour))

	// Telegram delivered on an earlier tick, email did not.
	ledger := emptyLedger()
	ledger.markSent("sub-1", 3, storage.ChannelTelegram)

	due, err := reminder.DueThresholds(context.Background(), sub, buildPrefs(7, 3, 1), now, ledger)
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, 3, due[0].ThresholdDays)
}

func TestDueThresholds_DuplicateThresholdsFireOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := buildSubscription(now.Add(72 * time.Hour))

	due, err := reminder.DueThresholds(context.Background(), sub, buildPrefs(3, 3, 3), now, emptyLedger())
	require.NoError(t, err)
	assert.Len(t, due, 1)
}
