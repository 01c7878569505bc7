package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/renewd/internal/service"
	"github.com/shaharia-lab/renewd/internal/storage"
	"github.com/shaharia-lab/renewd/internal/storage/mocks"
)

// stubTickRunner records RunTickNow calls.
type stubTickRunner struct {
	calls int
	err   error
}

func (s *stubTickRunner) RunTickNow(_ context.Context) error {
	s.calls++
	return s.err
}

// stubAdapter implements channel.Adapter for TestChannel tests.
type stubAdapter struct {
	name    storage.Channel
	testErr error
}

func (a *stubAdapter) Name() storage.Channel { return a.name }

func (a *stubAdapter) Send(_ context.Context, _ *storage.NotificationPreferences, _ *storage.Subscription, _ int) (string, error) {
	return "", nil
}

func (a *stubAdapter) TestConnection(_ context.Context, _ *storage.NotificationPreferences) error {
	return a.testErr
}

func TestReminderService_RunTickNowPassthrough(t *testing.T) {
	runner := &stubTickRunner{err: errors.New("busy")}
	svc := service.NewReminderService(runner, &mocks.MockReminderLedger{}, nil)

	err := svc.RunTickNow(context.Background())
	assert.EqualError(t, err, "busy")
	assert.Equal(t, 1, runner.calls)
}

func TestReminderService_TestChannel(t *testing.T) {
	email := &stubAdapter{name: storage.ChannelEmail}
	telegram := &stubAdapter{name: storage.ChannelTelegram, testErr: errors.New("bad token")}
	svc := service.NewReminderService(&stubTickRunner{}, &mocks.MockReminderLedger{}, nil, email, telegram)

	prefs := &storage.NotificationPreferences{UserID: "user-1", Thresholds: []int{3}}

	assert.NoError(t, svc.TestChannel(context.Background(), storage.ChannelEmail, prefs))
	assert.EqualError(t, svc.TestChannel(context.Background(), storage.ChannelTelegram, prefs), "bad token")

	err := svc.TestChannel(context.Background(), storage.Channel("sms"), prefs)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// Known channel with no adapter registered.
	err = svc.TestChannel(context.Background(), storage.ChannelCalendar, prefs)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestReminderService_StatsWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	ledger := &mocks.MockReminderLedger{}
	ledger.On("Stats", mock.Anything, "user-1", now.AddDate(0, 0, -30)).
		Return(storage.ReminderStats{SentByChannel: storage.ChannelCounts{storage.ChannelEmail: 4}}, nil)

	svc := service.NewReminderService(&stubTickRunner{}, ledger, clock)

	stats, err := svc.Stats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 30, stats.WindowDays)
	assert.Equal(t, 4, stats.SentByChannel[storage.ChannelEmail])
	ledger.AssertExpectations(t)
}

func TestSubscriptionService_Validation(t *testing.T) {
	store := &mocks.MockSubscriptionStore{}
	svc := service.NewSubscriptionService(store)

	_, err := svc.List(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	err = svc.Create(context.Background(), &storage.Subscription{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscriptionService_GetNotFound(t *testing.T) {
	store := &mocks.MockSubscriptionStore{}
	store.On("Get", mock.Anything, "missing").Return(nil, nil)
	svc := service.NewSubscriptionService(store)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscriptionService_UpdateMissing(t *testing.T) {
	store := &mocks.MockSubscriptionStore{}
	store.On("Get", mock.Anything, "sub-1").Return(nil, nil)
	svc := service.NewSubscriptionService(store)

	err := svc.Update(context.Background(), &storage.Subscription{
		ID:           "sub-1",
		UserID:       "user-1",
		Name:         "Spotify",
		BillingCycle: storage.CycleMonthly,
		NextRenewal:  time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPreferenceService_GetMasksToken(t *testing.T) {
	store := &mocks.MockPreferenceStore{}
	store.On("Get", mock.Anything, "user-1").Return(&storage.NotificationPreferences{
		UserID:     "user-1",
		Thresholds: []int{3},
		Calendar:   storage.CalendarConfig{Enabled: true, CalendarID: "primary", Token: `{"access_token":"secret"}`},
	}, nil)
	svc := service.NewPreferenceService(store)

	got, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "***", got.Calendar.Token)
}

func TestPreferenceService_GetMissing(t *testing.T) {
	store := &mocks.MockPreferenceStore{}
	store.On("Get", mock.Anything, "nobody").Return(nil, nil)
	svc := service.NewPreferenceService(store)

	_, err := svc.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPreferenceService_PutPreservesMaskedToken(t *testing.T) {
	store := &mocks.MockPreferenceStore{}
	store.On("Get", mock.Anything, "user-1").Return(&storage.NotificationPreferences{
		UserID:     "user-1",
		Thresholds: []int{3},
		Calendar:   storage.CalendarConfig{Enabled: true, CalendarID: "primary", Token: `{"access_token":"secret"}`},
	}, nil)
	store.On("Put", mock.Anything, mock.MatchedBy(func(p *storage.NotificationPreferences) bool {
		return p.Calendar.Token == `{"access_token":"secret"}`
	})).Return(nil)

	svc := service.NewPreferenceService(store)

	err := svc.Put(context.Background(), &storage.NotificationPreferences{
		UserID:     "user-1",
		Thresholds: []int{7, 3},
		Calendar:   storage.CalendarConfig{Enabled: true, CalendarID: "primary", Token: "***"},
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestPreferenceService_PutRejectsInvalid(t *testing.T) {
	store := &mocks.MockPreferenceStore{}
	svc := service.NewPreferenceService(store)

	err := svc.Put(context.Background(), &storage.NotificationPreferences{UserID: "user-1"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}
