package channel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/renewd/internal/channel"
	"github.com/shaharia-lab/renewd/internal/storage"
)

func telegramPrefs() *storage.NotificationPreferences {
	return &storage.NotificationPreferences{
		UserID:     "user-1",
		Thresholds: []int{3},
		Telegram:   storage.TelegramConfig{Enabled: true, ChatID: "4242"},
	}
}

func telegramSubscription() *storage.Subscription {
	return &storage.Subscription{
		ID:           "sub-1",
		UserID:       "user-1",
		Name:         "Spotify",
		CostCents:    999,
		Currency:     "USD",
		BillingCycle: storage.CycleMonthly,
		NextRenewal:  time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Active:       true,
	}
}

func TestTelegramAdapter_Send(t *testing.T) {
	var gotPath, gotChatID, gotText string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":777}}`))
	}))
	defer srv.Close()

	adapter := channel.NewTelegramAdapter(channel.TelegramConfig{
		BotToken: "test-token",
		APIBase:  srv.URL,
	})

	msgID, err := adapter.Send(context.Background(), telegramPrefs(), telegramSubscription(), 3)
	require.NoError(t, err)
	assert.Equal(t, "777", msgID)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "4242", gotChatID)
	assert.Contains(t, gotText, "Spotify renews in 3 days")
	assert.Contains(t, gotText, "9.99 USD/month")
}

func TestTelegramAdapter_SendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	adapter := channel.NewTelegramAdapter(channel.TelegramConfig{BotToken: "t", APIBase: srv.URL})

	_, err := adapter.Send(context.Background(), telegramPrefs(), telegramSubscription(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramAdapter_TestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bott/getMe", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"username":"renewd_bot"}}`))
	}))
	defer srv.Close()

	adapter := channel.NewTelegramAdapter(channel.TelegramConfig{BotToken: "t", APIBase: srv.URL})

	assert.NoError(t, adapter.TestConnection(context.Background(), telegramPrefs()))
}

func TestTelegramAdapter_TestConnectionRejectsNonBot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":false,"username":"someone"}}`))
	}))
	defer srv.Close()

	adapter := channel.NewTelegramAdapter(channel.TelegramConfig{BotToken: "t", APIBase: srv.URL})

	err := adapter.TestConnection(context.Background(), telegramPrefs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot account")
}

func TestTelegramAdapter_TestConnectionRequiresChatID(t *testing.T) {
	adapter := channel.NewTelegramAdapter(channel.TelegramConfig{BotToken: "t"})

	prefs := telegramPrefs()
	prefs.Telegram.ChatID = ""

	err := adapter.TestConnection(context.Background(), prefs)
	assert.Error(t, err)
}
