package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shaharia-lab/renewd/internal/storage"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

// TelegramConfig holds the application-level Telegram bot settings. The
// per-user destination chat id lives in the user's preferences.
type TelegramConfig struct {
	BotToken string
	// APIBase overrides the Telegram API base URL. Used in tests.
	APIBase string
}

// TelegramAdapter delivers reminders as Telegram messages via the Bot API.
type TelegramAdapter struct {
	config TelegramConfig
	client *http.Client
}

// NewTelegramAdapter creates a new TelegramAdapter with the given bot configuration.
func NewTelegramAdapter(config TelegramConfig) *TelegramAdapter {
	if config.APIBase == "" {
		config.APIBase = defaultTelegramAPIBase
	}
	return &TelegramAdapter{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Name returns the channel identifier.
func (a *TelegramAdapter) Name() storage.Channel { return storage.ChannelTelegram }

// telegramResponse wraps the standard Telegram Bot API response envelope.
type telegramResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// sentMessage is the subset of the sendMessage result we care about.
type sentMessage struct {
	MessageID int64 `json:"message_id"`
}

// botUser is the result of the getMe API call.
type botUser struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
}

// Send delivers the reminder to the user's configured chat.
func (a *TelegramAdapter) Send(ctx context.Context, prefs *storage.NotificationPreferences, sub *storage.Subscription, thresholdDays int) (string, error) {
	text := reminderSubject(sub, thresholdDays) + "\n\n" + reminderBody(sub, thresholdDays)

	form := url.Values{}
	form.Set("chat_id", prefs.Telegram.ChatID)
	form.Set("text", text)

	raw, err := a.call(ctx, "sendMessage", form)
	if err != nil {
		return "", err
	}

	var msg sentMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", fmt.Errorf("parsing sendMessage result: %w", err)
	}
	return strconv.FormatInt(msg.MessageID, 10), nil
}

// TestConnection calls the getMe API to verify the bot token, then checks
// that a destination chat is configured.
func (a *TelegramAdapter) TestConnection(ctx context.Context, prefs *storage.NotificationPreferences) error {
	if !prefs.Telegram.Ready() {
		return fmt.Errorf("telegram channel is not fully configured")
	}

	raw, err := a.call(ctx, "getMe", url.Values{})
	if err != nil {
		return err
	}

	var bot botUser
	if err := json.Unmarshal(raw, &bot); err != nil {
		return fmt.Errorf("parsing bot user: %w", err)
	}
	if !bot.IsBot {
		return fmt.Errorf("token does not belong to a bot account")
	}
	return nil
}

// call performs one Bot API method call and unwraps the response envelope.
func (a *TelegramAdapter) call(ctx context.Context, method string, form url.Values) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", a.config.APIBase, a.config.BotToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Telegram %s: %w", method, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Telegram response: %w", err)
	}

	var tgResp telegramResponse
	if err := json.Unmarshal(body, &tgResp); err != nil {
		return nil, fmt.Errorf("parsing Telegram response: %w", err)
	}
	if !tgResp.OK {
		return nil, fmt.Errorf("telegram API error: %s", tgResp.Description)
	}
	return tgResp.Result, nil
}
