package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// calendarScopes are the OAuth2 scopes required to insert reminder events.
var calendarScopes = []string{
	"https://www.googleapis.com/auth/calendar.events",
}

// GoogleConfig holds the application-level Google OAuth client credentials.
// The per-user token and target calendar live in the user's preferences.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

// CalendarAdapter delivers reminders as all-day events on the user's Google
// Calendar, placed on the renewal date.
type CalendarAdapter struct {
	oauth *oauth2.Config
}

// NewCalendarAdapter creates a new CalendarAdapter with the given client credentials.
func NewCalendarAdapter(config GoogleConfig) *CalendarAdapter {
	return &CalendarAdapter{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       calendarScopes,
			Endpoint:     googleoauth.Endpoint,
		},
	}
}

// Name returns the channel identifier.
func (a *CalendarAdapter) Name() storage.Channel { return storage.ChannelCalendar }

// Send inserts an all-day reminder event on the renewal date. The returned
// provider message id is the created event id.
func (a *CalendarAdapter) Send(ctx context.Context, prefs *storage.NotificationPreferences, sub *storage.Subscription, thresholdDays int) (string, error) {
	svc, err := a.service(ctx, prefs)
	if err != nil {
		return "", err
	}

	renewal := sub.NextRenewal.Format("2006-01-02")
	event := &calendar.Event{
		Summary:     reminderSubject(sub, thresholdDays),
		Description: reminderBody(sub, thresholdDays),
		Start:       &calendar.EventDateTime{Date: renewal},
		End:         &calendar.EventDateTime{Date: sub.NextRenewal.AddDate(0, 0, 1).Format("2006-01-02")},
	}

	created, err := svc.Events.Insert(prefs.Calendar.CalendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("creating calendar event: %w", err)
	}
	return created.Id, nil
}

// TestConnection verifies the stored token grants access to the configured calendar.
func (a *CalendarAdapter) TestConnection(ctx context.Context, prefs *storage.NotificationPreferences) error {
	if !prefs.Calendar.Ready() {
		return fmt.Errorf("calendar channel is not fully configured")
	}

	svc, err := a.service(ctx, prefs)
	if err != nil {
		return err
	}
	if _, err := svc.Calendars.Get(prefs.Calendar.CalendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("accessing calendar %q: %w", prefs.Calendar.CalendarID, err)
	}
	return nil
}

// service builds a Calendar API client from the user's stored OAuth token.
func (a *CalendarAdapter) service(ctx context.Context, prefs *storage.NotificationPreferences) (*calendar.Service, error) {
	var token oauth2.Token
	if err := json.Unmarshal([]byte(prefs.Calendar.Token), &token); err != nil {
		return nil, fmt.Errorf("parsing calendar token: %w", err)
	}

	httpClient := a.oauth.Client(ctx, &token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return svc, nil
}
