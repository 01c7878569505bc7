package channel

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// SMTPConfig holds the application-level SMTP server settings shared by all
// users. The per-user destination address lives in the user's preferences.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromAddr   string
	Encryption string // "none", "starttls", "ssl_tls"
}

// EmailAdapter delivers reminders via SMTP using the go-mail library.
type EmailAdapter struct {
	config SMTPConfig
}

// NewEmailAdapter creates a new EmailAdapter with the given server configuration.
func NewEmailAdapter(config SMTPConfig) *EmailAdapter {
	return &EmailAdapter{config: config}
}

// Name returns the channel identifier.
func (a *EmailAdapter) Name() storage.Channel { return storage.ChannelEmail }

// Send delivers the reminder to the user's configured address.
func (a *EmailAdapter) Send(ctx context.Context, prefs *storage.NotificationPreferences, sub *storage.Subscription, thresholdDays int) (string, error) {
	subject := SubjectPrefix + reminderSubject(sub, thresholdDays)
	body := reminderBody(sub, thresholdDays)

	m := mail.NewMsg()
	if err := m.From(a.config.FromAddr); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(prefs.Email.Address); err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", prefs.Email.Address, err)
	}

	m.Subject(subject)

	// Plain-text fallback for clients that don't render HTML.
	m.SetBodyString(mail.TypeTextPlain, body)
	if html, err := buildEmailHTML(subject, body); err == nil {
		m.AddAlternativeString(mail.TypeTextHTML, html)
	}

	c, err := a.client()
	if err != nil {
		return "", err
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("sending reminder email: %w", err)
	}
	return "", nil
}

// TestConnection dials the SMTP server with the configured credentials
// without sending a message.
func (a *EmailAdapter) TestConnection(ctx context.Context, prefs *storage.NotificationPreferences) error {
	if !prefs.Email.Ready() {
		return fmt.Errorf("email channel is not fully configured")
	}

	c, err := a.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("connecting to SMTP server: %w", err)
	}
	return c.Close()
}

func (a *EmailAdapter) client() (*mail.Client, error) {
	c, err := mail.NewClient(a.config.Host,
		mail.WithPort(a.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(a.config.Username),
		mail.WithPassword(a.config.Password),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(a.config.Encryption)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}
	return c, nil
}

// tlsPolicyFromEncryption converts the encryption string to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
