package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	sendEndpoint   = "https://api.sendgrid.com/v3/mail/send"
	requestTimeout = 10 * time.Second
)

// SendGridMailer delivers transactional email through the SendGrid v3 API.
type SendGridMailer struct {
	apiKey string
	from   string
	client *http.Client
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (m *SendGridMailer) SendWelcome(ctx context.Context, email, name string) error {
	return m.send(ctx, email, "Welcome to Task Manager",
		fmt.Sprintf("Hi %s. Welcome to Task Manager.", name))
}

func (m *SendGridMailer) SendCancellation(ctx context.Context, email, name string) error {
	return m.send(ctx, email, "Sorry to see you go",
		fmt.Sprintf("Hi %s. Sorry to see you go.", name))
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (m *SendGridMailer) send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(sendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From:             emailAddress{Email: m.from},
		Subject:          subject,
		Content:          []content{{Type: "text/plain", Value: body}},
	})
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("send mail: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// NoopMailer logs instead of sending. Used when no API key is configured,
// typically in development and tests.
type NoopMailer struct {
	log zerolog.Logger
}

func NewNoopMailer(log zerolog.Logger) *NoopMailer {
	return &NoopMailer{log: log}
}

func (m *NoopMailer) SendWelcome(_ context.Context, email, _ string) error {
	m.log.Debug().Str("to", email).Msg("welcome email skipped, mailer disabled")
	return nil
}

func (m *NoopMailer) SendCancellation(_ context.Context, email, _ string) error {
	m.log.Debug().Str("to", email).Msg("cancellation email skipped, mailer disabled")
	return nil
}
