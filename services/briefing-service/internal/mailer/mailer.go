package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/spf13/viper"
)

// Sender delivers one HTML email. Sends are irreversible and externally
// visible.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendMailer sends through a Resend-style transactional email API.
type ResendMailer struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewResendMailer creates a mailer from configuration.
func NewResendMailer() *ResendMailer {
	apiURL := viper.GetString("email.api_url")
	if apiURL == "" {
		apiURL = "https://api.resend.com"
	}
	from := viper.GetString("email.from")
	if from == "" {
		from = "PreMeet <briefings@premeet.app>"
	}

	return &ResendMailer{
		apiURL: apiURL,
		apiKey: viper.GetString("email.api_key"),
		from:   from,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send implements Sender.
func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: email API status %d: %s", apperr.ErrUpstream, resp.StatusCode, string(body))
	}

	return nil
}
