package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"signflow/internal/config"
)

// Mailer delivers a rendered message through the configured mail
// gateway API.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// Message is one outbound email.
type Message struct {
	ToEmail  string `json:"to_email"`
	ToName   string `json:"to_name"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

type apiMailer struct {
	client  *http.Client
	config  *config.MailConfig
	baseURL string
	logger  *zap.Logger
}

func NewMailer(cfg *config.Config, logger *zap.Logger) Mailer {
	return &apiMailer{
		client: &http.Client{
			Timeout: cfg.Mail.Timeout,
		},
		config:  &cfg.Mail,
		baseURL: cfg.Mail.BaseURL,
		logger:  logger,
	}
}

type sendRequest struct {
	From    address   `json:"from"`
	To      []address `json:"to"`
	Subject string    `json:"subject"`
	HTML    string    `json:"html"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (m *apiMailer) Send(ctx context.Context, msg *Message) error {
	payload := sendRequest{
		From:    address{Email: m.config.FromEmail, Name: m.config.FromName},
		To:      []address{{Email: msg.ToEmail, Name: msg.ToName}},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail request: %w", err)
	}

	url := m.baseURL + "/v1/mail/send"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail gateway returned status=%d, body=%s", resp.StatusCode, string(body))
	}

	m.logger.Info("Mail delivered",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
	)

	return nil
}
