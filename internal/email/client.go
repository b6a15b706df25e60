// Package email talks to the EmailJS REST API, the transactional email
// service the site delegates its confirmation messages to.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public EmailJS endpoint.
const DefaultBaseURL = "https://api.emailjs.com"

// Config identifies the EmailJS account and service used for sending.
type Config struct {
	BaseURL   string
	ServiceID string
	PublicKey string
}

// Client sends templated emails through EmailJS.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger
}

// NewClient constructs an EmailJS client. A nil httpClient falls back to a
// client with a send timeout; the service applies no retries on top.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{httpClient: httpClient, cfg: cfg, logger: logger}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send delivers one templated email. Any non-2xx response is an error; the
// caller decides what a failed send means for the surrounding flow.
func (c *Client) Send(ctx context.Context, templateID string, params map[string]string) error {
	if c == nil {
		return fmt.Errorf("email client not configured")
	}
	if templateID == "" {
		return fmt.Errorf("template id is required")
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     templateID,
		UserID:         c.cfg.PublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode send request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/api/v1.0/email/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach email service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorContext(ctx, "email service rejected send",
			"status", resp.StatusCode,
			"template_id", templateID,
			"body", strings.TrimSpace(string(body)),
		)
		return fmt.Errorf("email service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.InfoContext(ctx, "email sent", "template_id", templateID)
	return nil
}
