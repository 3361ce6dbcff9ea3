package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Event is the JSON body of an outbound webhook.
type Event struct {
	Event      string `json:"event"`
	EmployeeID string `json:"employeeId"`
	Email      string `json:"email"`
	PayType    string `json:"payType"`
	PayGroup   string `json:"payGroup"`
	OccurredAt string `json:"occurredAt"`
}

type WebhookConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

type Webhook struct {
	cfg    WebhookConfig
	client *http.Client
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Webhook{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (w *Webhook) Configured() bool {
	return w != nil && strings.TrimSpace(w.cfg.URL) != ""
}

// Send posts ev once and returns the receiver's status code.
func (w *Webhook) Send(ctx context.Context, ev Event) (int, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventTypeHeader, ev.Event)
	if w.cfg.Secret != "" {
		req.Header.Set(SecretHeader, w.cfg.Secret)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
