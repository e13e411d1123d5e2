package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rathix/command-center/internal/proberesult"
)

// WebhookOption configures a Webhook notifier.
type WebhookOption func(*Webhook)

// Webhook delivers notifications via HTTP POST, carrying the Result as a
// JSON payload. It is not part of the original probe/notifier pairing;
// it is the extension kind for piping results into arbitrary downstream
// automation (chatops bots, incident trackers) that speak plain HTTP.
type Webhook struct {
	name   string
	url    string
	client *http.Client
}

var _ Notifier = (*Webhook)(nil)

// NewWebhook creates a webhook notifier posting to url.
func NewWebhook(name, url string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithHTTPClient overrides the webhook's HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = c }
}

func (w *Webhook) Kind() string { return "webhook" }
func (w *Webhook) Name() string { return w.name }

// webhookPayload is the JSON body posted for each notification.
type webhookPayload struct {
	Name      string    `json:"name"`
	Endpoint  string    `json:"endpoint"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Notify posts the Result as JSON to the configured webhook URL.
func (w *Webhook) Notify(ctx context.Context, result proberesult.Result) error {
	payload := webhookPayload{
		Name:      result.Name,
		Endpoint:  result.Endpoint,
		Title:     result.Title(),
		Message:   result.Message,
		Status:    result.Status.String(),
		Timestamp: result.StartTime,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook %s: marshal: %w", w.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook %s: create request: %w", w.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook %s: send: %w", w.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s: non-2xx response: %d", w.name, resp.StatusCode)
	}
	return nil
}
