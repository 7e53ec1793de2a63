// Package notify posts embed-style event messages to chat webhooks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/observability"
)

// Kind selects the webhook an event is posted to.
type Kind string

// Notification kinds.
const (
	KindBurn   Kind = "burn"
	KindScam   Kind = "scam"
	KindTalent Kind = "talent"
)

// DefaultTimeout bounds a single webhook POST.
const DefaultTimeout = 10 * time.Second

// Field is one name/value row of an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is a structured chat message.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

type payload struct {
	Embeds []Embed `json:"embeds"`
}

// Notifier delivers events. Delivery failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, embed Embed)
}

// Nop discards every event.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Kind, Embed) {}

// Webhook posts events to one URL per kind. Kinds without a URL are skipped.
type Webhook struct {
	urls   map[Kind]string
	client *http.Client
}

// WebhookOption configures Webhook.
type WebhookOption func(*Webhook)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = client }
}

// NewWebhook creates a webhook notifier.
func NewWebhook(urls map[Kind]string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		urls:   make(map[Kind]string, len(urls)),
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for k, u := range urls {
		if u != "" {
			w.urls[k] = u
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Notify posts embed and logs any failure.
func (w *Webhook) Notify(ctx context.Context, kind Kind, embed Embed) {
	if _, ok := w.urls[kind]; !ok {
		log.Debug().Str("component", "notify").Str("kind", string(kind)).Msg("no webhook configured, skipping")
		observability.RecordNotification(string(kind), "skipped")
		return
	}
	if err := w.Send(ctx, kind, embed); err != nil {
		log.Warn().Str("component", "notify").Str("kind", string(kind)).Err(err).Msg("webhook delivery failed")
		observability.RecordNotification(string(kind), "failed")
		return
	}
	observability.RecordNotification(string(kind), "sent")
}

// Send posts embed and returns the delivery error.
func (w *Webhook) Send(ctx context.Context, kind Kind, embed Embed) error {
	url, ok := w.urls[kind]
	if !ok {
		return fmt.Errorf("no webhook for %s", kind)
	}
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(payload{Embeds: []Embed{embed}})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}

var (
	_ Notifier = (*Webhook)(nil)
	_ Notifier = Nop{}
)
