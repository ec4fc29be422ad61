package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is the transport-level payload: send(to, subject, htmlBody,
// textBody). Delivery is fire-and-forget; transports own their retries.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// Transport delivers a rendered notification to a user
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// WebhookTransport POSTs the message as JSON to a configured endpoint
type WebhookTransport struct {
	Endpoint string
	Client   *http.Client
}

func NewWebhookTransport(endpoint string) *WebhookTransport {
	return &WebhookTransport{
		Endpoint: endpoint,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (t *WebhookTransport) Name() string {
	return "webhook"
}

func (t *WebhookTransport) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook send failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// QueueTransport appends the message to a Redis Stream consumed by an
// external delivery worker (email/bot).
type QueueTransport struct {
	client *redis.Client
	stream string
}

func NewQueueTransport(client *redis.Client, stream string) *QueueTransport {
	return &QueueTransport{client: client, stream: stream}
}

func (t *QueueTransport) Name() string {
	return "queue"
}

func (t *QueueTransport) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: t.stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}
	if _, err := t.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// MultiTransport fans one message out to every configured transport and
// joins the soft failures.
type MultiTransport []Transport

func (m MultiTransport) Name() string {
	return "multi"
}

func (m MultiTransport) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, t := range m {
		if err := t.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}
