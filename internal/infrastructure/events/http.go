// Package events publishes purchase lifecycle events to downstream consumers.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
)

// HTTPPublisher POSTs each event as JSON to a single endpoint.
type HTTPPublisher struct {
	client  *http.Client
	url     string
	headers map[string]string
}

// HTTPPublisherOption configures HTTPPublisher.
type HTTPPublisherOption func(*HTTPPublisher)

// WithClient sets the HTTP client (default: 10s timeout).
func WithClient(c *http.Client) HTTPPublisherOption {
	return func(p *HTTPPublisher) {
		p.client = c
	}
}

// WithHeader sets a header sent on every request (e.g. Authorization).
func WithHeader(key, value string) HTTPPublisherOption {
	return func(p *HTTPPublisher) {
		if p.headers == nil {
			p.headers = make(map[string]string)
		}
		p.headers[key] = value
	}
}

func NewHTTPPublisher(url string, opts ...HTTPPublisherOption) *HTTPPublisher {
	p := &HTTPPublisher{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event", event.Event)
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &publishError{status: resp.StatusCode}
	}
	return nil
}

type publishError struct {
	status int
}

func (e *publishError) Error() string {
	return fmt.Sprintf("event endpoint returned status %d", e.status)
}

var _ ports.EventPublisher = (*HTTPPublisher)(nil)
