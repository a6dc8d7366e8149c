// Package webhook forwards registrations to an upstream HTTP API.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/namecardai/namecard/pkg/domain"
)

// DefaultTimeout applies when the caller's context carries no deadline.
const DefaultTimeout = 15 * time.Second

// ErrUpstream is wrapped around non-success responses.
var ErrUpstream = errors.New("upstream rejected registration")

// Creator implements ports.AccountCreator by POSTing the registration as JSON.
// 409 Conflict maps to domain.ErrEmailTaken.
type Creator struct {
	url     string
	client  *http.Client
	headers http.Header
}

type Option func(*Creator)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Creator) {
		w.client = c
	}
}

// WithHeader adds a header to every request (e.g. an API token).
func WithHeader(key, value string) Option {
	return func(w *Creator) {
		w.headers.Add(key, value)
	}
}

func New(url string, opts ...Option) *Creator {
	w := &Creator{
		url:     url,
		client:  &http.Client{Timeout: DefaultTimeout},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// payload flattens the registration without the confirmation field.
func payload(reg domain.Registration) (map[string]any, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(reg, &out); err != nil {
		return nil, err
	}
	delete(out, domain.FieldConfirmPassword)
	out[domain.FieldEmail] = domain.NormalizeEmail(reg.Email)
	return out, nil
}

func (w *Creator) CreateAccount(ctx context.Context, reg domain.Registration) error {
	fields, err := payload(reg)
	if err != nil {
		return fmt.Errorf("failed to encode registration: %w", err)
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range w.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := w.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to reach upstream: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection is reused.
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch {
	case resp.StatusCode == http.StatusConflict:
		return domain.ErrEmailTaken
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status, bytes.TrimSpace(msg))
	}
}
