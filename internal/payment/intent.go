// Package payment wraps the external card processor.  The marketplace only
// consumes two things from it: creating a payment intent (amount in, client
// secret out) ahead of the client-side confirmation flow, and the
// transaction reference the client reports back at finalization time.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// IntentCreator is the consumed interface: an amount plus currency in, a
// client secret out.  Handlers depend on this so tests can substitute a
// stub.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error)
}

// Client talks to a Stripe-compatible payment intents API over HTTPS with
// form-encoded requests and bearer authentication.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewClient builds a Client for the given API base URL and secret key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// ErrInvalidAmount is returned for amounts below one cent; the processor
// would reject them anyway, so the call is never made.
var ErrInvalidAmount = errors.New("payment amount must be at least 1 cent")

// CreateIntent creates a card payment intent and returns its client secret.
func (c *Client) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	if amountCents < 1 {
		return "", ErrInvalidAmount
	}
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amountCents))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment intent request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment intent request failed: status %d", resp.StatusCode)
	}

	var out struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("payment intent response: %w", err)
	}
	if out.ClientSecret == "" {
		return "", errors.New("payment intent response missing client_secret")
	}
	return out.ClientSecret, nil
}
