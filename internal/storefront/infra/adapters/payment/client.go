// Package payment implements the HTTP client for the remote payment
// processor.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the HTTP implementation of ports.PaymentGateway.
type Client struct {
	url    string
	client *http.Client
}

// NewClient returns a gateway client posting charges to the given URL.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type chargeRequest struct {
	CreditCard    map[string]any `json:"credit_card"`
	AmountCharged int64          `json:"amount_charged"`
}

// Charge posts a single charge request and returns the remote status and
// parsed body unchanged. On an HTTP error response the remote body is still
// parsed so the processor's error details reach the caller, falling back to
// an empty body when unparseable. There are no retries: one failed attempt
// is reported upward immediately.
func (c *Client) Charge(ctx context.Context, creditCard map[string]any, amountCharged int64) (int, map[string]any, error) {
	payload, err := json.Marshal(chargeRequest{
		CreditCard:    creditCard,
		AmountCharged: amountCharged,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("payment: marshal charge: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("payment: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("payment: charge %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("payment: read response: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		if resp.StatusCode == http.StatusOK {
			// A success response we cannot parse is a broken contract, not a
			// processor decision to pass through.
			return 0, nil, fmt.Errorf("payment: decode response: %w", err)
		}
		body = map[string]any{}
	}
	if body == nil {
		body = map[string]any{}
	}

	return resp.StatusCode, body, nil
}
