package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"rentspace/internal/pkg/config"
)

// ErrorKind separates retryable processor failures from permanent ones.
// Transient errors (network, 5xx, 429) are safe to retry with the same
// idempotency key; permanent errors must surface without retry.
type ErrorKind string

const (
	KindTransient ErrorKind = "TRANSIENT"
	KindPermanent ErrorKind = "PERMANENT"
)

type ProcessorError struct {
	Kind       ErrorKind
	StatusCode int
	msg        string
	err        error
}

func (e *ProcessorError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("payment processor: %s (%s): %v", e.msg, e.Kind, e.err)
	}
	return fmt.Sprintf("payment processor: %s (%s)", e.msg, e.Kind)
}

func (e *ProcessorError) Unwrap() error {
	return e.err
}

func IsTransient(err error) bool {
	var pe *ProcessorError
	return errors.As(err, &pe) && pe.Kind == KindTransient
}

type CaptureStatus string

const (
	CaptureSucceeded CaptureStatus = "succeeded"
	CaptureFailed    CaptureStatus = "failed"
)

type CreateIntentRequest struct {
	AmountCents    int64             `json:"amount_cents"`
	Currency       string            `json:"currency"`
	PayeeAccount   string            `json:"payee_account"`
	IdempotencyKey string            `json:"-"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type IntentResult struct {
	IntentID string `json:"intent_id"`
}

// Client talks JSON over HTTP to the payment processor. Both operations carry
// an Idempotency-Key header so a retried call after a transient failure lands
// on the same processor-side object.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResult, error) {
	var out IntentResult
	if err := c.post(ctx, "/v1/intents", req.IdempotencyKey, req, &out); err != nil {
		return nil, err
	}
	if out.IntentID == "" {
		return nil, &ProcessorError{Kind: KindPermanent, msg: "intent response missing id"}
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path, idempotencyKey string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ProcessorError{Kind: KindPermanent, msg: "failed to encode request", err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &ProcessorError{Kind: KindPermanent, msg: "failed to build request", err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ProcessorError{Kind: KindTransient, msg: "request failed", err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &ProcessorError{Kind: KindPermanent, StatusCode: resp.StatusCode, msg: "failed to decode response", err: err}
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		drainBody(resp.Body)
		return &ProcessorError{Kind: KindTransient, StatusCode: resp.StatusCode, msg: "processor unavailable"}
	default:
		detail := readErrorDetail(resp.Body)
		return &ProcessorError{Kind: KindPermanent, StatusCode: resp.StatusCode, msg: detail}
	}
}

func readErrorDetail(body io.Reader) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return "request rejected"
}

func drainBody(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
}
