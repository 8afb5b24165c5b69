// Package ocr talks to the external LLM-backed invoice extraction service.
// Whatever comes back is an untrusted suggestion: it is mapped into a draft
// expense through the same catalog classification as manual entry and is
// never written to the ledger without an explicit user submission.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnreadable means the service could not read the image at all. Callers
// surface a retry prompt instead of creating anything.
var ErrUnreadable = errors.New("invoice image unreadable")

// ServiceError is a failure of the external service itself (transport,
// timeout, non-2xx). The UI falls back to manual entry; the client never
// retries on its own.
type ServiceError struct {
	Status int
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ocr service: status %d", e.Status)
	}
	return fmt.Sprintf("ocr service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Suggestion is the service's best-effort read of an invoice photo. Every
// field is optional and unvalidated.
type Suggestion struct {
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Provider    string `json:"provider"`
	DueDate     string `json:"due_date"`
	Recurring   bool   `json:"is_recurring"`
	ServiceType string `json:"service_type"`
	Unreadable  bool   `json:"is_unreadable"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Extract sends the raw image bytes and decodes the suggestion. An
// unreadable image returns ErrUnreadable before any mapping happens.
func (c *Client) Extract(ctx context.Context, image []byte) (Suggestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(image))
	if err != nil {
		return Suggestion{}, &ServiceError{Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Suggestion{}, &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return Suggestion{}, &ServiceError{Status: resp.StatusCode}
	}

	var s Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Suggestion{}, &ServiceError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if s.Unreadable {
		return Suggestion{}, ErrUnreadable
	}
	return s, nil
}
