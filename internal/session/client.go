// Package session provides an HTTP client for the external session service.
//
// The service is a key-value store exposing three routes: POST /create
// (payload in, opaque id out), GET /get/{id} (stored JSON out) and
// DELETE /delete/{id}.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sessionworks/authgate/internal/models"
)

// ErrNotFound is returned when the session service has no record for an id.
var ErrNotFound = errors.New("session not found")

// defaultTimeout bounds every outbound call to the session service.
const defaultTimeout = 5 * time.Second

// Client talks to the session service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the session service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Create stores the payload in the session service and returns the opaque
// session id the service replies with. The id's shape is not validated.
func (c *Client) Create(ctx context.Context, payload models.SessionPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode session payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("create session: unexpected status %d", resp.StatusCode)
	}

	id, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read session id: %w", err)
	}
	return strings.TrimSpace(string(id)), nil
}

// Get fetches the JSON payload stored under id. A 404 from the service is
// reported as ErrNotFound; the payload is otherwise returned verbatim.
func (c *Client) Get(ctx context.Context, id string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch session: unexpected status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read session payload: %w", err)
	}
	return payload, nil
}

// Delete removes the session stored under id. Callers treat failures as
// best-effort; the error is returned for those that care.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/delete/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("delete session: unexpected status %d", resp.StatusCode)
	}
	return nil
}
