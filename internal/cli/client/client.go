// Package client is the HTTP client scorectl uses to talk to a running
// scorehook service.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSync posts an event to the synchronous webhook and returns the scored
// record.
func (c *Client) SendSync(event []byte) (models.AccountSnapshot, error) {
	resp, err := c.post("/webhooks/calculate-score-sync", event)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var out models.SyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return out.Data, nil
}

// SendAsync posts an event to the asynchronous webhook and returns the
// acknowledgment message.
func (c *Client) SendAsync(event []byte) (string, error) {
	resp, err := c.post("/webhooks/calculate-score-async", event)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", responseError(resp)
	}

	var out models.AsyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return out.Message, nil
}

// Health fetches the service health document.
func (c *Client) Health() (*models.HealthResponse, error) {
	resp, err := c.client.Get(c.baseURL + "/health")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var out models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &out, nil
}

func (c *Client) post(path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.client.Do(req)
}

// responseError prefers the service's {"error": ...} body over raw bytes.
func responseError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var e models.ErrorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return fmt.Errorf("%d - %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("%d - %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
