// Package crmclient talks to the SSv2 account API: an authenticated read to
// obtain a record's concurrency token, and a conditional merge-patch update
// guarded by that token.
package crmclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/metrics"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
)

// Config carries the connection settings for the account API.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// Client is an HTTP client for the SSv2 account API. The Basic credentials
// are encoded once at construction and read-only afterwards.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// New constructs a Client.
func New(cfg Config) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: "Basic " + credentials,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// FetchAccount reads the current state of an account. It returns the record
// together with the ETag concurrency token required for a conditional
// update; a 200 without an ETag header is an error, because no update can be
// attempted without the token.
func (c *Client) FetchAccount(ctx context.Context, id string) (models.AccountSnapshot, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.accountURL(id), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CRMRequestDuration.WithLabelValues(opFetch, "error").Observe(time.Since(start).Seconds())
		return nil, "", fmt.Errorf("fetch account %s: %w", id, err)
	}
	defer resp.Body.Close()
	metrics.CRMRequestDuration.WithLabelValues(opFetch, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", &APIError{Op: opFetch, StatusCode: resp.StatusCode, Body: string(body)}
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		return nil, "", &APIError{Op: opFetch, Reason: ReasonMissingETag}
	}

	var account models.AccountSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, "", fmt.Errorf("decode account %s: %w", id, err)
	}

	return account, etag, nil
}

// UpdateScore patches the account's CustomScore extension. The etag from a
// prior fetch rides along as the If-Match precondition, so the store rejects
// the update if the record changed in between. Conflicts are surfaced, never
// retried.
func (c *Client) UpdateScore(ctx context.Context, id, etag string, score int) error {
	patch := map[string]map[string]int{
		models.FieldExtensions: {models.FieldCustomScore: score},
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal score patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.accountURL(id), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/merge-patch+json")
	req.Header.Set("If-Match", etag)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CRMRequestDuration.WithLabelValues(opUpdate, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("update account %s: %w", id, err)
	}
	defer resp.Body.Close()
	metrics.CRMRequestDuration.WithLabelValues(opUpdate, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{Op: opUpdate, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return nil
}

func (c *Client) accountURL(id string) string {
	return c.baseURL + "/accounts/" + url.PathEscape(id)
}
