// Package jellyfin triggers library refreshes on a Jellyfin server after the
// pipeline changes files on disk.
package jellyfin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// Client calls the Jellyfin HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Jellyfin client. An empty apiKey produces a client whose
// Refresh is a logged no-op, so an unconfigured server never fails a run.
func New(baseURL, apiKey string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// Refresh triggers a full library scan.
func (c *Client) Refresh(ctx context.Context) error {
	if c.apiKey == "" {
		c.log.Warn("jellyfin api key not configured, skipping library refresh")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := c.baseURL + "/Library/Refresh?" + url.Values{"api_key": []string{c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trigger library refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("jellyfin refresh returned %d", resp.StatusCode)
	}
	c.log.Info("triggered jellyfin library refresh")
	return nil
}
