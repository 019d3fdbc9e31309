package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomload/importer"
	"roomload/schedule"
)

// maxBodyBytes bounds the size of a downloaded sheet export.
const maxBodyBytes = 32 << 20

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	URL        string
	UserAgent  string
	HTTPClient httpDoer
}

// Client downloads a published CSV export of the schedule sheet.
type Client struct {
	url        string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*Client, error) {
	sourceURL := strings.TrimSpace(cfg.URL)
	if sourceURL == "" {
		return nil, errors.New("source URL is required")
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid source URL %q", cfg.URL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		url:        sourceURL,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// URL returns the configured source URL.
func (c *Client) URL() string {
	return c.url
}

// FetchRows downloads the sheet and parses it into rows.
func (c *Client) FetchRows(ctx context.Context) ([]schedule.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request GET %s: %w", c.url, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request GET %s failed: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf(
			"request GET %s failed with status %d: %s",
			c.url,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	rows, err := importer.ReadCSV(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse sheet export: %w", err)
	}
	return rows, nil
}

// Fetch lets the client act as a refresh source.
func (c *Client) Fetch(ctx context.Context) ([]schedule.Row, error) {
	return c.FetchRows(ctx)
}
