// Package search provides the web-search backend client.
//
// The backend is a Bing-custom-search-shaped HTTPS endpoint: GET with a
// URL-encoded query, a custom configuration id and a market hint, keyed by
// an Ocp-Apim-Subscription-Key header. Failures degrade to an empty result
// string; the assistant runtime still expects a tool output for every tool
// call, and empty content is a valid "nothing found" signal.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config configures the search client.
type Config struct {
	APIKey         string
	CustomConfigID string
	BaseURL        string // Default: https://api.bing.microsoft.com/v7.0/custom/search
	Market         string // Default: en-US
	Timeout        time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig(apiKey, customConfigID string) *Config {
	return &Config{
		APIKey:         apiKey,
		CustomConfigID: customConfigID,
		BaseURL:        "https://api.bing.microsoft.com/v7.0/custom/search",
		Market:         "en-US",
		Timeout:        30 * time.Second,
	}
}

// Client issues web-search requests and flattens hits to text.
type Client struct {
	cfg    *Config
	client *http.Client
	logw   io.Writer
}

// NewClient creates a new search client.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		return nil
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logw: os.Stderr,
	}
}

// SetLogWriter redirects diagnostic output. Used by tests.
func (c *Client) SetLogWriter(w io.Writer) {
	c.logw = w
}

// Hit is one web page returned by the backend.
type Hit struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Search executes the query and returns the flattened hits blob: three
// lines per hit (title, url, snippet) separated by a blank line.
//
// Any HTTP or transport failure is logged and yields an empty string; the
// caller treats that as "no results" rather than an error.
func (c *Client) Search(ctx context.Context, query string) string {
	endpoint := c.cfg.BaseURL + "?q=" + url.QueryEscape(query) +
		"&customconfig=" + url.QueryEscape(c.cfg.CustomConfigID) +
		"&mkt=" + c.cfg.Market

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fmt.Fprintf(c.logw, "search: building request: %v\n", err)
		return ""
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		fmt.Fprintf(c.logw, "search: request failed: %v\n", err)
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(c.logw, "search: reading response: %v\n", err)
		return ""
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return c.flatten(body)
	case http.StatusUnauthorized:
		fmt.Fprintf(c.logw, "search: authentication failed (status %d): %s\n", resp.StatusCode, string(body))
		return ""
	default:
		fmt.Fprintf(c.logw, "search: unexpected status %d: %s\n", resp.StatusCode, string(body))
		return ""
	}
}

// flatten parses the response body and joins hits into the text blob.
// An absent webPages.value array is treated as zero hits.
func (c *Client) flatten(body []byte) string {
	var parsed struct {
		WebPages struct {
			Value []Hit `json:"value"`
		} `json:"webPages"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Fprintf(c.logw, "search: parsing response: %v\n", err)
		return ""
	}

	var sb strings.Builder
	for _, hit := range parsed.WebPages.Value {
		sb.WriteString(hit.Name)
		sb.WriteString("\n")
		sb.WriteString(hit.URL)
		sb.WriteString("\n")
		sb.WriteString(hit.Snippet)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
