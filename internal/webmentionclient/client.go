package webmentionclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client fetches fresh mentions from a webmention.io-compatible JF2
// endpoint.
type Client struct {
	HTTPClient *http.Client
}

// NewClient creates a Client with a bounded-timeout default http.Client.
func NewClient() *Client {
	return &Client{HTTPClient: &http.Client{Timeout: 10 * time.Second}}
}

type jf2Response struct {
	Children []Webmention `json:"children"`
}

// Fetch retrieves mentions for target from endpoint, requesting at most
// perPage entries newer than sinceID (nil fetches everything the endpoint
// will return). Network and non-2xx responses are returned as errors; the
// caller decides whether that's fatal or merely a warning.
func (c *Client) Fetch(ctx context.Context, endpoint, target string, perPage int, sinceID *int) ([]Webmention, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("webmention endpoint not configured")
	}

	q := url.Values{}
	q.Set("target", target)
	if perPage > 0 {
		q.Set("per-page", strconv.Itoa(perPage))
	}
	if sinceID != nil {
		q.Set("since_id", strconv.Itoa(*sinceID))
	}

	reqURL := endpoint + "/mentions.jf2?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building webmention request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching webmentions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webmention endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading webmention response: %w", err)
	}

	var parsed jf2Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing webmention response: %w", err)
	}
	return parsed.Children, nil
}
