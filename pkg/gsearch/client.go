// Package gsearch is a minimal Google Custom Search JSON API client, used
// to resolve real company profiles (LinkedIn page, official website) when
// an API key is configured.
package gsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// Client performs Custom Search queries.
type Client interface {
	Search(ctx context.Context, query SearchRequest) (*Item, error)
}

// SearchRequest describes one query. Site restricts results to a domain;
// Exclude removes domains from the result set.
type SearchRequest struct {
	Query   string
	Site    string
	Exclude []string
}

// Item is the first search result, when any.
type Item struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type searchResponse struct {
	Items []Item `json:"items"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey  string
	cx      string
	baseURL string
	http    *http.Client
}

// NewClient creates a Custom Search client for the given key and search
// engine id (cx).
func NewClient(apiKey, cx string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		cx:      cx,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs the query and returns the top result, or nil when the API
// returned no items.
func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*Item, error) {
	q := req.Query
	if req.Site != "" {
		q = "site:" + req.Site + " " + q
	}
	for _, domain := range req.Exclude {
		q += " -site:" + domain
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", q)
	params.Set("num", strconv.Itoa(1))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "gsearch: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "gsearch: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "gsearch: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("gsearch: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "gsearch: unmarshal response")
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	return &result.Items[0], nil
}
