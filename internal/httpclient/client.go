package httpclient

import (
	"context"
	"net/http"
	"time"
)

// ClientType selects the header preset used for outbound requests.
type ClientType string

const (
	// BrowserClient uses browser-like headers for sites that reject
	// default Go User-Agents with 406 responses.
	BrowserClient ClientType = "browser"

	// APIClient identifies the aggregator politely to JSON APIs that
	// require a descriptive User-Agent (reddit in particular).
	APIClient ClientType = "api"
)

// HTTPClient wraps an http.Client with a bounded timeout and header preset.
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
	userAgent  string
}

// New creates a client with the given preset and per-request timeout.
func New(clientType ClientType, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:     &http.Client{Timeout: timeout},
		clientType: clientType,
		userAgent:  "newsfeed-aggregator/1.0",
	}
}

// Do executes a request with the preset headers applied.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get issues a GET bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	case APIClient:
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
	}
}
