// Package http wraps the outbound HTTP client used for external API calls
// such as the resume parser, enforcing a per-client timeout.
package http

import (
	"context"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is a timeout-bounded HTTP client.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client. A timeout of 0 falls back to 30 seconds so
// no outbound call can hang indefinitely.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do executes the request with the client timeout.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// DoWithContext executes the request bound to ctx in addition to the
// client timeout; whichever expires first cancels the call.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
