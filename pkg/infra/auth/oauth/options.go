package oauth

import (
	"net/http"
	"time"
)

type TokenClientOption func(*tokenClient)

// WithHTTPClient swaps the underlying client; nil is ignored.
func WithHTTPClient(client *http.Client) TokenClientOption {
	return func(c *tokenClient) {
		if client == nil {
			return
		}
		c.http = client
	}
}

// WithTimeout works on a copy so a client passed to WithHTTPClient keeps
// its own timeout.
func WithTimeout(timeout time.Duration) TokenClientOption {
	return func(c *tokenClient) {
		if timeout <= 0 {
			return
		}
		copied := *c.http
		copied.Timeout = timeout
		c.http = &copied
	}
}
