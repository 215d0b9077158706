package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every call made by an SDKClient.
const DefaultTimeout = 5 * time.Second

// SDKClient is a client for one shopgate service. The same type talks to the
// credential store, the token issuer, the orders service and both halves of
// the proof-of-possession exchange; each method documents which role it
// targets, so create one client per base URL.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// Timeout is applied per call through the request context, on top of
	// HTTPClient.Timeout. Zero disables it.
	Timeout time.Duration
}

// Option configures an SDKClient.
type Option func(*SDKClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *SDKClient) { c.HTTPClient = hc }
}

// WithTimeout sets the per call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *SDKClient) {
		c.Timeout = d
		if c.HTTPClient != nil {
			c.HTTPClient.Timeout = d
		}
	}
}

// NewSDKClient creates a client for the service at baseURL.
func NewSDKClient(baseURL string, opts ...Option) *SDKClient {
	c := &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
