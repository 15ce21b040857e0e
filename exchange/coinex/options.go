package coinex

// Functional options applied by New. Transport related options (proxy, debug logging) are recorded
// here and only assembled into the final transport once every option has run, so their relative
// order does not matter.

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

//
// Option configures a Client during construction in New.
//
type Option func(*Client) error

//
// WithBaseURL overrides the root every request path is appended to. Trailing slashes are dropped.
//
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return errors.New("base url cannot be empty")
		}

		if _, err := url.Parse(baseURL); err != nil {
			return fmt.Errorf("invalid base url: %w", err)
		}

		c.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

//
// WithProxy routes every request through the specified HTTP proxy. An empty string disables
// proxying. The client never consults HTTP_PROXY on its own; callers that want the environment
// honored should pass its value here.
//
func WithProxy(proxyURL string) Option {
	return func(c *Client) error {
		if proxyURL == "" {
			c.proxy = nil
			return nil
		}

		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return fmt.Errorf("invalid proxy url: %w", err)
		}

		if proxy.Scheme == "" || proxy.Host == "" {
			return fmt.Errorf("invalid proxy url: %q has no scheme or host", proxyURL)
		}

		c.proxy = proxy
		return nil
	}
}

//
// WithHTTPClient makes the client issue requests through the provided http.Client. The provided
// client is copied, never modified.
//
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}

		c.httpClient = hc
		return nil
	}
}

//
// WithHTTPTimeout bounds the total time spent on a single request. There is no timeout by default;
// prefer context deadlines where possible.
//
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}

		c.timeout = d
		return nil
	}
}

//
// WithUserAgent replaces the browser-like User-Agent header sent with every request. An empty string
// keeps the default.
//
func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		if userAgent == "" {
			return nil
		}

		c.userAgent = userAgent
		return nil
	}
}

//
// WithClock replaces the source of the tonce injected into every request.
//
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}

		c.now = now
		return nil
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

//
// WithDebugLogging installs a transport that dumps every request and response to the client's
// logger at debug level. Dumps include the authorization header, so do not enable it anywhere the
// logs are shared.
//
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}
