package mywaifulist

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the MyWaifuList v1 API root
const DefaultBaseURL = "https://mywaifulist.moe/api/v1/"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL            string
	timeout            time.Duration
	connectTimeout     time.Duration
	redirects          RedirectPolicy
	tlsConfig          *tls.Config
	insecureSkipVerify bool
	proxy              func(*http.Request) (*url.URL, error)
	httpVersion        HTTPVersion
	httpClient         *http.Client
	pool               WorkerPool
	poolSize           int
	userAgent          string
	logger             zerolog.Logger
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		baseURL:        DefaultBaseURL,
		timeout:        DefaultTimeout,
		connectTimeout: 10 * time.Second,
		redirects:      RedirectNever,
		proxy:          http.ProxyFromEnvironment,
		httpVersion:    HTTP2,
		poolSize:       DefaultPoolSize,
		userAgent:      "waifuctl/dev",
		logger:         zerolog.Nop(),
	}
}

// RedirectPolicy decides whether redirects are followed
type RedirectPolicy int

const (
	// RedirectNever returns the 3xx response as is
	RedirectNever RedirectPolicy = iota
	// RedirectNormal follows redirects except https to http downgrades
	RedirectNormal
	// RedirectAlways follows every redirect
	RedirectAlways
)

const maxRedirects = 10

// String returns the string representation of a RedirectPolicy
func (p RedirectPolicy) String() string {
	switch p {
	case RedirectNever:
		return "never"
	case RedirectNormal:
		return "normal"
	case RedirectAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ParseRedirectPolicy converts a policy name from configuration
func ParseRedirectPolicy(s string) (RedirectPolicy, error) {
	switch s {
	case "", "never":
		return RedirectNever, nil
	case "normal":
		return RedirectNormal, nil
	case "always":
		return RedirectAlways, nil
	}
	return RedirectNever, fmt.Errorf("invalid redirect policy %q (must be never, normal or always)", s)
}

func (p RedirectPolicy) checkRedirect(req *http.Request, via []*http.Request) error {
	switch p {
	case RedirectNever:
		return http.ErrUseLastResponse
	case RedirectNormal:
		if len(via) > 0 && via[len(via)-1].URL.Scheme == "https" && req.URL.Scheme == "http" {
			return http.ErrUseLastResponse
		}
	}
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	return nil
}

// HTTPVersion selects the protocol the transport negotiates
type HTTPVersion int

const (
	// HTTP2 negotiates HTTP/2 over TLS and falls back to HTTP/1.1
	HTTP2 HTTPVersion = iota
	// HTTP1 pins HTTP/1.1
	HTTP1
)

// ParseHTTPVersion converts a protocol name from configuration
func ParseHTTPVersion(s string) (HTTPVersion, error) {
	switch s {
	case "", "2", "http2", "HTTP/2":
		return HTTP2, nil
	case "1.1", "http1", "HTTP/1.1":
		return HTTP1, nil
	}
	return HTTP2, fmt.Errorf("invalid HTTP version %q (must be http1 or http2)", s)
}

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithConnectTimeout sets the TCP dial timeout.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.connectTimeout = timeout
		}
	}
}

// WithRedirectPolicy sets how redirects are handled.
func WithRedirectPolicy(policy RedirectPolicy) Option {
	return func(o *clientOptions) {
		o.redirects = policy
	}
}

// WithTLSConfig sets the TLS parameters. The config is cloned.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *clientOptions) {
		if cfg != nil {
			o.tlsConfig = cfg.Clone()
		}
	}
}

// WithInsecureSkipVerify disables certificate verification.
// Use with caution and only for development/testing.
func WithInsecureSkipVerify() Option {
	return func(o *clientOptions) {
		o.insecureSkipVerify = true
	}
}

// WithProxy sets the proxy selector used for every request.
func WithProxy(proxy func(*http.Request) (*url.URL, error)) Option {
	return func(o *clientOptions) {
		o.proxy = proxy
	}
}

// WithHTTPVersion sets the protocol version.
func WithHTTPVersion(version HTTPVersion) Option {
	return func(o *clientOptions) {
		o.httpVersion = version
	}
}

// WithHTTPClient replaces the generated transport entirely. Transport options
// (connect timeout, TLS, proxy, redirects, version) are then ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithWorkerPool runs requests on a caller-owned pool. Close leaves it running.
func WithWorkerPool(pool WorkerPool) Option {
	return func(o *clientOptions) {
		o.pool = pool
	}
}

// WithPoolSize sets the number of workers of the client's own pool.
func WithPoolSize(workers int) Option {
	return func(o *clientOptions) {
		if workers > 0 {
			o.poolSize = workers
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithLogger sets the logger used for debug request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
