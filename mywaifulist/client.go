package mywaifulist

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// Client represents a MyWaifuList API client
type Client struct {
	exec       *executor
	httpClient     *http.Client
	ownsPool       bool
	ownsHTTPClient bool
	logger         zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewClient creates a new MyWaifuList client. Unless WithWorkerPool is given the
// client starts its own pool, which Close stops.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	baseURL := strings.TrimSpace(options.baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	// Ensure baseURL has a trailing slash, paths are appended as is
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient, err := newHTTPClient(options)
	if err != nil {
		return nil, err
	}

	pool := options.pool
	ownsPool := pool == nil
	if ownsPool {
		pool = NewWorkerPool(options.poolSize, options.logger)
	}

	return &Client{
		exec: &executor{
			baseURL:    baseURL,
			apiKey:     apiKey,
			userAgent:  options.userAgent,
			timeout:    options.timeout,
			httpClient: httpClient,
			pool:       pool,
			logger:     options.logger,
		},
		httpClient:     httpClient,
		ownsPool:       ownsPool,
		ownsHTTPClient: options.httpClient == nil,
		logger:         options.logger,
	}, nil
}

// newHTTPClient builds the transport from the options
func newHTTPClient(o *clientOptions) (*http.Client, error) {
	if o.httpClient != nil {
		return o.httpClient, nil
	}

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if o.tlsConfig != nil {
		tlsConfig = o.tlsConfig.Clone()
	}
	if o.insecureSkipVerify {
		tlsConfig.InsecureSkipVerify = true
	}

	dialer := &net.Dialer{
		Timeout:   o.connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 o.proxy,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       tlsConfig,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   o.poolSize,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	switch o.httpVersion {
	case HTTP1:
		// A non-nil empty map disables the automatic HTTP/2 upgrade
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	default:
		h2, err := http2.ConfigureTransports(transport)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP/2: %w", err)
		}
		h2.ReadIdleTimeout = 30 * time.Second
		h2.PingTimeout = 15 * time.Second
	}

	return &http.Client{
		Transport:     transport,
		CheckRedirect: o.redirects.checkRedirect,
	}, nil
}

// Execute sends a GET for path (relative to the base URL, query included) and
// returns the raw exchange. Non-2xx statuses are not errors here.
func (c *Client) Execute(ctx context.Context, path string) (RawResult, error) {
	raw, err := c.exec.execute(ctx, strings.TrimPrefix(path, "/"))
	if err != nil {
		return RawResult{}, err
	}
	return raw, nil
}

// Fetch executes path and decodes the response with shape. It is the building
// block of every accessor and can be used for endpoints the client does not wrap.
func Fetch[T any](ctx context.Context, c *Client, path string, shape Shape[T]) Result[T] {
	raw, err := c.exec.execute(ctx, strings.TrimPrefix(path, "/"))
	if err != nil {
		return Fail[T](err)
	}
	return Decode(raw, shape)
}

// TestConnection verifies the API key by fetching the daily waifu
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.GetDailyWaifu(ctx).Get(); err != nil {
		return err
	}
	return nil
}

// Close stops the worker pool and drops idle connections when the client created
// them; a pool or http.Client passed in through options is left alone. Requests
// issued after Close fail with a transport error wrapping ErrClientClosed when
// the pool is owned by the client.
func (c *Client) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		if c.ownsPool {
			c.closeErr = c.exec.pool.Stop(ctx)
		}
		if c.ownsHTTPClient {
			c.httpClient.CloseIdleConnections()
		}
		c.logger.Debug().
			Bool("owned_pool", c.ownsPool).
			Bool("owned_http_client", c.ownsHTTPClient).
			Msg("MyWaifuList client closed")
	})
	return c.closeErr
}
