package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
)

const (
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize is the maximum response body size (1MB). Fragments are
	// capped at ten rows so anything larger is a misbehaving server.
	MaxResponseSize = 1 << 20
)

// Client wraps the HTTP client with logging and a response size limit
type Client struct {
	client *http.Client
	logger ectologger.Logger
}

type Config struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DefaultConfig returns the client settings used by the form handlers
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}
}

// NewClient creates a new HTTP client
func NewClient(cfg Config, logger ectologger.Logger) *Client {
	return &Client{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    cfg.MaxIdleConns,
				IdleConnTimeout: cfg.IdleConnTimeout,
			},
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// HTTPClient exposes the underlying client, e.g. to install a mock transport.
func (c *Client) HTTPClient() *http.Client {
	return c.client
}

type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
	Duration    time.Duration
}

// Do executes req. Any status code is a response; only transport and read
// failures are errors.
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	start := time.Now()

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("HTTP request failed: %s %s", req.Method, req.URL.String())
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseSize {
		return nil, fmt.Errorf("response too large: %d bytes (max %d)", resp.ContentLength, MaxResponseSize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response body too large: more than %d bytes", MaxResponseSize)
	}

	duration := time.Since(start)
	c.logger.WithContext(ctx).Debugf("HTTP %s %s -> %d (%s)", req.Method, req.URL.String(), resp.StatusCode, duration)

	return &Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Duration:    duration,
	}, nil
}

// Get issues a GET to url with the given headers
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.Do(ctx, req)
}
