package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/chaindocs/internal/models"
)

// HTTPDoer is the subset of tls_client.HttpClient the client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is what the widget and commands need from a ChainDocs client
type ClientInterface interface {
	Ask(ctx context.Context, query string) (*models.AskResponse, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
	BaseURL() string
}

// Client talks to a ChainDocs server
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	timeout    time.Duration
	logger     *zap.Logger
}

var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout bounds each request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client for the server at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}

	client := &Client{
		baseURL: baseURL,
		timeout: 60 * time.Second,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the server URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins the base URL with an endpoint path
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}
