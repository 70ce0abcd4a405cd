package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
	httptrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/net/http"
)

// Config contains configuration for the hero API transport
type Config struct {
	// BaseURL is the origin serving api/heroes, e.g. "http://localhost:8080"
	BaseURL string `mapstructure:"base_url"`

	// Timeout for a single request; zero means no client-side timeout
	Timeout time.Duration `mapstructure:"timeout"`

	// ServiceName tags the outgoing request spans
	ServiceName string `mapstructure:"service_name"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got: %v", c.Timeout)
	}

	return nil
}

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("Http failure response for %s: %s: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("Http failure response for %s: %s", e.URL, e.Status)
}

// Client implements port.HeroTransport over net/http
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

var _ port.HeroTransport = (*Client)(nil)

// New creates a Client whose requests are traced as child spans
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid http client config: %w", err)
	}

	opts := []httptrace.RoundTripperOption{}
	if cfg.ServiceName != "" {
		opts = append(opts, httptrace.RTWithServiceName(cfg.ServiceName))
	}

	client := httptrace.WrapClient(&http.Client{Timeout: cfg.Timeout}, opts...)
	return NewWithClient(cfg.BaseURL, client)
}

// NewWithClient creates a Client on top of an existing *http.Client
func NewWithClient(baseURL string, client *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL: u,
		client:  client,
	}, nil
}

// Do implements port.HeroTransport
func (c *Client) Do(ctx context.Context, req port.Request, out any) (int, error) {
	endpoint, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return 0, err
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        endpoint,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// resolve joins a relative path and query onto the base URL
func (c *Client) resolve(path string, query url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	u := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		q := u.Query()
		for k, values := range query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
