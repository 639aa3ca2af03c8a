package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grantkit/oauth2-client-go/internal/oautherr"
)

// Config holds HTTP client configuration
type Config struct {
	Timeout        time.Duration
	DefaultHeaders map[string]string
}

// DefaultConfig returns a default HTTP client configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		DefaultHeaders: make(map[string]string),
	}
}

// Client wraps http.Client with common functionality
type Client struct {
	httpClient *http.Client
	config     *Config
}

// New creates a new HTTP client with the given configuration
func New(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// NewWithHTTPClient creates a Client around a caller-supplied http.Client.
// A nil argument falls back to the default configuration.
func NewWithHTTPClient(hc *http.Client) *Client {
	if hc == nil {
		return New(nil)
	}
	return &Client{
		httpClient: hc,
		config:     DefaultConfig(),
	}
}

// Response represents an HTTP response with convenience methods
type Response struct {
	*http.Response
	BodyBytes []byte
}

// SafeClose safely closes the response body
func (r *Response) SafeClose() error {
	if r.Response == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// JSON unmarshals the response body into the provided interface
func (r *Response) JSON(v interface{}) error {
	if len(r.BodyBytes) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.BodyBytes, v)
}

// String returns the response body as a string
func (r *Response) String() string {
	return string(r.BodyBytes)
}

// Do performs a single HTTP request, reading the full body. A connection
// failure yields a transport error; a non-2xx status yields a status
// error carrying the body. There is no retry: failures propagate to the
// caller immediately.
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	req = req.WithContext(ctx)

	for key, value := range c.config.DefaultHeaders {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oautherr.Wrap(err, oautherr.Transport, "HTTP request failed")
	}

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		_ = httpResp.Body.Close()
		return nil, oautherr.Wrap(err, oautherr.Transport, "failed to read response body")
	}

	resp := &Response{
		Response:  httpResp,
		BodyBytes: bodyBytes,
	}

	if httpResp.StatusCode >= 400 {
		return resp, oautherr.FromStatus(httpResp.StatusCode, string(bodyBytes))
	}

	return resp, nil
}

// DoRaw performs the request and hands back the unread response. The
// caller owns the body and the status check.
func (c *Client) DoRaw(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	for key, value := range c.config.DefaultHeaders {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oautherr.Wrap(err, oautherr.Transport, "HTTP request failed")
	}

	return httpResp, nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, rawurl string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequest(http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, oautherr.Wrap(err, oautherr.Transport, "failed to create HTTP request")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.Do(ctx, req)
}

// PostForm performs a POST request with a form-encoded UTF-8 body
func (c *Client) PostForm(ctx context.Context, rawurl string, form url.Values, headers map[string]string) (*Response, error) {
	req, err := http.NewRequest(http.MethodPost, rawurl, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, oautherr.Wrap(err, oautherr.Transport, "failed to create HTTP request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.Do(ctx, req)
}
