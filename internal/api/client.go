package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/factdash/internal/model"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 10 << 20

// Limiter throttles outbound requests
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Recorder observes completed requests
type Recorder interface {
	ObserveRequest(resource string, statusCode int, duration time.Duration)
}

// Options configures a Client
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	UserAgent   string
	HTTPProxy   string
	HTTPSProxy  string
	NoProxy     string // Comma-separated hosts dialed without a proxy
	InsecureTLS bool
	Limiter     Limiter  // Optional
	Recorder    Recorder // Optional
}

// OptionsFromConfig maps the api config section to client options
func OptionsFromConfig(cfg model.APIConfig) Options {
	return Options{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		UserAgent:   cfg.UserAgent,
		HTTPProxy:   cfg.HTTPProxy,
		HTTPSProxy:  cfg.HTTPSProxy,
		NoProxy:     cfg.NoProxy,
		InsecureTLS: cfg.InsecureTLS,
	}
}

// Client issues typed GET requests against the fact-checking backend
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	limiter    Limiter
	recorder   Recorder
}

// NewClient creates a new Client
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https: %s", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy)
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed backends
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   base,
		userAgent: opts.UserAgent,
		limiter:   opts.Limiter,
		recorder:  opts.Recorder,
	}, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// resourceURL joins the base URL, the resource path and the query string
func (c *Client) resourceURL(path string, params url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = params.Encode()
	return u.String()
}

// getJSON issues one GET and decodes the JSON body into T
func getJSON[T any](ctx context.Context, c *Client, resource, rawURL string) (T, error) {
	var out T

	body, err := c.do(ctx, resource, rawURL)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, &Error{
			Kind:     KindDecode,
			Resource: resource,
			Message:  fmt.Sprintf("decode response: %v", err),
			Err:      err,
		}
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, resource, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, &Error{Kind: KindTransport, Resource: resource, Message: fmt.Sprintf("rate limit: %v", err), Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Resource: resource, Message: fmt.Sprintf("create request: %v", err), Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(resource, 0, start)
		return nil, &Error{Kind: KindTransport, Resource: resource, Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.observe(resource, resp.StatusCode, start)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Resource: resource, Message: fmt.Sprintf("read body: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:       KindStatus,
			Resource:   resource,
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode, body),
		}
	}

	return body, nil
}

func (c *Client) observe(resource string, status int, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveRequest(resource, status, time.Since(start))
	}
}
