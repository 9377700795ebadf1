// Package client is the HTTP core used by every resume API call. It composes
// timeouts with caller cancellation, encodes JSON bodies, and turns every
// failure into a classified apierror. It never retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-editor/internal/apierror"
)

// DefaultTimeout is the per-request timeout used when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxDrainBytes bounds how much of an error body is read before closing it.
const maxDrainBytes = 64 << 10

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

var emptyObject = json.RawMessage(`{}`)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Headers    map[string]string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues requests against a single API base URL.
type Client struct {
	baseURL string
	timeout time.Duration
	headers map[string]string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client. Zero-valued options fall back to defaults.
func New(opts Options) *Client {
	c := &Client{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
		headers: make(map[string]string, len(opts.Headers)),
		http:    opts.HTTPClient,
		logger:  opts.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	for k, v := range opts.Headers {
		c.headers[k] = v
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOption adjusts a single request.
type RequestOption func(*requestConfig)

type requestConfig struct {
	timeout time.Duration
	headers map[string]string
}

// WithTimeout overrides the client timeout for one request.
func WithTimeout(d time.Duration) RequestOption {
	return func(rc *requestConfig) {
		if d > 0 {
			rc.timeout = d
		}
	}
}

// WithHeader sets an extra header for one request.
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		rc.headers[key] = value
	}
}

// Get issues a GET and returns the JSON body.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil, opts)
}

// Delete issues a DELETE and returns the JSON body.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodDelete, path, nil, opts)
}

// Post JSON-encodes body, issues a POST and returns the JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPost, path, body, opts)
}

// Put JSON-encodes body, issues a PUT and returns the JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPut, path, body, opts)
}

// Download is a raw response body, used for binary artifacts.
type Download struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// GetBytes issues a GET and returns the body as is.
func (c *Client) GetBytes(ctx context.Context, path string, opts ...RequestOption) (*Download, error) {
	var dl *Download
	err := c.do(ctx, http.MethodGet, path, nil, opts, func(resp *http.Response, body []byte) error {
		dl = &Download{Body: body, ContentType: resp.Header.Get("Content-Type"), StatusCode: resp.StatusCode}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dl, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, opts []RequestOption) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, method, path, body, opts, func(resp *http.Response, data []byte) error {
		if !isJSON(resp.Header.Get("Content-Type")) || len(bytes.TrimSpace(data)) == 0 {
			out = emptyObject
			return nil
		}
		if !json.Valid(data) {
			return apierror.Validation(fmt.Sprintf("%s %s: response body is not valid JSON", method, path), nil)
		}
		out = json.RawMessage(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// do runs one request. handle is called with the fully read body of a 2xx
// response while the request context is still live.
func (c *Client) do(ctx context.Context, method, path string, body any, opts []RequestOption, handle func(*http.Response, []byte) error) error {
	rc := requestConfig{timeout: c.timeout, headers: map[string]string{}}
	for _, opt := range opts {
		opt(&rc)
	}

	ctx, cancel := context.WithTimeout(ctx, rc.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apierror.Validation(fmt.Sprintf("failed to encode request body: %v", err), err)
		}
		reader = bytes.NewReader(payload)
	}

	url := JoinURL(c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apierror.Validation(fmt.Sprintf("invalid request URL %q: %v", url, err), err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range rc.headers {
		req.Header.Set(k, v)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"duration", time.Since(start),
			"error", err)
		return c.fail(ctx, err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()
		return apierror.Classify(resp)
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return c.fail(ctx, err)
	}

	if err := handle(resp, data); err != nil {
		return apierror.Classify(err)
	}
	return nil
}

// fail classifies a transport-level failure. An ended context wins over
// whatever error the transport reported.
func (c *Client) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return apierror.Cancelled(err)
	}
	return apierror.Classify(err)
}

// JoinURL joins base and path with exactly one slash between them.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
