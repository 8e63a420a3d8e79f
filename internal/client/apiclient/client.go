// Package apiclient is the single HTTP client every part of the ecoconnect
// client talks to the API through.
//
// Before dispatch each request runs through an interceptor chain: the stored
// bearer token is attached and any top-level "user" field is stripped from
// JSON object payloads. When a request cannot be built or dispatched at all
// the token store is cleared and a *TransportError is returned.
//
// Server responses are never interpreted as a sign-out here: 401/403 come
// back as *StatusError (matching ErrUnauthorized) and the token stays put.
// Deciding what an authentication failure means is the session layer's job.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ecoconnect/internal/client/tokenstore"
	"github.com/dmitrijs2005/ecoconnect/internal/logging"
)

const maxResponseSize = 8 << 20

type Client struct {
	baseURL      string
	http         *http.Client
	store        tokenstore.Store
	logger       logging.Logger
	timeout      time.Duration
	interceptors []Interceptor
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (tests inject failing
// transports through it).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithInterceptors appends interceptors after the built-in ones.
func WithInterceptors(in ...Interceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, in...)
	}
}

func New(baseURL string, store tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		store:   store,
		logger:  logging.Nop{},
	}
	c.interceptors = []Interceptor{BearerToken(store), StripUserField}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends body (JSON-encoded when non-nil) and decodes a 2xx response into
// out. out may be nil, a *[]byte or *json.RawMessage for the raw body, or
// any JSON decode target.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := c.build(ctx, method, path, body)
	if err != nil {
		return c.dispatchFailed(ctx, method, path, err)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if abandoned(ctx, err) {
			return &TransportError{Method: method, Path: path, Err: err}
		}
		return c.dispatchFailed(ctx, method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug(ctx, "api call", "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(started).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:  method,
			Path:    path,
			Code:    resp.StatusCode,
			Message: errorMessage(payload),
			Body:    payload,
		}
	}

	return decode(payload, out)
}

func (c *Client) build(ctx context.Context, method, path string, body any) (*http.Request, error) {
	r := &Request{Method: method, Path: path, Header: make(http.Header)}
	r.Header.Set("Accept", "application/json")

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		r.Body = encoded
		r.Header.Set("Content-Type", "application/json")
	}

	for _, in := range c.interceptors {
		if err := in(ctx, r); err != nil {
			return nil, fmt.Errorf("interceptor: %w", err)
		}
	}

	var reader io.Reader
	if r.Body != nil {
		reader = bytes.NewReader(r.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.Method, c.url(r.Path), reader)
	if err != nil {
		return nil, err
	}
	httpReq.Header = r.Header
	return httpReq, nil
}

// dispatchFailed is the error interceptor: the request never reached the
// server, so the token is dropped and the failure propagated.
func (c *Client) dispatchFailed(ctx context.Context, method, path string, err error) error {
	c.store.Clear(ctx)
	c.logger.Warn(ctx, "request dispatch failed, token cleared", "method", method, "path", path, "err", err)
	return &TransportError{Method: method, Path: path, Err: err}
}

func (c *Client) url(path string) string {
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// abandoned reports failures caused by the caller giving up (cancellation or
// a deadline) rather than by the request being undeliverable.
func abandoned(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func errorMessage(payload []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

func decode(payload []byte, out any) error {
	switch target := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*target = append([]byte(nil), payload...)
		return nil
	case *json.RawMessage:
		*target = append(json.RawMessage(nil), payload...)
		return nil
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
