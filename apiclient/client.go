// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/VENUHARGI/OnlineVoting/models"
)

const (
	DefaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// TokenSource supplies the bearer token for a request; "" sends none
type TokenSource interface {
	Token() string
}

// Client calls the voting API. Every outcome, including transport
// failures, comes back as a Response.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

// WithTimeout bounds each request; zero or negative keeps the default
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://host/api).
// tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the normalized result of one request
type Response struct {
	Success bool
	Status  int
	Message string
	Data    json.RawMessage
	Err     *Error
}

// Decode unmarshals the envelope data into v. Empty data leaves v untouched.
func (r Response) Decode(v any) error {
	if len(r.Data) == 0 || bytes.Equal(r.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return &Error{Kind: KindInvalidResponse, Status: r.Status, Message: "Invalid response from server", Err: err}
	}
	return nil
}

// Do performs a single request: no retries. body, when non-nil, is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any) Response {
	start := time.Now()
	resp := c.do(ctx, method, path, body)

	attrs := []any{"method", method, "path", path, "status", resp.Status, "duration_ms", time.Since(start).Milliseconds()}
	if resp.Err != nil {
		c.logger.Warn("api request failed", append(attrs, "kind", resp.Err.Kind.String(), "code", resp.Err.Code, "error", resp.Err.Message)...)
	} else {
		c.logger.Debug("api request", attrs...)
	}
	return resp
}

func (c *Client) do(ctx context.Context, method, path string, body any) Response {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return failed(&Error{Kind: KindInvalidRequest, Message: "Could not encode request", Err: err})
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimPrefix(path, "/"), reader)
	if err != nil {
		return failed(&Error{Kind: KindInvalidRequest, Message: "Could not build request", Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(transportError(ctx, err))
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		e := transportError(ctx, err)
		e.Status = httpResp.StatusCode
		return failed(e)
	}

	var env models.RawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return failed(&Error{
			Kind:    KindInvalidResponse,
			Status:  httpResp.StatusCode,
			Message: "Invalid response from server",
			Err:     err,
		})
	}

	resp := Response{
		Success: env.Success,
		Status:  httpResp.StatusCode,
		Message: env.Message,
		Data:    env.Data,
	}

	switch {
	case httpResp.StatusCode >= 400:
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP status %d", httpResp.StatusCode)
		}
		resp.Success = false
		resp.Err = &Error{Kind: KindHTTPStatus, Status: httpResp.StatusCode, Code: env.ErrorCode, Message: msg, Fields: fieldErrors(env)}
	case !env.Success:
		msg := env.Message
		if msg == "" {
			msg = "Request was rejected"
		}
		resp.Err = &Error{Kind: KindRejected, Status: httpResp.StatusCode, Code: env.ErrorCode, Message: msg, Fields: fieldErrors(env)}
	}
	return resp
}

func failed(err *Error) Response {
	return Response{Status: err.Status, Message: err.Message, Err: err}
}

func transportError(ctx context.Context, err error) *Error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: "Request timeout. Please try again.", Err: err}
	}
	return &Error{Kind: KindNetwork, Message: "Network error. Please check your connection.", Err: err}
}

// fieldErrors extracts per-field messages from a VALIDATION_ERROR envelope
func fieldErrors(env models.RawEnvelope) map[string]string {
	if env.ErrorCode != models.CodeValidation || len(env.Data) == 0 {
		return nil
	}
	var fields map[string]string
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		return nil
	}
	return fields
}

// call performs a request and decodes the data into T
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	resp := c.Do(ctx, method, path, body)
	if resp.Err != nil {
		return out, resp.Err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
