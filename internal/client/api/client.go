// Package api is the client side of the grocery list REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/grocerylist/internal/client/tokenstore"
)

// RequestIDHeader correlates a client call with server logs.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client issues requests against a fixed base address. Every request carries
// the stored bearer token when there is one. There is no retry and no timeout:
// failures surface immediately and cancellation is up to the caller's context.
type Client struct {
	base   *url.URL
	tokens tokenstore.Store
	http   *http.Client
	log    *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithLogger sets the logger used for per-call debug records.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// ParseBaseURL accepts only absolute http or https URLs.
func ParseBaseURL(baseURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("api: bad base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("api: base url must be absolute http(s), got %q", baseURL)
	}
	return u, nil
}

// New constructs a client for baseURL (see ParseBaseURL).
func New(baseURL string, tokens tokenstore.Store, opts ...Option) (*Client, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = tokenstore.NewMemoryStore("")
	}
	c := &Client{
		base:   u,
		tokens: tokens,
		http:   &http.Client{},
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the configured base address.
func (c *Client) BaseURL() string { return c.base.String() }

// do sends one request. in is encoded as JSON when non-nil; out is decoded
// from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	rid := uuid.Must(uuid.NewV4()).String()
	req.Header.Set(RequestIDHeader, rid)

	tok, ok, err := c.tokens.Read()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", rid),
			zap.Duration("dur", time.Since(start)),
			zap.Error(err),
		)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("api",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", rid),
		zap.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Status: resp.StatusCode, Message: serverMessage(raw), RequestID: rid}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverMessage extracts the human message from an error body: the "error"
// or "message" JSON field, else the raw text.
func serverMessage(raw []byte) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}
