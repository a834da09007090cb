package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prohmpiriya/canteen-storefront/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 10 * time.Second

	maxBodySize = 4 << 20
)

// Config holds backend API settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// SessionStore is the session the client reads and clears
type SessionStore interface {
	SessionReader
	ExpireSession(ctx context.Context, token string) (bool, error)
}

// Client calls the canteen backend REST API
type Client struct {
	baseURL string
	http    *http.Client
	session SessionStore
	log     *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseTransport sets the transport under the auth decoration
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = NewAuthTransport(rt, c.session)
	}
}

// WithLogger sets the client logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a backend client. All calls go through an AuthTransport
// reading sess.
func New(cfg Config, sess SessionStore, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		session: sess,
		http: &http.Client{
			Transport: NewAuthTransport(nil, sess),
			Timeout:   cfg.Timeout,
		},
		log: logger.Get().Named("apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{} // JSON encoded unless it is a *multipartBody
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	ctx, sent := withSentToken(ctx)
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Backend request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return newTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return newTransportError(err)
	}

	c.log.Debug("Backend request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newResponseError(resp.StatusCode, body)
		if apiErr.Kind == KindUnauthorized {
			c.expireSession(ctx, sent.get())
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: "The server sent a response that could not be read.",
			Err:     err,
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch b := r.body.(type) {
	case nil:
	case *multipartBody:
		body = bytes.NewReader(b.data)
		contentType = b.contentType
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// expireSession drops a credential the backend no longer accepts. Only the
// token the rejected request carried is cleared.
func (c *Client) expireSession(ctx context.Context, token string) {
	// the caller's context may already be done
	cleared, err := c.session.ExpireSession(context.WithoutCancel(ctx), token)
	if err != nil {
		c.log.Error("Failed to clear expired session", zap.Error(err))
		return
	}
	if cleared {
		c.log.Info("Session expired, cleared credentials")
	}
}
