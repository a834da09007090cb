package apiclient

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/canteen-storefront/internal/session"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
)

// RequestIDHeader correlates a backend call with the view request that caused it
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID returns a context whose outgoing calls carry id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id stored in ctx
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type sentTokenKey struct{}

// sentToken records the credential the transport attached to a request
type sentToken struct {
	mu    sync.Mutex
	token string
}

func (s *sentToken) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *sentToken) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func withSentToken(ctx context.Context) (context.Context, *sentToken) {
	sent := &sentToken{}
	return context.WithValue(ctx, sentTokenKey{}, sent), sent
}

// SessionReader is the part of the session store the transport reads
type SessionReader interface {
	WaitHydrated(ctx context.Context) error
	Snapshot() session.Snapshot
}

// AuthTransport decorates every outgoing request with the session
// credential. It waits for the session to be hydrated before reading it.
type AuthTransport struct {
	Base    http.RoundTripper
	Session SessionReader
}

// NewAuthTransport wraps base. A nil base uses DefaultTransport().
func NewAuthTransport(base http.RoundTripper, sess SessionReader) *AuthTransport {
	if base == nil {
		base = DefaultTransport()
	}
	return &AuthTransport{Base: base, Session: sess}
}

// RoundTrip implements http.RoundTripper
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := t.Session.WaitHydrated(ctx); err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}

	snap := t.Session.Snapshot()

	// RoundTrippers must not modify the caller's request
	out := req.Clone(ctx)

	if snap.IsLoggedIn && snap.AccessToken != "" {
		out.Header.Set("Authorization", "Bearer "+snap.AccessToken)
		if sent, ok := ctx.Value(sentTokenKey{}).(*sentToken); ok {
			sent.set(snap.AccessToken)
		}
	}
	if out.Header.Get("Accept") == "" {
		out.Header.Set("Accept", "application/json")
	}
	// Multipart bodies carry their own boundary content type
	if out.Header.Get("Content-Type") == "" && hasBody(out) {
		out.Header.Set("Content-Type", "application/json")
	}
	if out.Header.Get(RequestIDHeader) == "" {
		id := RequestIDFrom(ctx)
		if id == "" {
			id = uuid.New().String()
		}
		out.Header.Set(RequestIDHeader, id)
	}

	spanCtx, span := telemetry.StartClientSpan(ctx, out)
	telemetry.InjectHeaders(spanCtx, out.Header)

	resp, err := t.base().RoundTrip(out)
	telemetry.EndClientSpan(span, resp, err)
	return resp, err
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func hasBody(req *http.Request) bool {
	return req.Body != nil && req.Body != http.NoBody
}

// DefaultTransport returns the pooled transport used for backend calls
func DefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}
