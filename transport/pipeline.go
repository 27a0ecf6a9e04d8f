// Package transport is the authorized request pipeline: an http.RoundTripper
// through which every call to the banking API passes. It attaches the bearer
// token from the page token store to every request except authentication
// endpoints.
package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	// HeaderRequestID carries a per-request id to the API
	HeaderRequestID = "X-Request-Id"

	defaultAuthPathSegment = "/api/auth"
)

// UnauthorizedPolicy decides what happens when the API rejects a credentialed call
type UnauthorizedPolicy string

const (
	// PolicySurface returns the 401 to the caller and keeps the session
	PolicySurface UnauthorizedPolicy = "surface"
	// PolicyLogout also invokes the unauthorized handler, normally a forced logout
	PolicyLogout UnauthorizedPolicy = "logout"
)

// ParsePolicy maps a config value to a policy, defaulting to PolicySurface
func ParsePolicy(value string) UnauthorizedPolicy {
	if UnauthorizedPolicy(strings.ToLower(strings.TrimSpace(value))) == PolicyLogout {
		return PolicyLogout
	}
	return PolicySurface
}

// TokenReader reads the token from the page location of the token store
type TokenReader interface {
	Load(ctx context.Context) (string, bool, error)
}

// Pipeline decorates outbound requests with the bearer credential
type Pipeline struct {
	base            http.RoundTripper
	tokens          TokenReader
	authPathSegment string
	policy          UnauthorizedPolicy
	onUnauthorized  func(ctx context.Context)
}

// Option modifies a Pipeline
type Option func(*Pipeline)

// WithBase sets the underlying transport (default http.DefaultTransport)
func WithBase(base http.RoundTripper) Option {
	return func(p *Pipeline) {
		if base != nil {
			p.base = base
		}
	}
}

// WithAuthPathSegment changes the path fragment that identifies authentication endpoints
func WithAuthPathSegment(segment string) Option {
	return func(p *Pipeline) {
		if segment != "" {
			p.authPathSegment = segment
		}
	}
}

// WithUnauthorizedPolicy selects the reaction to 401 responses
func WithUnauthorizedPolicy(policy UnauthorizedPolicy) Option {
	return func(p *Pipeline) {
		p.policy = policy
	}
}

// WithUnauthorizedHandler registers the function run under PolicyLogout
func WithUnauthorizedHandler(handler func(ctx context.Context)) Option {
	return func(p *Pipeline) {
		p.onUnauthorized = handler
	}
}

// New creates a Pipeline reading credentials from tokens
func New(tokens TokenReader, options ...Option) *Pipeline {
	p := &Pipeline{
		base:            http.DefaultTransport,
		tokens:          tokens,
		authPathSegment: defaultAuthPathSegment,
		policy:          PolicySurface,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Client returns an *http.Client using the pipeline as its transport
func (p *Pipeline) Client(timeout time.Duration) *http.Client {
	return &http.Client{Transport: p, Timeout: timeout}
}

// IsAuthEndpoint reports whether the request path denotes an authentication endpoint
func (p *Pipeline) IsAuthEndpoint(req *http.Request) bool {
	return strings.Contains(req.URL.Path, p.authPathSegment)
}

// RoundTrip implements http.RoundTripper. The caller's request is never mutated.
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	authEndpoint := p.IsAuthEndpoint(req)

	out := req
	if !authEndpoint {
		out = p.authorize(req)
	}
	if out.Header.Get(HeaderRequestID) == "" {
		if out == req {
			out = req.Clone(req.Context())
		}
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}

	resp, err := p.base.RoundTrip(out)
	if err != nil {
		log.Debug().Err(err).Str("method", out.Method).Str("path", out.URL.Path).
			Str("request_id", out.Header.Get(HeaderRequestID)).Msg("API request failed")
		return nil, err
	}

	log.Debug().Str("method", out.Method).Str("path", out.URL.Path).Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).Str("request_id", out.Header.Get(HeaderRequestID)).Msg("API request")

	if resp.StatusCode == http.StatusUnauthorized && !authEndpoint {
		p.handleUnauthorized(req.Context(), out)
	}
	return resp, nil
}

// authorize returns a clone carrying the bearer header, or req itself when no token is available
func (p *Pipeline) authorize(req *http.Request) *http.Request {
	if p.tokens == nil {
		return req
	}
	token, ok, err := p.tokens.Load(req.Context())
	if err != nil {
		log.Err(err).Str("path", req.URL.Path).Msg("Failed to read token, sending request without credentials")
		return req
	}
	if !ok {
		return req
	}

	out := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
	return out
}

// handleUnauthorized also fires for requests sent without a token, which
// clears a store whose two locations have drifted apart.
func (p *Pipeline) handleUnauthorized(ctx context.Context, req *http.Request) {
	log.Warn().Str("path", req.URL.Path).Str("policy", string(p.policy)).Msg("API rejected credentials")
	if p.policy != PolicyLogout || p.onUnauthorized == nil {
		return
	}
	p.onUnauthorized(ctx)
}
