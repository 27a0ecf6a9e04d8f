// Package guard is the navigation-time route check. It only looks at whether
// the cookie-like token location holds a credential; it neither verifies the
// token nor checks its expiry, and it is not a security boundary.
package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-bank-client/navigation"
	"github.com/jrsteele09/go-bank-client/tokenstore"
	"github.com/rs/zerolog/log"
)

// Class is the sensitivity of a path
type Class int

const (
	Protected Class = iota
	Public
	Exempt
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case Exempt:
		return "exempt"
	default:
		return "protected"
	}
}

var (
	defaultPublicPaths    = []string{navigation.RoutePublicLanding, navigation.RouteLogin, navigation.RouteRegister}
	defaultExemptPrefixes = []string{"/api", "/_next", "/static"}
)

// CookieReader reads the edge location of the token store
type CookieReader interface {
	LoadCookie(ctx context.Context) (tokenstore.Record, bool, error)
}

var _ CookieReader = (*tokenstore.Store)(nil)

// Action is what the guard does with a navigation
type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision is the result of evaluating a path
type Decision struct {
	Action   Action
	Location string
}

// Guard classifies paths and decides redirects
type Guard struct {
	publicPaths    map[string]struct{}
	exemptPrefixes []string
	authenticated  string
	login          string
}

// Option modifies a Guard
type Option func(*Guard)

// WithPublicPaths replaces the set of public paths
func WithPublicPaths(paths ...string) Option {
	return func(g *Guard) {
		g.publicPaths = make(map[string]struct{}, len(paths))
		for _, p := range paths {
			g.publicPaths[p] = struct{}{}
		}
	}
}

// WithRedirects overrides the authenticated landing view and the login view
func WithRedirects(authenticated, login string) Option {
	return func(g *Guard) {
		g.authenticated = authenticated
		g.login = login
	}
}

func New(options ...Option) *Guard {
	g := &Guard{
		exemptPrefixes: defaultExemptPrefixes,
		authenticated:  navigation.RouteDashboard,
		login:          navigation.RouteLogin,
	}
	WithPublicPaths(defaultPublicPaths...)(g)
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Classify sorts path into exempt (API, assets, internal), public or protected
func (g *Guard) Classify(path string) Class {
	for _, prefix := range g.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return Exempt
		}
	}
	if strings.Contains(path, ".") {
		return Exempt
	}
	if _, ok := g.publicPaths[path]; ok {
		return Public
	}
	return Protected
}

// Evaluate decides what to do with a navigation to path
func (g *Guard) Evaluate(path string, hasCredential bool) Decision {
	switch g.Classify(path) {
	case Public:
		if hasCredential {
			return Decision{Action: Redirect, Location: g.authenticated}
		}
	case Protected:
		if !hasCredential {
			return Decision{Action: Redirect, Location: g.login}
		}
	}
	return Decision{Action: Allow}
}

// Middleware runs the guard before next. Exempt paths skip the store read;
// a failing read counts as no credential.
func (g *Guard) Middleware(reader CookieReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if g.Classify(path) == Exempt {
				next.ServeHTTP(w, r)
				return
			}

			_, hasCredential, err := reader.LoadCookie(r.Context())
			if err != nil {
				log.Err(err).Str("path", path).Msg("Route guard failed to read token")
				hasCredential = false
			}

			decision := g.Evaluate(path, hasCredential)
			if decision.Action == Redirect {
				http.Redirect(w, r, decision.Location, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
