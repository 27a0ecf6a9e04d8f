// Package session is the single authority for the process's authenticated
// session. A Manager is constructed once at start-up and handed to every
// consumer; only the Manager writes the token store.
//
// A token found locally at start-up is trusted without a server round trip:
// local presence of a token means authenticated until a request proves
// otherwise.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-bank-client/bankapi"
	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/jrsteele09/go-bank-client/navigation"
	"github.com/jrsteele09/go-bank-client/tokenstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Authenticator is the remote side of login and registration
type Authenticator interface {
	Login(ctx context.Context, credentials bankapi.AccountCredentials) (*bankapi.TokenResponse, error)
	Register(ctx context.Context, registration bankapi.UserRegistration) (*bankapi.User, error)
}

// TokenStore is the subset of tokenstore.Store the manager needs
type TokenStore interface {
	Save(ctx context.Context, token string, expiresAt time.Time) error
	LoadCookie(ctx context.Context) (tokenstore.Record, bool, error)
	Clear(ctx context.Context) error
}

var _ TokenStore = (*tokenstore.Store)(nil)

// Routes are the views the manager navigates to
type Routes struct {
	Authenticated string // after login
	Public        string // after logout
	Login         string // after a forced logout
}

// DefaultRoutes returns the dashboard/landing/login routes
func DefaultRoutes() Routes {
	return Routes{
		Authenticated: navigation.RouteDashboard,
		Public:        navigation.RoutePublicLanding,
		Login:         navigation.RouteLogin,
	}
}

// Manager owns the in-memory Session
type Manager struct {
	api     Authenticator
	store   TokenStore
	nav     navigation.Navigator
	routes  Routes
	nowTime func() time.Time

	mu          sync.RWMutex
	session     Session
	initialized bool
}

// ManagerOption modifies a Manager
type ManagerOption func(*Manager)

// WithNowTime sets the clock used for credential timestamps (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithRoutes overrides the navigation targets
func WithRoutes(routes Routes) ManagerOption {
	return func(m *Manager) {
		m.routes = routes
	}
}

// New creates a Manager in the Unauthenticated state. Call Initialize once
// before serving requests.
func New(api Authenticator, store TokenStore, nav navigation.Navigator, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[session New] authenticator is required")
	}
	if store == nil {
		return nil, errors.New("[session New] token store is required")
	}
	if nav == nil {
		nav = navigation.RequestNavigator{}
	}
	m := &Manager{
		api:     api,
		store:   store,
		nav:     nav,
		routes:  DefaultRoutes(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Initialize adopts the token held by the cookie-like store location, if
// any, without validating it against the server.
func (m *Manager) Initialize(ctx context.Context) error {
	record, ok, err := m.store.LoadCookie(ctx)
	if err != nil {
		m.mu.Lock()
		m.initialized = true
		m.mu.Unlock()
		return errors.Wrap(err, "[session Initialize]")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	if !ok {
		return nil
	}
	m.session = Session{Credential: &Credential{AccessToken: record.Token, ExpiresAt: record.ExpiresAt}}
	log.Info().Time("expires_at", record.ExpiresAt).Msg("Session restored from token store")
	return nil
}

// Initialized reports whether Initialize has run
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Login authenticates against the API. On success the token is persisted,
// then adopted in memory, then the authenticated view is requested, in that
// order. On failure the previous session and store are left untouched and
// the error matches apperrors.ErrAuthenticationFailed.
func (m *Manager) Login(ctx context.Context, identifier, secret string) error {
	resp, err := m.api.Login(ctx, bankapi.AccountCredentials{Username: identifier, Password: secret})
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrAuthenticationFailed, err)
	}
	if resp == nil || !resp.Authenticated || resp.AccessToken == "" {
		return fmt.Errorf("%w: not authenticated or no access token", apperrors.ErrAuthenticationFailed)
	}

	// the caller may have gone away while the call was in flight
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("[session Login] abandoned before commit: %w", err)
	}

	credential := credentialFrom(resp, m.nowTime())

	// Save overwrites both locations and rolls back on failure, so the
	// previous token stays in place until the new one is fully written
	if err := m.store.Save(ctx, credential.AccessToken, credential.ExpiresAt); err != nil {
		return fmt.Errorf("[session Login] persist token: %w", err)
	}

	m.mu.Lock()
	m.session = Session{
		Credential: &credential,
		User:       &Identity{Email: identifier},
	}
	m.mu.Unlock()

	log.Info().Str("email", identifier).Time("expires_at", credential.ExpiresAt).Msg("Logged in")
	m.nav.Navigate(ctx, m.routes.Authenticated)
	return nil
}

// Register creates the user and then logs in with the same email and secret.
// A rejected registration matches apperrors.ErrRegistrationFailed and no
// login is attempted; a failed login matches apperrors.ErrAuthenticationFailed.
func (m *Manager) Register(ctx context.Context, email, secret, fullName, taxID string) error {
	_, err := m.api.Register(ctx, bankapi.UserRegistration{
		Email:    email,
		Password: secret,
		FullName: fullName,
		CPF:      taxID,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrRegistrationFailed, err)
	}
	log.Info().Str("email", email).Msg("Registered")
	return m.Login(ctx, email, secret)
}

// Logout clears both store locations and the in-memory session, then
// requests the public landing view. It cannot fail; storage errors are logged.
func (m *Manager) Logout(ctx context.Context) {
	m.end(ctx, m.routes.Public, "Logged out")
}

// Invalidate is a forced logout after the server rejected the credential.
// It navigates to the login view instead of the public landing view.
func (m *Manager) Invalidate(ctx context.Context) {
	m.end(ctx, m.routes.Login, "Session invalidated after unauthorized response")
}

func (m *Manager) end(ctx context.Context, target, msg string) {
	if err := m.store.Clear(ctx); err != nil {
		log.Err(err).Msg("Failed to clear token store")
	}

	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()

	log.Info().Msg(msg)
	m.nav.Navigate(ctx, target)
}

// IsAuthenticated is true iff a non-empty token is held in memory
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsAuthenticated()
}

// State returns the current state of the session
func (m *Manager) State() State {
	if m.IsAuthenticated() {
		return Authenticated
	}
	return Unauthenticated
}

// Current returns a copy of the session
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.copy()
}
