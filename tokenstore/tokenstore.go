// Package tokenstore persists the session's bearer token into two independent
// locations: an edge cookie jar read by the route guard and a page key-value
// store read by the request pipeline. Both are written and cleared together.
package tokenstore

import (
	"context"
	"math"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultKey names both the cookie and the key-value record
	DefaultKey = "token"

	day = 24 * time.Hour
)

// CookieJar is the cookie-like, expiry-aware location.
// Cookie returns apperrors.ErrTokenNotFound when the record is absent or expired.
type CookieJar interface {
	SetCookie(ctx context.Context, cookie *http.Cookie) error
	Cookie(ctx context.Context, name string) (*http.Cookie, error)
	RemoveCookie(ctx context.Context, name string) error
}

// KeyValue is the plain durable location. GetItem reports whether the key exists.
type KeyValue interface {
	SetItem(ctx context.Context, key, value string) error
	GetItem(ctx context.Context, key string) (string, bool, error)
	RemoveItem(ctx context.Context, key string) error
}

// Record is what the edge location knows about the credential
type Record struct {
	Token     string
	ExpiresAt time.Time
}

// Store writes the token to both locations with a single Save/Clear.
type Store struct {
	key     string
	jar     CookieJar
	kv      KeyValue
	nowTime func() time.Time
}

// StoreOption modifies a Store
type StoreOption func(*Store)

// WithKey overrides the record name (default "token")
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithNowTime sets the clock used for expiry computation (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// New creates a Store over the given edge and page backends
func New(jar CookieJar, kv KeyValue, options ...StoreOption) (*Store, error) {
	if jar == nil {
		return nil, errors.New("[tokenstore New] cookie jar is required")
	}
	if kv == nil {
		return nil, errors.New("[tokenstore New] key-value store is required")
	}
	s := &Store{
		key:     DefaultKey,
		jar:     jar,
		kv:      kv,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Key returns the record name used in both locations
func (s *Store) Key() string {
	return s.key
}

// ExpiryDays is the whole number of days from now until expiresAt, rounded up.
// Non-positive results (expired or zero expirations) become 1.
func ExpiryDays(now, expiresAt time.Time) int {
	if expiresAt.IsZero() {
		return 1
	}
	days := int(math.Ceil(float64(expiresAt.Sub(now)) / float64(day)))
	if days <= 0 {
		return 1
	}
	return days
}

// Save writes token to both locations. The edge record expires after
// ExpiryDays(now, expiresAt) days and is marked Secure and SameSite=Strict.
// If the page write fails the edge record is rolled back to what it was
// before the call, so both locations keep the previous token.
func (s *Store) Save(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return apperrors.ErrEmptyToken
	}

	now := s.nowTime()
	days := ExpiryDays(now, expiresAt)
	cookie := &http.Cookie{
		Name:     s.key,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(time.Duration(days) * day),
		MaxAge:   days * int(day/time.Second),
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}

	previous, err := s.jar.Cookie(ctx, s.key)
	if err != nil && !apperrors.Is(err, apperrors.ErrTokenNotFound) {
		log.Err(err).Str("key", s.key).Msg("Failed to read previous cookie before save")
	}

	if err := s.jar.SetCookie(ctx, cookie); err != nil {
		return errors.Wrap(err, "[Store Save] cookie jar")
	}
	if err := s.kv.SetItem(ctx, s.key, token); err != nil {
		s.rollbackCookie(ctx, previous)
		return errors.Wrap(err, "[Store Save] key-value store")
	}
	return nil
}

// rollbackCookie puts back the edge record that was live before a failed
// Save, or removes the new one when there was none.
func (s *Store) rollbackCookie(ctx context.Context, previous *http.Cookie) {
	var err error
	if previous != nil {
		err = s.jar.SetCookie(ctx, previous)
	} else {
		err = s.jar.RemoveCookie(ctx, s.key)
	}
	if err != nil {
		log.Err(err).Str("key", s.key).Msg("Failed to roll back cookie after key-value write failure")
	}
}

// Load returns the token from the page location. Expiry is not checked.
func (s *Store) Load(ctx context.Context) (string, bool, error) {
	token, ok, err := s.kv.GetItem(ctx, s.key)
	if err != nil {
		return "", false, errors.Wrap(err, "[Store Load]")
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// LoadCookie returns the record held by the edge location
func (s *Store) LoadCookie(ctx context.Context) (Record, bool, error) {
	cookie, err := s.jar.Cookie(ctx, s.key)
	if apperrors.Is(err, apperrors.ErrTokenNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, errors.Wrap(err, "[Store LoadCookie]")
	}
	if cookie.Value == "" {
		return Record{}, false, nil
	}
	return Record{Token: cookie.Value, ExpiresAt: cookie.Expires}, true, nil
}

// Clear removes the token from both locations. Both removals are attempted
// even if the first fails; clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	var jarErr, kvErr error
	if err := s.jar.RemoveCookie(ctx, s.key); err != nil {
		jarErr = errors.Wrap(err, "[Store Clear] cookie jar")
	}
	if err := s.kv.RemoveItem(ctx, s.key); err != nil {
		kvErr = errors.Wrap(err, "[Store Clear] key-value store")
	}
	return apperrors.Join(jarErr, kvErr)
}
