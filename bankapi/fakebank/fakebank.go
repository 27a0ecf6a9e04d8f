// Package fakebank is an in-memory stand-in for the remote banking API. It is
// used by tests and by cmd/mockbank for local development.
package fakebank

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-bank-client/bankapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// TimestampLayout is the format used for created/expiration fields
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type user struct {
	bankapi.User
	passwordHash string
}

// Server is an http.Handler implementing the remote API in memory
type Server struct {
	mux      *http.ServeMux
	secret   []byte
	tokenTTL time.Duration
	nowTime  func() time.Time

	lock         sync.RWMutex
	nextID       int64
	users        map[string]*user // email -> user
	accounts     map[int64]*bankapi.Account
	cards        map[int64]*bankapi.Card
	invoices     map[int64]*bankapi.Invoice
	transactions []bankapi.TransactionResponse
	authHeaders  map[string]string // last Authorization header per path
}

// Option modifies a Server
type Option func(*Server)

// WithNowTime sets the clock used for token issuing and timestamps
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithTokenTTL sets the lifetime of issued access tokens (default 1h)
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = ttl
	}
}

// WithSecret sets the HMAC key used to sign access tokens
func WithSecret(secret []byte) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

func New(options ...Option) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		secret:      []byte("fakebank-secret"),
		tokenTTL:    time.Hour,
		nowTime:     time.Now,
		users:       make(map[string]*user),
		accounts:    make(map[int64]*bankapi.Account),
		cards:       make(map[int64]*bankapi.Card),
		invoices:    make(map[int64]*bankapi.Invoice),
		authHeaders: make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	s.authHeaders[r.URL.Path] = r.Header.Get("Authorization")
	s.lock.Unlock()
	s.mux.ServeHTTP(w, r)
}

// LastAuthorization returns the Authorization header last received for path
func (s *Server) LastAuthorization(path string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	h, ok := s.authHeaders[path]
	return h, ok
}

func (s *Server) initRoutes() {
	s.mux.HandleFunc("POST "+bankapi.PathAuthRegister, s.register)
	s.mux.HandleFunc("POST "+bankapi.PathAuthLogin, s.login)

	s.mux.HandleFunc("POST "+bankapi.PathAccounts, s.requireAuth(s.createAccount))
	s.mux.HandleFunc("POST "+bankapi.PathAccountDeposit, s.requireAuth(s.deposit))
	s.mux.HandleFunc("POST "+bankapi.PathAccountWithdraw, s.requireAuth(s.withdraw))
	s.mux.HandleFunc("GET "+bankapi.PathAccountByUser, s.requireAuth(s.accountByUser))

	s.mux.HandleFunc("POST "+bankapi.PathCards, s.requireAuth(s.createCard))
	s.mux.HandleFunc("GET "+bankapi.PathCardsByUser, s.requireAuth(s.cardsByUser))
	s.mux.HandleFunc("GET "+bankapi.PathCards+"/{id}", s.requireAuth(s.cardByID))
	s.mux.HandleFunc("POST "+bankapi.PathCardPurchase, s.requireAuth(s.purchase))

	s.mux.HandleFunc("POST "+bankapi.PathTransfer, s.requireAuth(s.transfer))
	s.mux.HandleFunc("GET "+bankapi.PathUserTransactions, s.requireAuth(s.userTransactions))

	s.mux.HandleFunc("GET "+bankapi.PathCardInvoices+"/{cardId}", s.requireAuth(s.cardInvoices))
	s.mux.HandleFunc("POST "+bankapi.PathInvoices+"/{id}/pay", s.requireAuth(s.payInvoice))
	s.mux.HandleFunc("POST "+bankapi.PathInvoices+"/{id}/close", s.requireAuth(s.closeInvoice))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req bankapi.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if _, exists := s.users[strings.ToLower(req.Email)]; exists {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	s.nextID++
	u := &user{
		User:         bankapi.User{ID: s.nextID, Email: req.Email, FullName: req.FullName, CPF: req.CPF},
		passwordHash: string(hash),
	}
	s.users[strings.ToLower(req.Email)] = u
	writeJSON(w, http.StatusCreated, u.User)
}

// login answers 200 with authenticated=false for unknown users or wrong passwords
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req bankapi.AccountCredentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.lock.RLock()
	u, ok := s.users[strings.ToLower(req.Username)]
	s.lock.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusOK, bankapi.TokenResponse{Username: req.Username, Authenticated: false})
		return
	}

	now := s.nowTime().UTC()
	expires := now.Add(s.tokenTTL)
	token, err := s.issueToken(u.Email, now, expires)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, bankapi.TokenResponse{
		Username:      u.Email,
		Authenticated: true,
		Created:       now.Format(TimestampLayout),
		Expiration:    expires.Format(TimestampLayout),
		AccessToken:   token,
		RefreshToken:  uuid.NewString(),
	})
}

// IssueToken signs an access token for email; exposed so tests can craft tokens
func (s *Server) IssueToken(email string, issuedAt, expiresAt time.Time) (string, error) {
	return s.issueToken(email, issuedAt, expiresAt)
}

func (s *Server) issueToken(email string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwtlib.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwtlib.NewNumericDate(issuedAt),
		ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "[fakebank issueToken]")
	}
	return signed, nil
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u *user)

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := &jwtlib.RegisteredClaims{}
		_, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (interface{}, error) {
			return s.secret, nil
		},
			jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
			jwtlib.WithTimeFunc(s.nowTime),
		)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		s.lock.RLock()
		u, ok := s.users[strings.ToLower(claims.Subject)]
		s.lock.RUnlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		next(w, r, u)
	}
}

func (s *Server) timestamp() string {
	return s.nowTime().UTC().Format(TimestampLayout)
}

func (s *Server) accountFor(u *user) *bankapi.Account {
	for _, a := range s.accounts {
		if a.UserID == u.ID {
			return a
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// randomDigits returns n decimal digits from crypto/rand
func randomDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		fmt.Fprintf(&b, "%d", d.Int64())
	}
	return b.String()
}
