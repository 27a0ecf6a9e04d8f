// Package web serves the banking views. Every request passes the route guard
// first; page handlers then talk to the session manager and the bank API.
package web

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-bank-client/bankapi"
	"github.com/jrsteele09/go-bank-client/guard"
	"github.com/jrsteele09/go-bank-client/internal/config"
	"github.com/jrsteele09/go-bank-client/session"
	"github.com/pkg/errors"
)

// Sessions is the session manager as used by the page handlers
type Sessions interface {
	Login(ctx context.Context, identifier, secret string) error
	Register(ctx context.Context, email, secret, fullName, taxID string) error
	Logout(ctx context.Context)
	IsAuthenticated() bool
	Current() session.Session
}

// BankAPI is the subset of the remote API the pages call
type BankAPI interface {
	CreateAccount(ctx context.Context) (*bankapi.Account, error)
	Deposit(ctx context.Context, op bankapi.AccountOperation) (*bankapi.Account, error)
	Withdraw(ctx context.Context, op bankapi.AccountOperation) (*bankapi.Account, error)
	GetAccountByUser(ctx context.Context) (*bankapi.Account, error)
	CreateCard(ctx context.Context, creation bankapi.CardCreation) (*bankapi.Card, error)
	GetCardsByUser(ctx context.Context) ([]bankapi.Card, error)
	GetCard(ctx context.Context, id int64) (*bankapi.Card, error)
	Purchase(ctx context.Context, purchase bankapi.CardPurchase) (*bankapi.TransactionResponse, error)
	Transfer(ctx context.Context, request bankapi.TransactionRequest) (*bankapi.TransactionResponse, error)
	GetUserTransactions(ctx context.Context, page, size int) (*bankapi.Page[bankapi.TransactionResponse], error)
	GetCardInvoices(ctx context.Context, cardID int64) ([]bankapi.Invoice, error)
	PayInvoice(ctx context.Context, invoiceID int64) error
	CloseInvoice(ctx context.Context, invoiceID int64) error
}

var (
	_ Sessions = (*session.Manager)(nil)
	_ BankAPI  = (*bankapi.Client)(nil)
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	appName  string
	mux      *http.ServeMux
	handler  http.Handler
	routes   []string
	sessions Sessions
	api      BankAPI
	guard    *guard.Guard
	pages    map[string]*template.Template
}

// New builds the page server. tokens is the edge location of the token store,
// read by the route guard on every navigation.
func New(c config.Config, sessions Sessions, api BankAPI, tokens guard.CookieReader, options ...guard.Option) (*Server, error) {
	if sessions == nil {
		return nil, errors.New("[web New] session manager is required")
	}
	if api == nil {
		return nil, errors.New("[web New] bank api is required")
	}
	if tokens == nil {
		return nil, errors.New("[web New] token reader is required")
	}

	s := &Server{
		env:      c.GetEnv(),
		appName:  c.GetAppName(),
		mux:      http.NewServeMux(),
		sessions: sessions,
		api:      api,
		guard:    guard.New(options...),
	}
	if err := s.parsePages(); err != nil {
		return nil, fmt.Errorf("[web New] failed to parse templates: %w", err)
	}

	s.initRoutes()
	s.handler = s.guard.Middleware(tokens)(s.mux)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes returns the registered patterns in registration order
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Printf("[%-19s] %s\n", colouredMethod(method), path)
}

func logError(method, path, error string) {
	log.Printf("[%-19s] %s %s\n", colouredMethod(method), path, Red+error+ResetColor)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
