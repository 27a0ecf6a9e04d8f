package web

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-bank-client/bankapi"
	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/rs/zerolog/log"
)

const recentTransactions = 5

type dashboardContent struct {
	Account   *bankapi.Account
	NoAccount bool
	Recent    []bankapi.TransactionResponse
}

// DashboardHandler shows the account balance, the latest transactions and
// the deposit/withdraw forms. A user without an account is offered to open one.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var content dashboardContent
		account, err := s.api.GetAccountByUser(r.Context())
		if err != nil {
			if followForcedLogout(w, r) {
				return
			}
			if isNotFound(err) {
				content.NoAccount = true
				s.render(w, r, "dashboard.html", "Dashboard", content, "")
				return
			}
			log.Err(err).Msg("Failed to load account")
			s.render(w, r, "dashboard.html", "Dashboard", content, failureMessage("Loading your account", err))
			return
		}
		content.Account = account

		page, err := s.api.GetUserTransactions(r.Context(), 0, recentTransactions)
		if err != nil {
			if followForcedLogout(w, r) {
				return
			}
			log.Err(err).Msg("Failed to load recent transactions")
			s.render(w, r, "dashboard.html", "Dashboard", content, failureMessage("Loading transactions", err))
			return
		}
		content.Recent = page.Content
		s.render(w, r, "dashboard.html", "Dashboard", content, "")
	}
}

func (s *Server) CreateAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.api.CreateAccount(r.Context()); err != nil {
			actionFailed(w, r, RouteDashboard, "Opening the account", err)
			return
		}
		redirectSuccess(w, r, RouteDashboard)
	}
}

func (s *Server) DepositHandler() http.HandlerFunc {
	return s.moveFundsHandler("Deposit", s.api.Deposit)
}

func (s *Server) WithdrawHandler() http.HandlerFunc {
	return s.moveFundsHandler("Withdrawal", s.api.Withdraw)
}

type accountOperation func(ctx context.Context, op bankapi.AccountOperation) (*bankapi.Account, error)

func (s *Server) moveFundsHandler(action string, move accountOperation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount, ok := parseAmount(r.FormValue("amount"))
		if !ok {
			redirectWithError(w, r, RouteDashboard, msgAmount)
			return
		}
		if _, err := move(r.Context(), bankapi.AccountOperation{Amount: amount}); err != nil {
			actionFailed(w, r, RouteDashboard, action, err)
			return
		}
		redirectSuccess(w, r, RouteDashboard)
	}
}

// parseAmount accepts a positive decimal with either '.' or ',' as separator
func parseAmount(value string) (float64, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}

func isNotFound(err error) bool {
	var apiErr *bankapi.APIError
	return apperrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
