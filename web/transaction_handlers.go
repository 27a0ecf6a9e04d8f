package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-bank-client/bankapi"
	"github.com/jrsteele09/go-bank-client/internal/utils"
	"github.com/rs/zerolog/log"
)

const transactionsPageSize = bankapi.DefaultPageSize

type transactionsContent struct {
	Page     *bankapi.Page[bankapi.TransactionResponse]
	PrevPage int
	NextPage int
}

type transferForm struct {
	Destination string
	Amount      string
	Description string
}

// TransactionsHandler pages through the user's transactions (?page=N, zero based)
func (s *Server) TransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNumber, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || pageNumber < 0 {
			pageNumber = bankapi.DefaultPage
		}

		page, err := s.api.GetUserTransactions(r.Context(), pageNumber, transactionsPageSize)
		if err != nil {
			if followForcedLogout(w, r) {
				return
			}
			log.Err(err).Int("page", pageNumber).Msg("Failed to load transactions")
			s.render(w, r, "transactions.html", "Transactions", transactionsContent{}, failureMessage("Loading transactions", err))
			return
		}
		s.render(w, r, "transactions.html", "Transactions", transactionsContent{
			Page:     page,
			PrevPage: page.Number - 1,
			NextPage: page.Number + 1,
		}, "")
	}
}

func (s *Server) NewTransferPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, "transaction_new.html", "New transfer", transferForm{}, "")
	}
}

// NewTransferSubmissionHandler sends money to another account. Validation
// errors re-render the form with what was typed.
func (s *Server) NewTransferSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := transferForm{
			Destination: strings.TrimSpace(r.FormValue("destinationAccountNumber")),
			Amount:      strings.TrimSpace(r.FormValue("amount")),
			Description: strings.TrimSpace(r.FormValue("description")),
		}
		if form.Destination == "" {
			s.render(w, r, "transaction_new.html", "New transfer", form, "Destination account is required")
			return
		}
		amount, ok := parseAmount(form.Amount)
		if !ok {
			s.render(w, r, "transaction_new.html", "New transfer", form, msgAmount)
			return
		}

		request := bankapi.TransactionRequest{
			DestinationAccountNumber: form.Destination,
			Amount:                   amount,
		}
		if form.Description != "" {
			request.Description = utils.Ptr(form.Description)
		}
		if _, err := s.api.Transfer(r.Context(), request); err != nil {
			actionFailed(w, r, RouteTransactionNew, "Transfer", err)
			return
		}
		redirectSuccess(w, r, RouteTransactions)
	}
}
