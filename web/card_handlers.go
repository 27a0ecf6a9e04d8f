package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-bank-client/bankapi"
	"github.com/rs/zerolog/log"
)

type cardsContent struct {
	Cards []bankapi.Card
}

type invoicesContent struct {
	Card     *bankapi.Card
	Invoices []bankapi.Invoice
}

// CardsHandler lists the user's cards
func (s *Server) CardsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := s.api.GetCardsByUser(r.Context())
		if err != nil {
			if followForcedLogout(w, r) {
				return
			}
			log.Err(err).Msg("Failed to load cards")
			s.render(w, r, "cards.html", "Cards", cardsContent{}, failureMessage("Loading cards", err))
			return
		}
		s.render(w, r, "cards.html", "Cards", cardsContent{Cards: cards}, "")
	}
}

func (s *Server) NewCardPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, "card_new.html", "New card", nil, "")
	}
}

func (s *Server) NewCardSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		holder := strings.ToUpper(strings.TrimSpace(r.FormValue("cardHolderName")))
		if holder == "" {
			redirectWithError(w, r, RouteCardNew, "Card holder name is required")
			return
		}
		if _, err := s.api.CreateCard(r.Context(), bankapi.CardCreation{CardHolderName: holder}); err != nil {
			actionFailed(w, r, RouteCardNew, "Creating the card", err)
			return
		}
		redirectSuccess(w, r, RouteCards)
	}
}

// CardInvoicesHandler shows one card with its invoices and the purchase form
func (s *Server) CardInvoicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		card, err := s.api.GetCard(r.Context(), cardID)
		if err != nil {
			if followForcedLogout(w, r) {
				return
			}
			if isNotFound(err) {
				redirectWithError(w, r, RouteCards, "Card not found")
				return
			}
			log.Err(err).Int64("card", cardID).Msg("Failed to load card")
			s.render(w, r, "invoices.html", "Invoices", invoicesContent{}, failureMessage("Loading the card", err))
			return
		}

		invoices, err := s.api.GetCardInvoices(r.Context(), cardID)
		if err != nil {
			if followForcedLogout(w, r) {
				return
			}
			log.Err(err).Int64("card", cardID).Msg("Failed to load invoices")
			s.render(w, r, "invoices.html", "Invoices", invoicesContent{Card: card}, failureMessage("Loading invoices", err))
			return
		}
		s.render(w, r, "invoices.html", "Invoices", invoicesContent{Card: card, Invoices: invoices}, "")
	}
}

func (s *Server) PurchaseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID, err := strconv.ParseInt(r.FormValue("cardId"), 10, 64)
		if err != nil {
			redirectWithError(w, r, RouteCards, "Choose a card")
			return
		}
		back := cardInvoicesPath(cardID)
		amount, ok := parseAmount(r.FormValue("amount"))
		if !ok {
			redirectWithError(w, r, back, msgAmount)
			return
		}
		paymentType := bankapi.PaymentType(strings.ToUpper(r.FormValue("paymentType")))
		if paymentType != bankapi.PaymentDebit {
			paymentType = bankapi.PaymentCredit
		}

		purchase := bankapi.CardPurchase{
			CardID:      cardID,
			Amount:      amount,
			Description: strings.TrimSpace(r.FormValue("description")),
			PaymentType: paymentType,
		}
		if _, err := s.api.Purchase(r.Context(), purchase); err != nil {
			actionFailed(w, r, back, "Purchase", err)
			return
		}
		redirectSuccess(w, r, back)
	}
}

func (s *Server) PayInvoiceHandler() http.HandlerFunc {
	return s.invoiceActionHandler("Paying the invoice", s.api.PayInvoice)
}

func (s *Server) CloseInvoiceHandler() http.HandlerFunc {
	return s.invoiceActionHandler("Closing the invoice", s.api.CloseInvoice)
}

// invoiceActionHandler applies act to the invoice in the path and returns to
// the card named by the cardId form field, or to the card list
func (s *Server) invoiceActionHandler(action string, act func(ctx context.Context, invoiceID int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := RouteCards
		if cardID, err := strconv.ParseInt(r.FormValue("cardId"), 10, 64); err == nil {
			back = cardInvoicesPath(cardID)
		}
		invoiceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if err := act(r.Context(), invoiceID); err != nil {
			actionFailed(w, r, back, action, err)
			return
		}
		redirectSuccess(w, r, back)
	}
}
