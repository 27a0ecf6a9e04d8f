package fakebank

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-bank-client/bankapi"
	"github.com/jrsteele09/go-bank-client/internal/utils"
)

func (s *Server) createAccount(w http.ResponseWriter, _ *http.Request, u *user) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.accountFor(u) != nil {
		writeError(w, http.StatusConflict, "account already exists")
		return
	}
	s.nextID++
	now := s.timestamp()
	account := &bankapi.Account{
		ID:            s.nextID,
		AccountNumber: strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]),
		UserID:        u.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.accounts[account.ID] = account
	writeJSON(w, http.StatusCreated, account)
}

func (s *Server) accountByUser(w http.ResponseWriter, _ *http.Request, u *user) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	account := s.accountFor(u)
	if account == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request, u *user) {
	s.moveFunds(w, r, u, bankapi.TransactionDeposit)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request, u *user) {
	s.moveFunds(w, r, u, bankapi.TransactionWithdraw)
}

func (s *Server) moveFunds(w http.ResponseWriter, r *http.Request, u *user, kind bankapi.TransactionType) {
	var op bankapi.AccountOperation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil || op.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	account := s.accountFor(u)
	if account == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if kind == bankapi.TransactionWithdraw {
		if account.Balance < op.Amount {
			writeError(w, http.StatusBadRequest, "insufficient funds")
			return
		}
		account.Balance -= op.Amount
	} else {
		account.Balance += op.Amount
	}
	account.UpdatedAt = s.timestamp()
	s.recordTransaction(bankapi.TransactionResponse{
		SourceAccountNumber:      account.AccountNumber,
		DestinationAccountNumber: account.AccountNumber,
		Amount:                   op.Amount,
		Status:                   bankapi.TransactionCompleted,
		Type:                     kind,
		PaymentType:              bankapi.PaymentDebit,
	})
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request, u *user) {
	var req bankapi.CardCreation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.CardHolderName) == "" {
		writeError(w, http.StatusBadRequest, "cardHolderName is required")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.nextID++
	now := s.nowTime().UTC()
	card := &bankapi.Card{
		ID:             s.nextID,
		CardNumber:     randomDigits(16),
		CardHolderName: req.CardHolderName,
		ExpirationDate: now.AddDate(5, 0, 0).Format("01/06"),
		CVV:            randomDigits(3),
		UserID:         u.ID,
		CreatedAt:      now.Format(TimestampLayout),
		UpdatedAt:      now.Format(TimestampLayout),
	}
	s.cards[card.ID] = card
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) cardsByUser(w http.ResponseWriter, _ *http.Request, u *user) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	cards := make([]bankapi.Card, 0)
	for _, c := range s.cards {
		if c.UserID == u.ID {
			cards = append(cards, *c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) cardByID(w http.ResponseWriter, r *http.Request, u *user) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	card, ok := s.cards[id]
	if !ok || card.UserID != u.ID {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// purchase charges a card and adds the charge to the card's open invoice
func (s *Server) purchase(w http.ResponseWriter, r *http.Request, u *user) {
	var req bankapi.CardPurchase
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	card, ok := s.cards[req.CardID]
	if !ok || card.UserID != u.ID {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = bankapi.PaymentCredit
	}
	tx := s.recordTransaction(bankapi.TransactionResponse{
		SourceAccountNumber: card.CardNumber,
		Amount:              req.Amount,
		Status:              bankapi.TransactionCompleted,
		Type:                bankapi.TransactionCreditCard,
		PaymentType:         paymentType,
		Description:         utils.Ptr(req.Description),
	})

	invoice := s.openInvoice(card.ID)
	invoice.TotalAmount += req.Amount
	invoice.Transactions = append(invoice.Transactions, tx)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) openInvoice(cardID int64) *bankapi.Invoice {
	for _, inv := range s.invoices {
		if inv.CardID == cardID && inv.Status == bankapi.InvoiceOpen {
			return inv
		}
	}
	s.nextID++
	now := s.nowTime().UTC()
	inv := &bankapi.Invoice{
		ID:          s.nextID,
		CardID:      cardID,
		ClosingDate: now.AddDate(0, 1, 0).Format(TimestampLayout),
		DueDate:     now.AddDate(0, 1, 10).Format(TimestampLayout),
		Status:      bankapi.InvoiceOpen,
	}
	s.invoices[inv.ID] = inv
	return inv
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request, u *user) {
	var req bankapi.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 || req.DestinationAccountNumber == "" {
		writeError(w, http.StatusBadRequest, "destination and positive amount are required")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	source := s.accountFor(u)
	if source == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	var destination *bankapi.Account
	for _, a := range s.accounts {
		if a.AccountNumber == req.DestinationAccountNumber {
			destination = a
		}
	}
	if destination == nil {
		writeError(w, http.StatusNotFound, "destination account not found")
		return
	}
	if source.Balance < req.Amount {
		writeError(w, http.StatusBadRequest, "insufficient funds")
		return
	}
	source.Balance -= req.Amount
	destination.Balance += req.Amount
	tx := s.recordTransaction(bankapi.TransactionResponse{
		SourceAccountNumber:      source.AccountNumber,
		DestinationAccountNumber: destination.AccountNumber,
		Amount:                   req.Amount,
		Status:                   bankapi.TransactionCompleted,
		Type:                     bankapi.TransactionTransfer,
		PaymentType:              bankapi.PaymentTransfer,
		Description:              req.Description,
	})
	writeJSON(w, http.StatusCreated, tx)
}

// userTransactions pages newest first over transactions touching the user's account or cards
func (s *Server) userTransactions(w http.ResponseWriter, r *http.Request, u *user) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = bankapi.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	s.lock.RLock()
	defer s.lock.RUnlock()
	owned := make(map[string]bool)
	if a := s.accountFor(u); a != nil {
		owned[a.AccountNumber] = true
	}
	for _, c := range s.cards {
		if c.UserID == u.ID {
			owned[c.CardNumber] = true
		}
	}
	mine := make([]bankapi.TransactionResponse, 0)
	for i := len(s.transactions) - 1; i >= 0; i-- {
		tx := s.transactions[i]
		if owned[tx.SourceAccountNumber] || owned[tx.DestinationAccountNumber] {
			mine = append(mine, tx)
		}
	}

	total := len(mine)
	start := min(page*size, total)
	end := min(start+size, total)
	totalPages := (total + size - 1) / size
	writeJSON(w, http.StatusOK, bankapi.Page[bankapi.TransactionResponse]{
		Content:       mine[start:end],
		TotalPages:    totalPages,
		TotalElements: total,
		Size:          size,
		Number:        page,
		First:         page == 0,
		Last:          page >= totalPages-1,
		Empty:         end == start,
	})
}

func (s *Server) cardInvoices(w http.ResponseWriter, r *http.Request, u *user) {
	cardID, err := strconv.ParseInt(r.PathValue("cardId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	card, ok := s.cards[cardID]
	if !ok || card.UserID != u.ID {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	invoices := make([]bankapi.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.CardID == cardID {
			invoices = append(invoices, *inv)
		}
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].ID < invoices[j].ID })
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) payInvoice(w http.ResponseWriter, r *http.Request, u *user) {
	s.transitionInvoice(w, r, u, bankapi.InvoiceClosed, bankapi.InvoicePaid)
}

func (s *Server) closeInvoice(w http.ResponseWriter, r *http.Request, u *user) {
	s.transitionInvoice(w, r, u, bankapi.InvoiceOpen, bankapi.InvoiceClosed)
}

func (s *Server) transitionInvoice(w http.ResponseWriter, r *http.Request, u *user, from, to bankapi.InvoiceStatus) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if card, ok := s.cards[inv.CardID]; !ok || card.UserID != u.ID {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if inv.Status != from {
		writeError(w, http.StatusConflict, "invoice is "+string(inv.Status))
		return
	}
	inv.Status = to
	writeJSON(w, http.StatusOK, inv)
}

// recordTransaction assigns an id and timestamp; the caller holds the lock
func (s *Server) recordTransaction(tx bankapi.TransactionResponse) bankapi.TransactionResponse {
	s.nextID++
	tx.ID = s.nextID
	tx.CreatedAt = s.timestamp()
	s.transactions = append(s.transactions, tx)
	return tx
}
