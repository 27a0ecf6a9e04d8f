package bankapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-bank-client/bankapi"
	"github.com/jrsteele09/go-bank-client/bankapi/fakebank"
	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/jrsteele09/go-bank-client/internal/utils"
	"github.com/jrsteele09/go-bank-client/tokenstore/memstore"
	"github.com/jrsteele09/go-bank-client/transport"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	bank   *fakebank.Server
	client *bankapi.Client
}

// setupTestFixture returns a client whose pipeline reads an in-memory store
// holding a freshly issued token for a registered user
func setupTestFixture(t *testing.T, email string) *testFixture {
	t.Helper()
	ctx := context.Background()
	bank := fakebank.New()
	srv := httptest.NewServer(bank)
	t.Cleanup(srv.Close)

	store, _, _ := memstore.NewStore(nil)
	client := bankapi.New(srv.URL+"/", transport.New(store).Client(5*time.Second))

	_, err := client.Register(ctx, bankapi.UserRegistration{Email: email, Password: "pw", FullName: "Test", CPF: "1"})
	require.NoError(t, err)
	token, err := client.Login(ctx, bankapi.AccountCredentials{Username: email, Password: "pw"})
	require.NoError(t, err)
	require.True(t, token.Authenticated)
	require.NoError(t, store.Save(ctx, token.AccessToken, time.Now().Add(time.Hour)))

	return &testFixture{bank: bank, client: client}
}

func TestClient_BaseURLTrimmed(t *testing.T) {
	c := bankapi.New("http://localhost:8080/", nil)
	require.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestClient_Auth(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(fakebank.New())
	defer srv.Close()
	client := bankapi.New(srv.URL, nil)

	user, err := client.Register(ctx, bankapi.UserRegistration{Email: "a@b.com", Password: "x", FullName: "Ana", CPF: "1"})
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
	require.Equal(t, "Ana", user.FullName)

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := client.Register(ctx, bankapi.UserRegistration{Email: "a@b.com", Password: "y"})
		var apiErr *bankapi.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.StatusCode)
		require.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, err := client.Login(ctx, bankapi.AccountCredentials{Username: "a@b.com", Password: "wrong"})
		require.NoError(t, err)
		require.False(t, resp.Authenticated)
		require.Empty(t, resp.AccessToken)
	})

	t.Run("success", func(t *testing.T) {
		resp, err := client.Login(ctx, bankapi.AccountCredentials{Username: "a@b.com", Password: "x"})
		require.NoError(t, err)
		require.True(t, resp.Authenticated)
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, "a@b.com", resp.Username)
		_, err = time.Parse(fakebank.TimestampLayout, resp.Expiration)
		require.NoError(t, err)
	})
}

func TestClient_RegisterIgnoresResponseBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"created without body", http.StatusCreated, ""},
		{"no content", http.StatusNoContent, ""},
		{"non json body", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, bankapi.PathAuthRegister, r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			user, err := bankapi.New(srv.URL, nil).Register(context.Background(),
				bankapi.UserRegistration{Email: "a@b.com", Password: "x", FullName: "Ana", CPF: "1"})
			require.NoError(t, err)
			require.Equal(t, "a@b.com", user.Email)
			require.Equal(t, "Ana", user.FullName)
			require.Equal(t, "1", user.CPF)
		})
	}
}

func TestClient_UnauthorizedWithoutToken(t *testing.T) {
	srv := httptest.NewServer(fakebank.New())
	defer srv.Close()
	store, _, _ := memstore.NewStore(nil)
	client := bankapi.New(srv.URL, transport.New(store).Client(time.Second))

	_, err := client.GetAccountByUser(context.Background())
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	var apiErr *bankapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, bankapi.PathAccountByUser, apiErr.Path)
}

func TestClient_TransportError(t *testing.T) {
	client := bankapi.New("http://127.0.0.1:1", &http.Client{Timeout: time.Second})
	_, err := client.GetCardsByUser(context.Background())
	require.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestClient_Accounts(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, "acc@example.com")

	_, err := f.client.GetAccountByUser(ctx)
	var apiErr *bankapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	account, err := f.client.CreateAccount(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, account.AccountNumber)

	account, err = f.client.Deposit(ctx, bankapi.AccountOperation{Amount: 100})
	require.NoError(t, err)
	require.Equal(t, 100.0, account.Balance)

	account, err = f.client.Withdraw(ctx, bankapi.AccountOperation{Amount: 30})
	require.NoError(t, err)
	require.Equal(t, 70.0, account.Balance)

	_, err = f.client.Withdraw(ctx, bankapi.AccountOperation{Amount: 1000})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	fetched, err := f.client.GetAccountByUser(ctx)
	require.NoError(t, err)
	require.Equal(t, account.AccountNumber, fetched.AccountNumber)
	require.Equal(t, 70.0, fetched.Balance)

	auth, _ := f.bank.LastAuthorization(bankapi.PathAccountByUser)
	require.Contains(t, auth, "Bearer ")
}

func TestClient_CardsAndInvoices(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, "cards@example.com")

	card, err := f.client.CreateCard(ctx, bankapi.CardCreation{CardHolderName: "ANA SILVA"})
	require.NoError(t, err)
	require.Len(t, card.CardNumber, 16)
	require.Len(t, card.CVV, 3)

	cards, err := f.client.GetCardsByUser(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	got, err := f.client.GetCard(ctx, card.ID)
	require.NoError(t, err)
	require.Equal(t, card.CardNumber, got.CardNumber)

	tx, err := f.client.Purchase(ctx, bankapi.CardPurchase{CardID: card.ID, Amount: 42.5, Description: "books", PaymentType: bankapi.PaymentCredit})
	require.NoError(t, err)
	require.Equal(t, bankapi.TransactionCreditCard, tx.Type)
	require.Equal(t, "books", utils.Value(tx.Description))

	invoices, err := f.client.GetCardInvoices(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	require.Equal(t, bankapi.InvoiceOpen, invoices[0].Status)
	require.Equal(t, 42.5, invoices[0].TotalAmount)
	require.Len(t, invoices[0].Transactions, 1)

	// paying an open invoice is refused until it is closed
	var apiErr *bankapi.APIError
	err = f.client.PayInvoice(ctx, invoices[0].ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)

	require.NoError(t, f.client.CloseInvoice(ctx, invoices[0].ID))
	require.NoError(t, f.client.PayInvoice(ctx, invoices[0].ID))

	invoices, err = f.client.GetCardInvoices(ctx, card.ID)
	require.NoError(t, err)
	require.Equal(t, bankapi.InvoicePaid, invoices[0].Status)
}

func TestClient_TransfersAndPaging(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, "sender@example.com")
	_, err := f.client.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = f.client.Deposit(ctx, bankapi.AccountOperation{Amount: 500})
	require.NoError(t, err)

	// a second user on the same fake bank to receive transfers
	receiverStore, _, _ := memstore.NewStore(nil)
	receiver := bankapi.New(f.client.BaseURL(), transport.New(receiverStore).Client(5*time.Second))
	_, err = receiver.Register(ctx, bankapi.UserRegistration{Email: "receiver@example.com", Password: "pw"})
	require.NoError(t, err)
	token, err := receiver.Login(ctx, bankapi.AccountCredentials{Username: "receiver@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, receiverStore.Save(ctx, token.AccessToken, time.Now().Add(time.Hour)))
	receiverAccount, err := receiver.CreateAccount(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.client.Transfer(ctx, bankapi.TransactionRequest{
			DestinationAccountNumber: receiverAccount.AccountNumber,
			Amount:                   10,
			Description:              utils.Ptr("rent"),
		})
		require.NoError(t, err)
	}

	page, err := f.client.GetUserTransactions(ctx, 0, 2)
	require.NoError(t, err)
	require.Equal(t, 4, page.TotalElements)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	require.True(t, page.First)
	require.False(t, page.Last)
	require.Equal(t, bankapi.TransactionTransfer, page.Content[0].Type)

	page, err = f.client.GetUserTransactions(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	require.True(t, page.Last)

	page, err = f.client.GetUserTransactions(ctx, -1, 0)
	require.NoError(t, err)
	require.Equal(t, bankapi.DefaultPageSize, page.Size)
	require.Len(t, page.Content, 4)

	received, err := receiver.GetAccountByUser(ctx)
	require.NoError(t, err)
	require.Equal(t, 30.0, received.Balance)
}

func TestAPIError_Message(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"insufficient funds"}`, "insufficient funds"},
		{"message field wins", `{"error":"Bad Request","message":"amount must be positive"}`, "amount must be positive"},
		{"plain text", "gateway timeout", "gateway timeout"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &bankapi.APIError{StatusCode: http.StatusBadRequest, Body: tt.body}
			require.Equal(t, tt.want, e.Message())
		})
	}
}
