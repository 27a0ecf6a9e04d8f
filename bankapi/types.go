package bankapi

// AccountCredentials is the login request body
type AccountCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by the login endpoint
type TokenResponse struct {
	Username      string `json:"username"`
	Authenticated bool   `json:"authenticated"`
	Created       string `json:"created"`
	Expiration    string `json:"expiration"`
	AccessToken   string `json:"accessToken"`
	RefreshToken  string `json:"refreshToken"`
}

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	CPF      string `json:"cpf"`
}

// UserRegistration is the register request body. CPF is the Brazilian tax id.
type UserRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	CPF      string `json:"cpf"`
}

type Account struct {
	ID            int64   `json:"id"`
	AccountNumber string  `json:"accountNumber"`
	Balance       float64 `json:"balance"`
	UserID        int64   `json:"userId"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type AccountOperation struct {
	Amount float64 `json:"amount"`
}

type CardCreation struct {
	CardHolderName string `json:"cardHolderName"`
}

type Card struct {
	ID             int64  `json:"id"`
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	ExpirationDate string `json:"expirationDate"`
	CVV            string `json:"cvv"`
	UserID         int64  `json:"userId"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type PaymentType string

const (
	PaymentCredit   PaymentType = "CREDIT"
	PaymentDebit    PaymentType = "DEBIT"
	PaymentTransfer PaymentType = "TRANSFER"
)

type CardPurchase struct {
	CardID      int64       `json:"cardId"`
	Amount      float64     `json:"amount"`
	Description string      `json:"description"`
	PaymentType PaymentType `json:"paymentType"`
}

type InvoiceStatus string

const (
	InvoiceOpen   InvoiceStatus = "OPEN"
	InvoiceClosed InvoiceStatus = "CLOSED"
	InvoicePaid   InvoiceStatus = "PAID"
)

type Invoice struct {
	ID           int64                 `json:"id"`
	CardID       int64                 `json:"cardId"`
	DueDate      string                `json:"dueDate"`
	ClosingDate  string                `json:"closingDate"`
	TotalAmount  float64               `json:"totalAmount"`
	Status       InvoiceStatus         `json:"status"`
	Transactions []TransactionResponse `json:"transactions"`
}

type TransactionRequest struct {
	DestinationAccountNumber string  `json:"destinationAccountNumber"`
	Amount                   float64 `json:"amount"`
	Description              *string `json:"description,omitempty"`
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
)

type TransactionType string

const (
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdraw   TransactionType = "WITHDRAW"
	TransactionCreditCard TransactionType = "CREDIT_CARD"
)

type TransactionResponse struct {
	ID                       int64             `json:"id"`
	SourceAccountNumber      string            `json:"sourceAccountNumber"`
	DestinationAccountNumber string            `json:"destinationAccountNumber"`
	Amount                   float64           `json:"amount"`
	Status                   TransactionStatus `json:"status"`
	Type                     TransactionType   `json:"type"`
	PaymentType              PaymentType       `json:"paymentType"`
	Description              *string           `json:"description,omitempty"`
	CreatedAt                string            `json:"createdAt"`
}

// Page is a server-side paginated result
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	Size          int  `json:"size"`
	Number        int  `json:"number"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	Empty         bool `json:"empty"`
}
