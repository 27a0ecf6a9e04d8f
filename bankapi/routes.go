package bankapi

// Remote API paths
const (
	PathAuthRegister = "/api/auth/register"
	PathAuthLogin    = "/api/auth/login"

	PathAccounts        = "/api/accounts"
	PathAccountDeposit  = "/api/accounts/deposit"
	PathAccountWithdraw = "/api/accounts/withdraw"
	PathAccountByUser   = "/api/accounts/user"

	PathCards        = "/api/cards"
	PathCardsByUser  = "/api/cards/user"
	PathCardPurchase = "/api/cards/purchase"

	PathTransfer         = "/api/transactions/transfer"
	PathUserTransactions = "/api/transactions/user"

	PathCardInvoices = "/api/invoices/card"
	PathInvoices     = "/api/invoices"

	// AuthPathSegment marks endpoints reachable without a bearer token
	AuthPathSegment = "/api/auth"
)
