package web

import "github.com/jrsteele09/go-bank-client/navigation"

// Route path constants
const (
	RouteIndex     = navigation.RoutePublicLanding
	RouteLogin     = navigation.RouteLogin
	RouteRegister  = navigation.RouteRegister
	RouteLogout    = "/logout"
	RouteDashboard = navigation.RouteDashboard

	// Account actions posted from the dashboard
	RouteAccount         = "/account"
	RouteAccountDeposit  = "/account/deposit"
	RouteAccountWithdraw = "/account/withdraw"

	// Cards & invoices
	RouteCards        = "/cards"
	RouteCardNew      = "/cards/new"
	RouteCardInvoices = "/cards/{id}/invoices"
	RouteCardPurchase = "/cards/purchase"
	RouteInvoicePay   = "/invoices/{id}/pay"
	RouteInvoiceClose = "/invoices/{id}/close"

	// Transactions
	RouteTransactions   = "/transactions"
	RouteTransactionNew = "/transactions/new"

	RouteStatic = "/static/{file}"
)
