package web

import (
	"fmt"
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", ChainMiddleware(s.IndexHandler(), s.PageMiddleware()...))

	// Session
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.PageMiddleware()...))

	// Account
	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteAccount, ChainMiddleware(s.CreateAccountHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteAccountDeposit, ChainMiddleware(s.DepositHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteAccountWithdraw, ChainMiddleware(s.WithdrawHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))

	// Cards & invoices
	s.RegisterRouteFunc("GET "+RouteCards, ChainMiddleware(s.CardsHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("GET "+RouteCardNew, ChainMiddleware(s.NewCardPageHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteCardNew, ChainMiddleware(s.NewCardSubmissionHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("GET "+RouteCardInvoices, ChainMiddleware(s.CardInvoicesHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteCardPurchase, ChainMiddleware(s.PurchaseHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteInvoicePay, ChainMiddleware(s.PayInvoiceHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteInvoiceClose, ChainMiddleware(s.CloseInvoiceHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))

	// Transactions
	s.RegisterRouteFunc("GET "+RouteTransactions, ChainMiddleware(s.TransactionsHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("GET "+RouteTransactionNew, ChainMiddleware(s.NewTransferPageHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))
	s.RegisterRouteFunc("POST "+RouteTransactionNew, ChainMiddleware(s.NewTransferSubmissionHandler(), s.PageMiddleware(s.RequireSessionMiddleware)...))

	s.RegisterRouteFunc("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.PathValue("file"), "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func cardInvoicesPath(cardID int64) string {
	return fmt.Sprintf("/cards/%d/invoices", cardID)
}
