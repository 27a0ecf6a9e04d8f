package web

import (
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// credentialsForm is echoed back into the login and register pages
type credentialsForm struct {
	Email    string
	FullName string
	TaxID    string
}

// IndexHandler renders the public landing page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, "index.html", "Welcome", nil, "")
	}
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, "login.html", "Sign in", credentialsForm{Email: r.URL.Query().Get("email")}, "")
	}
}

// LoginSubmissionHandler processes the login form. The reason for a
// failure is logged but never shown.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if email == "" || password == "" {
			redirectWithError(w, r, RouteLogin, "Email and password are required")
			return
		}

		if err := s.sessions.Login(r.Context(), email, password); err != nil {
			log.Err(err).Str("email", email).Msg("Login failed")
			redirectWithError(w, r, RouteLogin, msgLoginFailed)
			return
		}
		redirectSuccess(w, r, navigationTarget(r, RouteDashboard))
	}
}

func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, "register.html", "Open an account", credentialsForm{}, "")
	}
}

// RegisterSubmissionHandler creates the user and signs them in. When the
// registration succeeds but the follow-up login does not, the user is sent
// to the login page.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := credentialsForm{
			Email:    strings.TrimSpace(r.FormValue("email")),
			FullName: strings.TrimSpace(r.FormValue("fullName")),
			TaxID:    strings.TrimSpace(r.FormValue("cpf")),
		}
		password := r.FormValue("password")
		if form.Email == "" || password == "" {
			s.render(w, r, "register.html", "Open an account", form, "Email and password are required")
			return
		}
		if confirm := r.FormValue("confirmPassword"); confirm != "" && confirm != password {
			s.render(w, r, "register.html", "Open an account", form, "Passwords do not match")
			return
		}

		err := s.sessions.Register(r.Context(), form.Email, password, form.FullName, form.TaxID)
		switch {
		case err == nil:
			redirectSuccess(w, r, navigationTarget(r, RouteDashboard))
		case apperrors.Is(err, apperrors.ErrRegistrationFailed):
			log.Err(err).Str("email", form.Email).Msg("Registration failed")
			s.render(w, r, "register.html", "Open an account", form, failureMessage("Registration", err))
		default:
			log.Err(err).Str("email", form.Email).Msg("Login after registration failed")
			redirectWithError(w, r, RouteLogin, msgLoginFailed)
		}
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Logout(r.Context())
		redirectSuccess(w, r, navigationTarget(r, RouteIndex))
	}
}
