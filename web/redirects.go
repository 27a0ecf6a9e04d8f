package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-bank-client/bankapi"
	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/jrsteele09/go-bank-client/navigation"
	"github.com/rs/zerolog/log"
)

const (
	msgSignIn         = "Please sign in to continue"
	msgSessionExpired = "Your session has expired, please sign in again"
	msgLoginFailed    = "Invalid email or password"
	msgAmount         = "Enter a positive amount"
)

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError redirects to path carrying errorMsg as the ?error= flash
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, path+"?error="+url.QueryEscape(errorMsg))
}

func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// navigationTarget is the view the session manager asked for during this request, or fallback
func navigationTarget(r *http.Request, fallback string) string {
	if h, ok := navigation.HolderFrom(r.Context()); ok && h.Target() != "" {
		return h.Target()
	}
	return fallback
}

// followForcedLogout redirects when the session was invalidated while the
// request was being handled. It reports whether a redirect was written.
func followForcedLogout(w http.ResponseWriter, r *http.Request) bool {
	target := navigationTarget(r, "")
	if target == "" {
		return false
	}
	redirectWithError(w, r, target, msgSessionExpired)
	return true
}

// actionFailed handles a failed API call made by a form submission
func actionFailed(w http.ResponseWriter, r *http.Request, back, action string, err error) {
	log.Err(err).Str("path", r.URL.Path).Msgf("%s failed", action)
	if followForcedLogout(w, r) {
		return
	}
	redirectWithError(w, r, back, failureMessage(action, err))
}

// failureMessage is the user facing text for a failed API call
func failureMessage(action string, err error) string {
	var apiErr *bankapi.APIError
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return action + " failed: not authorized"
	case apperrors.As(err, &apiErr):
		if msg := apiErr.Message(); msg != "" {
			return fmt.Sprintf("%s failed: %s", action, msg)
		}
		return fmt.Sprintf("%s failed (status %d)", action, apiErr.StatusCode)
	case apperrors.Is(err, apperrors.ErrTransport):
		return action + " failed: the bank is unreachable"
	}
	return action + " failed"
}
