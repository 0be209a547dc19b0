package api

import (
	"net/http"
	"net/url"
	"strings"
)

// flashCookie is the cookie carrying a one-shot status message across the
// form-post redirect.
const flashCookie = "_flash"

// Flash kinds.
const (
	flashSuccess = "success"
	flashError   = "error"
)

// Flash is a one-shot message rendered on the next page load.
type Flash struct {
	Kind    string
	Message string
}

// flashAndRedirect stores a flash message and redirects to target.
func (s *Server) flashAndRedirect(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + ":" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// popFlash reads and clears the flash cookie.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, found := strings.Cut(raw, ":")
	if !found || message == "" {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}

// flashMessage picks the user-facing message for a failed form post:
// validation failures surface their own message, everything else falls
// back to the generic one.
func flashMessage(err error, fallback string) string {
	if isValidationError(err) {
		return userMessage(err)
	}
	return fallback
}
