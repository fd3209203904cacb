package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

const (
	csrfCookie = "quillfield_csrf"
	csrfField  = "_csrf"
)

// csrfToken returns the double-submit token for the request, issuing a new
// cookie when the browser has none yet.
func csrfToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// validCSRF reports whether the posted token matches the cookie. The form
// must already be parsed.
func validCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(csrfCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(r.PostForm.Get(csrfField))) == 1
}
