package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-jsonform/pkg/render"
)

// csrfCookieName holds the double-submit token.
const csrfCookieName = "jsonform_csrf"

// csrfGuard implements the double-submit cookie pattern: the token lives in
// a cookie and must be echoed in the _csrf form field.
type csrfGuard struct {
	secure bool
}

// token returns the request's token, issuing a new cookie when absent.
func (g csrfGuard) token(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// verify reports whether the posted token matches the cookie. r.ParseForm
// must have run.
func (g csrfGuard) verify(r *http.Request) bool {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	posted := r.PostForm.Get(render.CSRFFieldName)
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(posted)) == 1
}
