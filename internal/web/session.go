package web

import (
	"context"
	"net/http"

	"github.com/forecourthq/forecourt/internal/auth"
)

// sessionCookieName carries the signed session token.
const sessionCookieName = "forecourt_session"

type contextKey string

const identityContextKey contextKey = "identity"

// identityFromContext returns the verified identity attached to the request,
// if any. The second return value is false for anonymous requests.
func identityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(auth.Identity)
	return id, ok
}

// withIdentity attaches a verified identity to the request context.
func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// setSessionCookie installs a fresh session token. The cookie is HTTP-only
// so page scripts never see the token; Secure is dropped in development so
// plain-HTTP local setups still work.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   !s.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !s.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}
