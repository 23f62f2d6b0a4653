package auth

import (
	"context"
	"net/http"
)

type contextKey string

const sessionKey contextKey = "session"

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the request's session. Outside Middleware it returns a
// fresh anonymous session.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

// TokenFromContext returns the bearer token for outbound backend calls.
func TokenFromContext(ctx context.Context) string {
	return FromContext(ctx).Token
}

// Middleware runs Init on every request and stores the session in context.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := g.Init(w, r)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// Require は認証必須ミドルウェア。未ログインならハンドラを実行せずログイン画面へ 303 で送る
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		if !s.Authenticated || !WellFormed(s.Token) {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
