package auth

import (
	"log/slog"
	"net/http"
	"time"
)

// Gate owns the persisted admin session. The token lives in a signed cookie;
// a cookie that fails verification or the shape check is discarded.
type Gate struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewGate creates a Gate. secure marks cookies Secure (production).
func NewGate(secret []byte, secure bool) *Gate {
	return &Gate{secret: secret, secure: secure, now: time.Now}
}

// Init restores the session from the request cookie. It never fails: any
// problem with the stored value yields an anonymous session.
func (g *Gate) Init(w http.ResponseWriter, r *http.Request) *Session {
	c, err := r.Cookie(TokenCookieName)
	if err != nil || c.Value == "" {
		return &Session{}
	}
	token, err := verifyValue(c.Value, g.secret)
	if err != nil {
		slog.DebugContext(r.Context(), "discarding unsigned session cookie", "error", err)
		g.clear(w, TokenCookieName)
		return &Session{}
	}
	if !WellFormed(token) {
		slog.DebugContext(r.Context(), "discarding malformed session token")
		g.clear(w, TokenCookieName)
		return &Session{}
	}
	return &Session{Token: token, Authenticated: true}
}

// Login persists token and marks the request's session authenticated.
// Credentials are not checked here; the login handler exchanges them with
// the backend first.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, token string) *Session {
	c := &http.Cookie{
		Name:     TokenCookieName,
		Value:    signValue(token, g.secret),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   g.secure,
	}
	if exp, ok := Expiry(token); ok {
		if ttl := exp.Sub(g.now()); ttl > 0 {
			c.Expires = exp
			c.MaxAge = int(ttl.Seconds())
		}
	}
	http.SetCookie(w, c)

	s := FromContext(r.Context())
	s.Token = token
	s.Authenticated = true
	return s
}

// Logout clears the primary and legacy token cookies.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) {
	g.clear(w, TokenCookieName)
	g.clear(w, LegacyTokenCookieName)
	s := FromContext(r.Context())
	s.Token = ""
	s.Authenticated = false
}

// Invalidate is Logout for a token the backend rejected.
func (g *Gate) Invalidate(w http.ResponseWriter, r *http.Request) {
	slog.InfoContext(r.Context(), "session invalidated after backend 401")
	g.Logout(w, r)
}

func (g *Gate) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}
