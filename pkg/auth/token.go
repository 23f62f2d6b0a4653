package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// WellFormed reports whether token has the three dot-separated segments of a
// JWT. The signature is not checked; the backend does that on every call.
func WellFormed(token string) bool {
	return token != "" && strings.Count(token, ".") == 2
}

// Expiry returns the token's exp claim when it decodes as a JWT.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
