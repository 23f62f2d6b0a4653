package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// signValue は値に HMAC-SHA256 署名を付けてクッキー値にする
func signValue(value string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	sig := hex.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "." + sig
}

// verifyValue は署名を検証し元の値を返す
func verifyValue(signed string, secret []byte) (string, error) {
	parts := strings.SplitN(signed, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid cookie format")
	}
	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return "", errors.New("invalid signature")
	}
	return string(payload), nil
}

const (
	// TokenCookieName holds the admin bearer token.
	TokenCookieName = "adminToken"
	// LegacyTokenCookieName is an older key some browsers still carry.
	// It is never read, only cleared on logout.
	LegacyTokenCookieName = "admin_token"
)

const minSecretLen = 32

// SecretBytes pads s to at least 32 bytes for use as the signing key.
func SecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}

// Session is the per-request authentication state.
type Session struct {
	Token         string
	Authenticated bool
}

// Owner identifies the session without exposing the token. It is empty for
// anonymous sessions.
func (s *Session) Owner() string {
	if s == nil || s.Token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.Token))
	return hex.EncodeToString(sum[:])
}
