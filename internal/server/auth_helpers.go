package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
)

const apiKeyPrefix = "hab_live_"

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// newAPIKey returns a fresh random API key; only its hash is ever stored.
func newAPIKey() (string, error) {
	s, err := randomHex(24)
	if err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return apiKeyPrefix + s, nil
}

func hashAPIKey(apiKey string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(apiKey)))
}

// truncateHash shortens a hash for display and logging.
func truncateHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + "..."
}

// newPKCE returns an RFC 7636 verifier and its S256 challenge.
func newPKCE() (verifier, challenge string, err error) {
	b := make([]byte, 48)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate pkce verifier: %w", err)
	}
	verifier = base64.RawURLEncoding.EncodeToString(b)
	sum := sha256.Sum256([]byte(verifier))
	return verifier, base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// returnPath accepts only relative paths so login cannot be used as an
// open redirect.
func returnPath(raw string) string {
	u, err := url.Parse(raw)
	if raw == "" || err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return raw
}

// setSessionCookie writes the session cookie; an empty value with a
// negative maxAge clears it.
func setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
