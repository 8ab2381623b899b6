package server

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/brk3/habitcal/internal/config"
	"github.com/brk3/habitcal/internal/logger"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"
)

const (
	sessionCookieName = "session"
	sessionMaxAge     = 24 * time.Hour
	stateTTL          = 5 * time.Minute
)

type userCtxKey struct{}

type User struct {
	Subject string
	Email   string
	UserID  string
	Claims  map[string]any
}

// AuthProvider is one configured OIDC issuer.
type AuthProvider struct {
	name       string
	oauth2     *oauth2.Config
	idVerifier *oidc.IDTokenVerifier
	state      *StateStore
}

// StateStore holds pending login attempts keyed by OAuth state.
type StateStore struct {
	ttl time.Duration
	mu  sync.Mutex
	m   map[string]authState
}

type authState struct {
	Verifier string
	Return   string
	ExpireAt time.Time
}

func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{ttl: ttl, m: make(map[string]authState)}
}

func (s *StateStore) Put(key string, v authState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, old := range s.m {
		if now.After(old.ExpireAt) {
			delete(s.m, k)
		}
	}
	s.m[key] = v
}

func (s *StateStore) GetAndDelete(key string) (authState, bool) {
	s.mu.Lock()
	v, ok := s.m[key]
	if ok {
		delete(s.m, key)
	}
	s.mu.Unlock()
	if ok && time.Now().After(v.ExpireAt) {
		return authState{}, false
	}
	return v, ok
}

func ConfigureOIDCProviders(cfg *config.Config) (map[string]*AuthProvider, *securecookie.SecureCookie, error) {
	logger.Info("Configuring OIDC providers", "count", len(cfg.OIDCProviders))
	providers := make(map[string]*AuthProvider)

	hashKey := securecookie.GenerateRandomKey(64)
	blockKey := securecookie.GenerateRandomKey(32)
	if hashKey == nil || blockKey == nil {
		return nil, nil, fmt.Errorf("failed to generate secure cookie keys")
	}
	sessionCookie := securecookie.New(hashKey, blockKey)
	sessionCookie.MaxAge(int(sessionMaxAge.Seconds()))

	for _, p := range cfg.OIDCProviders {
		logger.Debug("Setting up OIDC provider", "id", p.Id, "name", p.Name, "issuer", p.IssuerURL)
		prov, err := oidc.NewProvider(context.Background(), p.IssuerURL)
		if err != nil {
			logger.Error("Failed to create OIDC provider", "id", p.Id, "error", err)
			return nil, nil, fmt.Errorf("failed to create OIDC provider %q: %w", p.Id, err)
		}

		scopes := p.Scopes
		if len(scopes) == 0 {
			scopes = []string{oidc.ScopeOpenID, "email", "profile"}
		}
		providers[p.Id] = &AuthProvider{
			name: p.Name,
			oauth2: &oauth2.Config{
				ClientID:     p.ClientID,
				ClientSecret: p.ClientSecret,
				Endpoint:     prov.Endpoint(),
				RedirectURL:  p.RedirectURL,
				Scopes:       scopes,
			},
			idVerifier: prov.Verifier(&oidc.Config{ClientID: p.ClientID}),
			state:      NewStateStore(stateTTL),
		}
		logger.Info("OIDC provider configured successfully", "id", p.Id, "name", p.Name)
	}

	return providers, sessionCookie, nil
}

// authMiddleware accepts, in order: a session cookie, an API key bearer
// token, or a "provider:jwt" bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rawIDToken, providerID string

		if c, err := r.Cookie(sessionCookieName); err == nil {
			var prefixedToken string
			if err := s.sessionCookie.Decode(sessionCookieName, c.Value, &prefixedToken); err == nil {
				if pID, token, err := parseProviderToken(prefixedToken); err == nil {
					providerID, rawIDToken = pID, token
				}
			} else {
				logger.Debug("Failed to decode session cookie", "error", err)
			}
		}

		if rawIDToken == "" {
			if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				token := strings.TrimPrefix(ah, "Bearer ")
				if strings.HasPrefix(token, apiKeyPrefix) {
					user, ok := s.authenticateAPIKey(token)
					if !ok {
						RecordAuthEvent("verification", "failed", "apikey")
						s.handleAuthFailure(w, r, false)
						return
					}
					RecordAuthEvent("verification", "success", "apikey")
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, user)))
					return
				}

				if pID, token, err := parseProviderToken(token); err == nil {
					providerID, rawIDToken = pID, token
				} else {
					logger.Debug("Failed to parse Bearer token", "error", err)
				}
			}
		}

		prov, known := s.authConf[providerID]
		if rawIDToken == "" || !known {
			RecordAuthEvent("verification", "missing_token", "unknown")
			s.handleAuthFailure(w, r, false)
			return
		}

		idTok, err := prov.idVerifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			logger.Debug("ID token verification failed", "provider", providerID, "error", err)
			RecordAuthEvent("verification", "failed", providerID)
			s.handleAuthFailure(w, r, true)
			return
		}
		RecordAuthEvent("verification", "success", providerID)

		var claims map[string]any
		if err := idTok.Claims(&claims); err != nil {
			logger.Error("Failed to extract claims from token", "error", err)
			s.handleAuthFailure(w, r, true)
			return
		}
		u := &User{
			Subject: idTok.Subject,
			Email:   strClaim(claims, "email"),
			UserID:  userIDFromClaims(claims),
			Claims:  claims,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, u)))
	})
}

// parseProviderToken splits a "provider:jwt" token.
func parseProviderToken(token string) (providerID, jwt string, err error) {
	providerID, jwt, ok := strings.Cut(token, ":")
	if !ok {
		return "", "", fmt.Errorf("invalid token format: expected 'provider:jwt'")
	}
	if providerID == "" || jwt == "" {
		return "", "", fmt.Errorf("empty provider or token")
	}
	return providerID, jwt, nil
}

func strClaim(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}

// userIDFromClaims derives a stable user id from the issuer and subject.
func userIDFromClaims(claims map[string]any) string {
	iss := strClaim(claims, "iss")
	sub := strClaim(claims, "sub")
	if iss == "" || sub == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(iss + "|" + sub))
	return fmt.Sprintf("user-%x", hash[:8])
}

func userIDFromContext(authEnabled bool, r *http.Request) string {
	if !authEnabled {
		return "anonymous"
	}
	user, ok := r.Context().Value(userCtxKey{}).(*User)
	if !ok {
		logger.Error("No user in context")
		return ""
	}
	return user.UserID
}

func (s *Server) handleAuthFailure(w http.ResponseWriter, r *http.Request, clearCookie bool) {
	if clearCookie {
		setSessionCookie(w, "", -1)
	}

	accept := r.Header.Get("Accept")
	if r.Method == http.MethodGet && (strings.Contains(accept, "text/html") || accept == "") {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}
	if clearCookie {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	} else {
		w.Header().Set("WWW-Authenticate", `Bearer realm="habits"`)
	}
	writeError(w, http.StatusUnauthorized, "unauthorized")
}

func (s *Server) authenticateAPIKey(apiKey string) (*User, bool) {
	keyHash := hashAPIKey(apiKey)
	userID, found, err := s.store.GetAPIKey(keyHash)
	if err != nil {
		logger.Error("Failed to lookup API key", "error", err)
		return nil, false
	}
	if !found {
		logger.Debug("API key not found", "keyHash", truncateHash(keyHash))
		return nil, false
	}
	return &User{
		UserID:  userID,
		Subject: "apikey:" + truncateHash(keyHash),
		Claims:  map[string]any{"auth_method": "api_key"},
	}, true
}
