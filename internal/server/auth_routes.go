package server

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/brk3/habitcal/internal/logger"
	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

func (s *Server) provider(w http.ResponseWriter, r *http.Request) (string, *AuthProvider, bool) {
	id := chi.URLParam(r, "id")
	prov, ok := s.authConf[id]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown provider")
		return "", nil, false
	}
	return id, prov, true
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	_, prov, ok := s.provider(w, r)
	if !ok {
		return
	}

	verifier, challenge, err := newPKCE()
	if err != nil {
		logger.Error("Failed to start login", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	state, err := randomHex(16)
	if err != nil {
		logger.Error("Failed to start login", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	prov.state.Put(state, authState{
		Verifier: verifier,
		Return:   returnPath(r.URL.Query().Get("return")),
		ExpireAt: time.Now().Add(prov.state.ttl),
	})
	http.Redirect(w, r, prov.oauth2.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	), http.StatusFound)
}

func (s *Server) callback(w http.ResponseWriter, r *http.Request) {
	id, prov, ok := s.provider(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("state") == "" || q.Get("code") == "" {
		writeError(w, http.StatusBadRequest, "missing state or code")
		return
	}
	saved, ok := prov.state.GetAndDelete(q.Get("state"))
	if !ok || saved.Verifier == "" {
		RecordAuthEvent("login", "invalid_state", id)
		writeError(w, http.StatusBadRequest, "invalid or expired state")
		return
	}

	tok, err := prov.oauth2.Exchange(r.Context(), q.Get("code"),
		oauth2.SetAuthURLParam("code_verifier", saved.Verifier))
	if err != nil {
		logger.Warn("Code exchange failed", "provider", id, "error", err)
		RecordAuthEvent("login", "exchange_failed", id)
		writeError(w, http.StatusBadGateway, "code exchange failed")
		return
	}
	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		writeError(w, http.StatusBadGateway, "no id_token in response")
		return
	}
	if _, err := prov.idVerifier.Verify(r.Context(), rawIDToken); err != nil {
		RecordAuthEvent("login", "invalid_token", id)
		writeError(w, http.StatusUnauthorized, "id_token invalid")
		return
	}

	val, err := s.sessionCookie.Encode(sessionCookieName, id+":"+rawIDToken)
	if err != nil {
		logger.Error("Failed to encode session cookie", "error", err)
		writeError(w, http.StatusInternalServerError, "session encoding failed")
		return
	}
	setSessionCookie(w, val, int(sessionMaxAge.Seconds()))
	RecordAuthEvent("login", "success", id)
	http.Redirect(w, r, saved.Return, http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	setSessionCookie(w, "", -1)
	logger.Info("User logged out")
	w.WriteHeader(http.StatusNoContent)
}

// simpleLogin lists the configured providers as one button each.
func (s *Server) simpleLogin(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0, len(s.authConf))
	for id := range s.authConf {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<h1>habitcal</h1><style>button{display:block;margin:10px 0;padding:10px 20px;}</style>`)
	for _, id := range ids {
		fmt.Fprintf(w, `<form action="/auth/login/%s"><button>Sign in with %s</button></form>`,
			url.PathEscape(id), html.EscapeString(s.authConf[id].name))
	}
}

// getAPIToken returns the session's "provider:jwt" token for use as a
// bearer token by the CLI.
func (s *Server) getAPIToken(w http.ResponseWriter, r *http.Request) {
	var token string
	c, err := r.Cookie(sessionCookieName)
	if err == nil {
		err = s.sessionCookie.Decode(sessionCookieName, c.Value, &token)
	}
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(token))
}

func authenticatedUser(r *http.Request) (*User, bool) {
	user, ok := r.Context().Value(userCtxKey{}).(*User)
	if !ok || user.UserID == "" {
		return nil, false
	}
	return user, true
}

func (s *Server) generateAPIKey(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticatedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	key, err := newAPIKey()
	if err != nil {
		logger.Error("Failed to generate API key", "error", err)
		writeError(w, http.StatusInternalServerError, "key generation failed")
		return
	}
	keyHash := hashAPIKey(key)
	if err := s.store.PutAPIKey(keyHash, user.UserID); err != nil {
		logger.Error("Failed to store API key", "user_id", user.UserID, "error", err)
		writeStoreError(w, err)
		return
	}
	RecordAuthEvent("apikey", "created", "apikey")
	logger.Info("API key created", "user_id", user.UserID, "key", truncateHash(keyHash))
	_ = writeJSON(w, http.StatusOK, APIKeyResponse{APIKey: key, KeyHash: keyHash})
}

func (s *Server) listAPIKeys(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticatedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	hashes, err := s.store.ListAPIKeyHashes(user.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	slices.Sort(hashes)
	resp := APIKeyListResponse{Keys: make([]APIKeyInfo, 0, len(hashes))}
	for _, h := range hashes {
		resp.Keys = append(resp.Keys, APIKeyInfo{KeyHash: h, Display: truncateHash(h)})
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

// revokeAPIKey deletes one of the caller's keys. Keys owned by someone else
// are reported as missing.
func (s *Server) revokeAPIKey(w http.ResponseWriter, r *http.Request) {
	user, ok := authenticatedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	keyHash := chi.URLParam(r, "key_hash")
	owner, found, err := s.store.GetAPIKey(keyHash)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !found || owner != user.UserID {
		writeError(w, http.StatusNotFound, "api key not found")
		return
	}
	if err := s.store.DeleteAPIKey(keyHash); err != nil {
		writeStoreError(w, err)
		return
	}
	RecordAuthEvent("apikey", "revoked", "apikey")
	logger.Info("API key revoked", "user_id", user.UserID, "key", truncateHash(keyHash))
	w.WriteHeader(http.StatusNoContent)
}
