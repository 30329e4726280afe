package rest

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

const (
	callbackPath = "/api/callback"
	// maxCredentialsBody bounds the POST /api/credentials payload.
	maxCredentialsBody = 1 << 16
)

// SaveCredentials handles POST /api/credentials
func (h *Handler) SaveCredentials(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Request
	r.Body = http.MaxBytesReader(w, r.Body, maxCredentialsBody)
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	creds.ClientID = strings.TrimSpace(creds.ClientID)
	creds.ClientSecret = strings.TrimSpace(creds.ClientSecret)
	creds.RedirectURI = strings.TrimSpace(creds.RedirectURI)
	if !creds.Valid() {
		writeError(w, http.StatusBadRequest, "clientId, clientSecret and redirectUri are required")
		return
	}
	if u, err := url.Parse(creds.RedirectURI); err != nil || u.Scheme == "" || u.Host == "" {
		writeError(w, http.StatusBadRequest, "redirectUri must be an absolute URL")
		return
	}

	// 2. Store
	s := h.session(r, credentialsSession, credentialsMaxAge)
	s.Values[keyClientID] = creds.ClientID
	s.Values[keyClientSecret] = creds.ClientSecret
	s.Values[keyRedirectURI] = creds.RedirectURI
	if err := s.Save(r, w); err != nil {
		log.Printf("WARN rest: failed to save credentials session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store credentials")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearCredentials handles DELETE /api/credentials
func (h *Handler) ClearCredentials(w http.ResponseWriter, r *http.Request) {
	if token := h.accessToken(r); token != "" {
		h.svc.ForgetProfile(r.Context(), token)
	}

	for _, name := range []string{credentialsSession, tokenSession} {
		s := h.session(r, name, -1)
		s.Values = map[any]any{}
		if err := s.Save(r, w); err != nil {
			log.Printf("WARN rest: failed to clear %s session: %v", name, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// BeginAuth handles GET /api/auth
func (h *Handler) BeginAuth(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.credentials(r)
	if !ok {
		http.Redirect(w, r, "/?error=no_credentials", http.StatusFound)
		return
	}

	state := uuid.NewString()
	s := h.session(r, credentialsSession, credentialsMaxAge)
	s.Values[keyOAuthState] = state
	if err := s.Save(r, w); err != nil {
		log.Printf("WARN rest: failed to save oauth state: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to start authorization")
		return
	}

	http.Redirect(w, r, h.auth.AuthCodeURL(creds, state), http.StatusFound)
}

// Callback handles GET /api/callback
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.credentials(r)
	if !ok {
		http.Redirect(w, r, "/?error=no_credentials", http.StatusFound)
		return
	}

	base := strings.Replace(creds.RedirectURI, callbackPath, "", 1)
	fail := func(reason string) {
		http.Redirect(w, r, resolve(base, "/", "error="+reason), http.StatusFound)
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		fail("no_code")
		return
	}

	s := h.session(r, credentialsSession, credentialsMaxAge)
	expected := sessionString(s, keyOAuthState)
	if expected == "" || r.URL.Query().Get("state") != expected {
		fail("state_mismatch")
		return
	}
	delete(s.Values, keyOAuthState)
	if err := s.Save(r, w); err != nil {
		log.Printf("WARN rest: failed to clear oauth state: %v", err)
	}

	token, err := h.auth.Exchange(r.Context(), creds, code)
	if err != nil {
		log.Printf("WARN rest: token exchange failed: %v", err)
		fail("auth_failed")
		return
	}

	ts := h.session(r, tokenSession, tokenMaxAge)
	ts.Values[keyAccessToken] = token
	if err := ts.Save(r, w); err != nil {
		log.Printf("WARN rest: failed to save token session: %v", err)
		fail("auth_failed")
		return
	}

	http.Redirect(w, r, resolve(base, "/dashboard", ""), http.StatusFound)
}

// resolve places path and query on base's origin. An unparseable base yields a relative URL.
func resolve(base, path, rawQuery string) string {
	ref := &url.URL{Path: path, RawQuery: rawQuery}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" {
		return ref.String()
	}
	return u.ResolveReference(ref).String()
}
