package rest

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

const (
	credentialsSession = "musicdna_credentials"
	tokenSession       = "musicdna_token"

	credentialsMaxAge = 7200
	tokenMaxAge       = 3600

	keyClientID     = "client_id"
	keyClientSecret = "client_secret"
	keyRedirectURI  = "redirect_uri"
	keyOAuthState   = "oauth_state"
	keyAccessToken  = "access_token"
)

// NewSessionStore builds a cookie store whose cookies are signed and encrypted
// with keys derived from secret.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	hashKey := sha256.Sum256([]byte("musicdna-hash:" + secret))
	blockKey := sha256.Sum256([]byte("musicdna-block:" + secret))

	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   tokenMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session loads a named session. A cookie that fails to decode yields a fresh one.
func (h *Handler) session(r *http.Request, name string, maxAge int) *sessions.Session {
	s, err := h.store.Get(r, name)
	if err != nil && s == nil {
		s = sessions.NewSession(h.store, name)
	}
	opts := sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	if s.Options != nil {
		opts = *s.Options
	}
	opts.MaxAge = maxAge
	s.Options = &opts
	return s
}

func (h *Handler) credentials(r *http.Request) (domain.Credentials, bool) {
	s := h.session(r, credentialsSession, credentialsMaxAge)
	creds := domain.Credentials{
		ClientID:     sessionString(s, keyClientID),
		ClientSecret: sessionString(s, keyClientSecret),
		RedirectURI:  sessionString(s, keyRedirectURI),
	}
	return creds, creds.Valid()
}

func (h *Handler) accessToken(r *http.Request) string {
	return sessionString(h.session(r, tokenSession, tokenMaxAge), keyAccessToken)
}

func sessionString(s *sessions.Session, key string) string {
	v, _ := s.Values[key].(string)
	return v
}
