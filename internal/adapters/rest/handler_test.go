package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"

	"github.com/ewilliams-labs/musicdna/internal/adapters/sqlite"
	"github.com/ewilliams-labs/musicdna/internal/core/domain"
	"github.com/ewilliams-labs/musicdna/internal/core/services"
	"github.com/ewilliams-labs/musicdna/internal/worker"
)

// --- Mocks ---

// The handler depends on the concrete Orchestrator, so tests build a real
// one around mock ports.

type mockMusic struct {
	artists     []domain.Artist
	tracks      []domain.Track
	samples     []domain.FeatureSample
	err         error
	featuresErr error
}

func (m *mockMusic) TopArtists(ctx context.Context, token string) ([]domain.Artist, error) {
	return m.artists, m.err
}

func (m *mockMusic) TopTracks(ctx context.Context, token string) ([]domain.Track, error) {
	return m.tracks, m.err
}

func (m *mockMusic) AudioFeatures(ctx context.Context, token string, ids []string) ([]domain.FeatureSample, error) {
	return m.samples, m.featuresErr
}

type mockAuth struct {
	token     string
	err       error
	gotCode   string
	gotCreds  domain.Credentials
	lastState string
}

func (m *mockAuth) AuthCodeURL(creds domain.Credentials, state string) string {
	m.lastState = state
	return "https://accounts.test/authorize?client_id=" + url.QueryEscape(creds.ClientID) + "&state=" + url.QueryEscape(state)
}

func (m *mockAuth) Exchange(ctx context.Context, creds domain.Credentials, code string) (string, error) {
	m.gotCode = code
	m.gotCreds = creds
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

type emptyRepo struct{}

func (emptyRepo) GetByID(ctx context.Context, id string) (domain.Snapshot, error) {
	return domain.Snapshot{}, domain.ErrNotFound
}
func (emptyRepo) Save(ctx context.Context, s domain.Snapshot) error { return nil }
func (emptyRepo) ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	return []domain.Snapshot{}, nil
}

// --- Helpers ---

var testCreds = domain.Credentials{
	ClientID:     "client-123",
	ClientSecret: "secret-456",
	RedirectURI:  "http://127.0.0.1:3000/api/callback",
}

func newTestHandler(music *mockMusic, auth *mockAuth) (*Handler, *sessions.CookieStore) {
	store := NewSessionStore("test-secret", false)
	svc := services.NewOrchestrator(music, nil, nil, emptyRepo{})
	return NewHandler(svc, auth, store), store
}

// sessionCookies encodes the given session values the way the handler would.
func sessionCookies(t *testing.T, store *sessions.CookieStore, name string, values map[string]string) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s, err := store.Get(req, name)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	for k, v := range values {
		s.Values[k] = v
	}
	if err := s.Save(req, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return rec.Result().Cookies()
}

func credsCookies(t *testing.T, store *sessions.CookieStore, extra map[string]string) []*http.Cookie {
	values := map[string]string{
		keyClientID:     testCreds.ClientID,
		keyClientSecret: testCreds.ClientSecret,
		keyRedirectURI:  testCreds.RedirectURI,
	}
	for k, v := range extra {
		values[k] = v
	}
	return sessionCookies(t, store, credentialsSession, values)
}

func tokenCookies(t *testing.T, store *sessions.CookieStore, token string) []*http.Cookie {
	return sessionCookies(t, store, tokenSession, map[string]string{keyAccessToken: token})
}

func newRequest(method, target string, body []byte, cookies ...[]*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	for _, group := range cookies {
		for _, c := range group {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return req
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- Tests ---

func TestHandler_HealthCheck(t *testing.T) {
	h, _ := newTestHandler(&mockMusic{}, &mockAuth{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestHandler_Ready(t *testing.T) {
	tests := []struct {
		name           string
		checks         map[string]error
		expectedStatus int
		expectedBody   string
	}{
		{name: "no checks", expectedStatus: http.StatusOK, expectedBody: `"status":"ready"`},
		{name: "healthy", checks: map[string]error{"sqlite": nil}, expectedStatus: http.StatusOK, expectedBody: `"status":"ready"`},
		{name: "failing", checks: map[string]error{"redis": errors.New("dial tcp: refused")}, expectedStatus: http.StatusServiceUnavailable, expectedBody: `"dependency":"redis"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(&mockMusic{}, &mockAuth{})
			for name, err := range tc.checks {
				h.AddReadyCheck(name, func(ctx context.Context) error { return err })
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tc.expectedStatus {
				t.Errorf("Status Code: got %d, want %d", rec.Code, tc.expectedStatus)
			}
			if !strings.Contains(rec.Body.String(), tc.expectedBody) {
				t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), tc.expectedBody)
			}
		})
	}
}

func TestHandler_SaveCredentials(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: stores credentials",
			body:           `{"clientId":"client-123","clientSecret":"secret-456","redirectUri":"http://127.0.0.1:3000/api/callback"}`,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Bad Request: missing secret",
			body:           `{"clientId":"client-123","redirectUri":"http://127.0.0.1:3000/api/callback"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "are required",
		},
		{
			name:           "Bad Request: relative redirect",
			body:           `{"clientId":"c","clientSecret":"s","redirectUri":"/api/callback"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "absolute URL",
		},
		{
			name:           "Bad Request: oversized body",
			body:           `{"clientId":"` + strings.Repeat("x", maxCredentialsBody) + `","clientSecret":"s","redirectUri":"http://127.0.0.1:3000/api/callback"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "Bad Request: malformed json",
			body:           `{invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(&mockMusic{}, &mockAuth{})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest(http.MethodPost, "/api/credentials", []byte(tc.body)))

			if rec.Code != tc.expectedStatus {
				t.Fatalf("Status Code: got %d, want %d, body: %s", rec.Code, tc.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.expectedBody) {
				t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), tc.expectedBody)
			}

			cookie := findCookie(rec.Result().Cookies(), credentialsSession)
			if tc.expectedStatus == http.StatusNoContent {
				if cookie == nil {
					t.Fatalf("expected %s cookie", credentialsSession)
				}
				if cookie.MaxAge != credentialsMaxAge {
					t.Errorf("MaxAge: got %d, want %d", cookie.MaxAge, credentialsMaxAge)
				}
				if strings.Contains(cookie.Value, "secret-456") {
					t.Errorf("cookie leaks the client secret")
				}
			} else if cookie != nil {
				t.Errorf("unexpected cookie on failure")
			}
		})
	}
}

func TestHandler_AuthFlow(t *testing.T) {
	auth := &mockAuth{token: "access-abc"}
	h, _ := newTestHandler(&mockMusic{}, auth)

	// 1. Store credentials
	rec := httptest.NewRecorder()
	body, _ := json.Marshal(testCreds)
	h.ServeHTTP(rec, newRequest(http.MethodPost, "/api/credentials", body))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("credentials: got %d", rec.Code)
	}
	creds := rec.Result().Cookies()

	// 2. Begin authorization
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(http.MethodGet, "/api/auth", nil, creds))
	if rec.Code != http.StatusFound {
		t.Fatalf("auth: got %d", rec.Code)
	}
	if auth.lastState == "" {
		t.Fatalf("expected a state value")
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "state="+auth.lastState) {
		t.Fatalf("Location %q missing state", loc)
	}
	withState := rec.Result().Cookies()

	// 3. Callback
	rec = httptest.NewRecorder()
	target := "/api/callback?code=code-1&state=" + url.QueryEscape(auth.lastState)
	h.ServeHTTP(rec, newRequest(http.MethodGet, target, nil, withState))
	if rec.Code != http.StatusFound {
		t.Fatalf("callback: got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://127.0.0.1:3000/dashboard" {
		t.Fatalf("Location: got %q", loc)
	}
	if auth.gotCode != "code-1" || auth.gotCreds != testCreds {
		t.Errorf("exchange got code %q creds %+v", auth.gotCode, auth.gotCreds)
	}

	token := findCookie(rec.Result().Cookies(), tokenSession)
	if token == nil {
		t.Fatalf("expected %s cookie", tokenSession)
	}
	if token.MaxAge != tokenMaxAge || !token.HttpOnly || token.SameSite != http.SameSiteLaxMode {
		t.Errorf("token cookie attributes: %+v", token)
	}
}

func TestHandler_BeginAuth_NoCredentials(t *testing.T) {
	h, _ := newTestHandler(&mockMusic{}, &mockAuth{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(http.MethodGet, "/api/auth", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?error=no_credentials" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestHandler_Callback_Errors(t *testing.T) {
	tests := []struct {
		name         string
		withCreds    bool
		state        string
		query        string
		exchangeErr  error
		wantLocation string
	}{
		{
			name:         "no credentials",
			query:        "code=c",
			wantLocation: "/?error=no_credentials",
		},
		{
			name:         "no code",
			withCreds:    true,
			state:        "s1",
			query:        "state=s1",
			wantLocation: "http://127.0.0.1:3000/?error=no_code",
		},
		{
			name:         "state mismatch",
			withCreds:    true,
			state:        "s1",
			query:        "code=c&state=other",
			wantLocation: "http://127.0.0.1:3000/?error=state_mismatch",
		},
		{
			name:         "no state issued",
			withCreds:    true,
			query:        "code=c",
			wantLocation: "http://127.0.0.1:3000/?error=state_mismatch",
		},
		{
			name:         "exchange fails",
			withCreds:    true,
			state:        "s1",
			query:        "code=c&state=s1",
			exchangeErr:  errors.New("invalid_grant"),
			wantLocation: "http://127.0.0.1:3000/?error=auth_failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, store := newTestHandler(&mockMusic{}, &mockAuth{err: tc.exchangeErr})

			var cookies []*http.Cookie
			if tc.withCreds {
				extra := map[string]string{}
				if tc.state != "" {
					extra[keyOAuthState] = tc.state
				}
				cookies = credsCookies(t, store, extra)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest(http.MethodGet, "/api/callback?"+tc.query, nil, cookies))

			if rec.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tc.wantLocation {
				t.Errorf("Location: got %q, want %q", loc, tc.wantLocation)
			}
			if findCookie(rec.Result().Cookies(), tokenSession) != nil {
				t.Errorf("token cookie set on failure")
			}
		})
	}
}

func TestHandler_ClearCredentials(t *testing.T) {
	h, store := newTestHandler(&mockMusic{}, &mockAuth{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(http.MethodDelete, "/api/credentials", nil,
		credsCookies(t, store, nil), tokenCookies(t, store, "tok")))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	for _, name := range []string{credentialsSession, tokenSession} {
		c := findCookie(rec.Result().Cookies(), name)
		if c == nil || c.MaxAge >= 0 {
			t.Errorf("%s: expected expiring cookie, got %+v", name, c)
		}
	}
}

func TestHandler_MusicData(t *testing.T) {
	artists := []domain.Artist{
		{ID: "a1", Name: "Heavy", Genres: []string{"metal"}, Popularity: 70},
		{ID: "a2", Name: "Bright", Genres: []string{"pop"}, Popularity: 30},
	}

	tests := []struct {
		name           string
		music          *mockMusic
		withToken      bool
		withCreds      bool
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:           "Unauthorized: no token",
			music:          &mockMusic{},
			withCreds:      true,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   []string{`{"error":"Not authenticated"}`},
		},
		{
			name:           "Unauthorized: no credentials",
			music:          &mockMusic{},
			withToken:      true,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   []string{`{"error":"No credentials"}`},
		},
		{
			name:           "Server Error: upstream failure",
			music:          &mockMusic{err: errors.New("spotify down")},
			withToken:      true,
			withCreds:      true,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`{"error":"Failed to fetch music data"}`},
		},
		{
			name:           "Success: estimated profile",
			music:          &mockMusic{artists: artists, featuresErr: errors.New("403")},
			withToken:      true,
			withCreds:      true,
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				`"personalityLabel":"The Eclectic Soul"`,
				`"topGenres":["metal","pop"]`,
				`"obscureArtist":{"id":"a2"`,
				`"topTracks":[]`,
			},
		},
		{
			name:           "Success: empty history",
			music:          &mockMusic{},
			withToken:      true,
			withCreds:      true,
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				`"topGenres":[]`,
				`"obscureArtist":null`,
				`"topArtists":[]`,
				`"audioFeatures":{"danceability":0.5,"energy":0.5,"valence":0.5,"acousticness":0.3,"instrumentalness":0.2,"speechiness":0.1}`,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, store := newTestHandler(tc.music, &mockAuth{})

			var cookies [][]*http.Cookie
			if tc.withToken {
				cookies = append(cookies, tokenCookies(t, store, "tok"))
			}
			if tc.withCreds {
				cookies = append(cookies, credsCookies(t, store, nil))
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest(http.MethodGet, "/api/music-data", nil, cookies...))

			if rec.Code != tc.expectedStatus {
				t.Fatalf("Status Code: got %d, want %d, body: %s", rec.Code, tc.expectedStatus, rec.Body.String())
			}
			for _, want := range tc.expectedBody {
				if !strings.Contains(rec.Body.String(), want) {
					t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), want)
				}
			}
		})
	}
}

func TestHandler_Snapshots(t *testing.T) {
	repo, err := sqlite.NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer repo.Close()

	pool := worker.NewPool(repo, 4, sqlite.IsTransient)
	pool.Start(1)

	music := &mockMusic{
		artists: []domain.Artist{{ID: "a1", Name: "Keys", Genres: []string{"jazz"}, Popularity: 20}},
		tracks:  []domain.Track{{ID: "t1", Name: "So What", ArtistName: "Keys"}},
		samples: []domain.FeatureSample{{TrackID: "t1", Acousticness: floatPtr(0.9), Energy: floatPtr(0.2)}},
	}
	store := NewSessionStore("test-secret", false)
	svc := services.NewOrchestrator(music, nil, pool, repo)
	h := NewHandler(svc, &mockAuth{}, store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(http.MethodGet, "/api/music-data", nil,
		tokenCookies(t, store, "tok"), credsCookies(t, store, nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("music-data: got %d, body: %s", rec.Code, rec.Body.String())
	}

	// Drain the queue so the snapshot is persisted.
	pool.Stop()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest(http.MethodGet, "/api/snapshots?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var list []domain.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(list))
	}
	if list[0].DNA.PersonalityLabel != "The Acoustic Dreamer" || list[0].Source != domain.SourceMeasured {
		t.Errorf("unexpected snapshot %+v", list[0])
	}

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "Success: by id", target: "/api/snapshots/" + list[0].ID, expectedStatus: http.StatusOK, expectedBody: `"source":"measured"`},
		{name: "Not Found: missing id", target: "/api/snapshots/nope", expectedStatus: http.StatusNotFound, expectedBody: "Snapshot not found"},
		{name: "Bad Request: invalid limit", target: "/api/snapshots?limit=abc", expectedStatus: http.StatusBadRequest, expectedBody: "limit"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest(http.MethodGet, tc.target, nil))

			if rec.Code != tc.expectedStatus {
				t.Errorf("Status Code: got %d, want %d", rec.Code, tc.expectedStatus)
			}
			if !strings.Contains(rec.Body.String(), tc.expectedBody) {
				t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), tc.expectedBody)
			}
		})
	}
}

func floatPtr(v float64) *float64 { return &v }
