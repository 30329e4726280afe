package rest

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ewilliams-labs/musicdna/internal/core/ports"
	"github.com/ewilliams-labs/musicdna/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	auth   ports.Authenticator
	store  sessions.Store
	ready  []namedCheck
	router *http.ServeMux // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, auth ports.Authenticator, store sessions.Store) *Handler {
	h := &Handler{
		svc:    svc,
		auth:   auth,
		store:  store,
		router: http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("GET /ready", h.Ready)
	// Credentials and OAuth
	h.router.HandleFunc("POST /api/credentials", h.SaveCredentials)
	h.router.HandleFunc("DELETE /api/credentials", h.ClearCredentials)
	h.router.HandleFunc("GET /api/auth", h.BeginAuth)
	h.router.HandleFunc("GET /api/callback", h.Callback)
	// Profile
	h.router.HandleFunc("GET /api/music-data", h.MusicData)
	h.router.HandleFunc("GET /api/snapshots", h.ListSnapshots)
	h.router.HandleFunc("GET /api/snapshots/{id}", h.GetSnapshot)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Music DNA is live 🧬"})
}
