package rest

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// MusicData handles GET /api/music-data
func (h *Handler) MusicData(w http.ResponseWriter, r *http.Request) {
	token := h.accessToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if _, ok := h.credentials(r); !ok {
		writeError(w, http.StatusUnauthorized, "No credentials")
		return
	}

	dna, err := h.svc.BuildMusicDNA(r.Context(), token)
	if err != nil {
		log.Printf("WARN rest: error fetching music data: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch music data")
		return
	}

	writeJSON(w, http.StatusOK, dna)
}

// ListSnapshots handles GET /api/snapshots
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	snapshots, err := h.svc.ListSnapshots(r.Context(), limit)
	if err != nil {
		log.Printf("WARN rest: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	writeJSON(w, http.StatusOK, snapshots)
}

// GetSnapshot handles GET /api/snapshots/{id}
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.GetSnapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		log.Printf("WARN rest: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
