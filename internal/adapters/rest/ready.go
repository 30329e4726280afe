package rest

import (
	"context"
	"log"
	"net/http"
	"time"
)

const readyTimeout = 2 * time.Second

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type namedCheck struct {
	name  string
	check ReadyCheck
}

// AddReadyCheck registers a dependency probed by GET /ready.
func (h *Handler) AddReadyCheck(name string, check ReadyCheck) {
	h.ready = append(h.ready, namedCheck{name: name, check: check})
}

// Ready handles GET /ready
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	for _, c := range h.ready {
		if err := c.check(ctx); err != nil {
			log.Printf("WARN rest: %s not ready: %v", c.name, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready", "dependency": c.name})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
