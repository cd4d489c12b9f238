package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"polly/pkg/platform/httputil"
)

// RegisterProbes registers /health and /ready. /ready reports 503 until the
// first fetch round has settled, whether or not it succeeded; the phase in
// the body tells the two apart.
func (h *Handler) RegisterProbes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:     "ready",
		Phase:      h.store.Phase().String(),
		Generation: h.store.Generation(),
	}
	if !h.store.IsLoaded() {
		resp.Status = "loading"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
