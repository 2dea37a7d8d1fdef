package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/livetagus/fertagus-go/pkg/livetagus"
)

// Handler serves the engine's snapshot over HTTP.
type Handler struct {
	client livetagus.Client
}

func NewHandler(client livetagus.Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleHealth).Methods("GET")
	r.HandleFunc("/fertagus", h.handleSnapshot).Methods("GET")
	r.NotFoundHandler = http.HandlerFunc(h.handleNotFound)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.client.Health())
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.client.Snapshot())
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"status":  "error",
		"code":    404,
		"message": "no such route, try /fertagus",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
	}
}
