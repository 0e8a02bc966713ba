package handler

import (
	"net/http"

	"github.com/go-otp-auth/internal/infrastructure/queue"
)

// QueueStats reads delivery queue statistics.
type QueueStats interface {
	Stats() (*queue.Stats, error)
}

// AdminHandler exposes operational views for signed-in users.
type AdminHandler struct {
	queue QueueStats
}

func NewAdminHandler(q QueueStats) *AdminHandler { return &AdminHandler{queue: q} }

func (h *AdminHandler) Queues(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "queue inspector not configured")
		return
	}
	s, err := h.queue.Stats()
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Message: "success", Data: s})
}
