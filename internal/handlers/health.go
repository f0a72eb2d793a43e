package handlers

import (
	"net/http"
	"time"
)

const version = "0.1.0"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// Health handles the health check endpoint. The server holds no external
// dependencies at runtime, so a reachable process is a healthy one.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RootResponse represents the root endpoint response. It carries the client
// tunables the presentation layer needs.
type RootResponse struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	AITrigger    string `json:"aiTrigger"`
	TypingIdleMS int    `json:"typingIdleMs"` // clients stop typing after this idle window
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:         "Global Chat",
		Version:      version,
		AITrigger:    h.cfg.AI.Trigger,
		TypingIdleMS: h.cfg.TypingIdleMS,
	})
}
