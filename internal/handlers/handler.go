package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rozenaakter/ai-chat-app/internal/chat"
	"github.com/rozenaakter/ai-chat-app/internal/config"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	log       zerolog.Logger
	cfg       *config.Config
	hub       *chat.Hub
	startedAt time.Time
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(log zerolog.Logger, cfg *config.Config, hub *chat.Hub) *Handler {
	return &Handler{log: log, cfg: cfg, hub: hub, startedAt: time.Now()}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
