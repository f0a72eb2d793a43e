package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rozenaakter/ai-chat-app/internal/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from anywhere; there is no origin-bound
		// authentication to protect.
		return true
	},
}

// ServeWS upgrades the connection and hands it to the hub. Everything after
// the upgrade speaks the event envelope protocol.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := chat.NewClient(h.hub, conn, h.log)
	h.log.Info().Str("connection", client.ID()).Msg("client connected")
	client.Start()
}
