package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rozenaakter/ai-chat-app/internal/metrics"
)

const (
	// writeWait is the deadline for a single outbound frame.
	writeWait = 10 * time.Second

	// pongWait and pingPeriod mirror the original deployment's keepalive
	// settings (60s timeout, 25s interval).
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096

	// sendBuffer is the per-client outbound queue; a client that falls this
	// far behind is disconnected.
	sendBuffer = 256
)

// Per-connection inbound budget: sustained 10 events/s, burst 20.
const (
	inboundRate  = 10
	inboundBurst = 20
)

// Client is one websocket session. The read pump decodes inbound frames into
// commands for the hub; the write pump drains the send queue.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	log     zerolog.Logger
	id      string
	send    chan []byte
	limiter *rate.Limiter
}

func NewClient(hub *Hub, conn *websocket.Conn, log zerolog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		hub:     hub,
		conn:    conn,
		log:     log.With().Str("connection", id).Logger(),
		id:      id,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(inboundRate), inboundBurst),
	}
}

// ID returns the opaque connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Start registers the client with the hub and launches its pumps.
func (c *Client) Start() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("read error")
			}
			return
		}

		if !c.limiter.Allow() {
			metrics.RateLimitedMessages.Inc()
			c.log.Warn().Msg("inbound rate limit exceeded, dropping frame")
			continue
		}

		cmd, err := DecodeCommand(raw)
		if err != nil {
			// Malformed or unknown events are swallowed at the boundary.
			c.log.Debug().Err(err).Msg("dropping inbound frame")
			continue
		}
		c.hub.commands <- inbound{client: c, cmd: cmd}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
