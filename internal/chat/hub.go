package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rozenaakter/ai-chat-app/internal/metrics"
	"github.com/rozenaakter/ai-chat-app/internal/models"
)

// Assistant is notified of every stored human message; it decides whether the
// message mentions the AI and reacts asynchronously.
type Assistant interface {
	Notify(msg models.Message)
}

// inbound pairs a decoded command with the session that produced it. Commands
// originating inside the process (AI pipeline) carry a nil client.
type inbound struct {
	client *Client
	cmd    Command
}

// announceCommand asks the hub to fan out an event as-is. Used by the AI
// pipeline for thinking/model-info signals.
type announceCommand struct {
	evt Event
}

// aiReplyCommand appends a pipeline-produced message and broadcasts it.
type aiReplyCommand struct {
	msg models.Message
}

func (announceCommand) command() {}
func (aiReplyCommand) command() {}

// Hub is the broadcast gateway. A single run loop processes one inbound event
// at a time, so every mutation and its broadcast are emitted in order, and
// message append order matches the order send events were accepted.
type Hub struct {
	log      zerolog.Logger
	store    *MessageStore
	registry *SessionRegistry
	typing   *TypingCoordinator
	assist   Assistant

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	commands   chan inbound
}

func NewHub(log zerolog.Logger, store *MessageStore, registry *SessionRegistry, typing *TypingCoordinator) *Hub {
	return &Hub{
		log:        log,
		store:      store,
		registry:   registry,
		typing:     typing,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan inbound, 64),
	}
}

// SetAssistant wires the AI pipeline. Wired after construction because the
// pipeline broadcasts through the hub.
func (h *Hub) SetAssistant(a Assistant) {
	h.assist = a
}

// Register hands a freshly upgraded connection to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Announce fans out an event to all connected sessions. Safe to call from any
// goroutine; delivery order follows call order per caller.
func (h *Hub) Announce(evt Event) {
	h.commands <- inbound{cmd: announceCommand{evt: evt}}
}

// PostReply appends an AI-authored message and broadcasts it.
func (h *Hub) PostReply(msg models.Message) {
	h.commands <- inbound{cmd: aiReplyCommand{msg: msg}}
}

// Run processes registrations, disconnects, and inbound commands until the
// context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			metrics.ConnectionsActive.Inc()
			// Late joiners never replay missed broadcasts; they get the
			// current history snapshot instead.
			h.deliver(c, Event{Name: EventPreviousMessages, Data: h.store.Snapshot()})

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.ConnectionsActive.Dec()
			}
			if username, ok := h.registry.Username(c.id); ok {
				h.typing.Clear(username)
			}
			roster := h.registry.Leave(c.id)
			h.fanout(Event{Name: EventOnlineUsers, Data: roster}, nil)

		case in := <-h.commands:
			h.handle(in)
		}
	}
}

func (h *Hub) handle(in inbound) {
	switch cmd := in.cmd.(type) {
	case JoinCommand:
		roster := h.registry.Join(in.client.id, cmd.Username)
		h.fanout(Event{Name: EventOnlineUsers, Data: roster}, nil)

	case SendCommand:
		if strings.TrimSpace(cmd.Content) == "" {
			return
		}
		username := cmd.Username
		if name, ok := h.registry.Username(in.client.id); ok {
			username = name
		}
		stored := h.store.Append(models.Message{Content: cmd.Content, Username: username})
		metrics.MessagesTotal.WithLabelValues("user").Inc()
		h.fanout(Event{Name: EventNewMessage, Data: stored}, nil)
		if h.assist != nil {
			h.assist.Notify(stored)
		}

	case TypingCommand:
		name := EventTyping
		if cmd.Stopped {
			h.typing.Stop(cmd.Username)
			name = EventStopTyping
		} else {
			h.typing.Start(cmd.Username)
		}
		// Typing indicators go to everyone but the author.
		h.fanout(Event{Name: name, Data: TypingPayload{Username: cmd.Username}}, in.client)

	case ReadCommand:
		updated, ok := h.store.MarkRead(cmd.MessageID, cmd.Username)
		if !ok {
			return // unknown id or duplicate receipt
		}
		h.fanout(Event{Name: EventMessageUpdated, Data: updated}, nil)

	case announceCommand:
		h.fanout(cmd.evt, nil)

	case aiReplyCommand:
		stored := h.store.Append(cmd.msg)
		metrics.MessagesTotal.WithLabelValues("ai").Inc()
		h.fanout(Event{Name: EventNewMessage, Data: stored}, nil)
	}
}

// fanout pushes an event to every connected session except the excluded one.
// A client whose send buffer is full is dropped; its read pump then drives the
// normal unregister path.
func (h *Hub) fanout(evt Event, except *Client) {
	data, err := evt.Encode()
	if err != nil {
		h.log.Error().Err(err).Str("event", evt.Name).Msg("encode broadcast")
		return
	}
	metrics.BroadcastEvents.WithLabelValues(evt.Name).Inc()
	for c := range h.clients {
		if c == except {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("connection", c.id).Msg("dropping slow client")
			delete(h.clients, c)
			close(c.send)
			metrics.ConnectionsActive.Dec()
		}
	}
}

// deliver sends an event to a single session.
func (h *Hub) deliver(c *Client, evt Event) {
	data, err := evt.Encode()
	if err != nil {
		h.log.Error().Err(err).Str("event", evt.Name).Msg("encode event")
		return
	}
	select {
	case c.send <- data:
	default:
		h.log.Warn().Str("connection", c.id).Msg("dropping slow client")
		delete(h.clients, c)
		close(c.send)
		metrics.ConnectionsActive.Dec()
	}
}
