package chat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event names carried on the wire. Inbound and outbound events share one
// envelope: {"event": <name>, "data": <payload>}.
const (
	// inbound
	EventJoinChat    = "join-chat"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
	EventMessageRead = "message-read"

	// outbound
	EventPreviousMessages = "previous-messages"
	EventNewMessage       = "new-message"
	EventMessageUpdated   = "message-updated"
	EventOnlineUsers      = "online-users"
	EventAIThinking       = "ai-thinking"
	EventAIStopThinking   = "ai-stop-thinking"
	EventAIModelInfo      = "ai-model-info"
)

// Event is an outbound notification fanned out to connected sessions.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Encode serializes the event into its wire envelope.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Payloads for events whose data is not a Message or a roster.

type JoinPayload struct {
	Username string `json:"username"`
}

type SendPayload struct {
	Content  string `json:"content"`
	Username string `json:"username"`
}

type TypingPayload struct {
	Username string `json:"username"`
}

type ReadPayload struct {
	MessageID string `json:"messageId"`
	Username  string `json:"username"`
}

type ModelInfoPayload struct {
	Model string `json:"model"`
}

// Commands are the validated, tagged forms of inbound events. Dynamic payloads
// never reach the hub; everything is decoded at this boundary.

type Command interface {
	command()
}

type JoinCommand struct {
	Username string
}

type SendCommand struct {
	Content  string
	Username string
}

type TypingCommand struct {
	Username string
	Stopped  bool
}

type ReadCommand struct {
	MessageID string
	Username  string
}

func (JoinCommand) command()   {}
func (SendCommand) command()   {}
func (TypingCommand) command() {}
func (ReadCommand) command()   {}

var errUnknownEvent = errors.New("unknown event")

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DecodeCommand parses a raw inbound frame into a Command. Unknown events and
// malformed payloads return an error; the caller drops the frame.
func DecodeCommand(raw []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Event {
	case EventJoinChat:
		var p JoinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return JoinCommand{Username: p.Username}, nil

	case EventSendMessage:
		var p SendPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return SendCommand{Content: p.Content, Username: p.Username}, nil

	case EventTyping, EventStopTyping:
		var p TypingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return TypingCommand{Username: p.Username, Stopped: env.Event == EventStopTyping}, nil

	case EventMessageRead:
		var p ReadPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return ReadCommand{MessageID: p.MessageID, Username: p.Username}, nil
	}

	return nil, fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
}
