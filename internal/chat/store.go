package chat

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rozenaakter/ai-chat-app/internal/models"
)

// MessageStore owns the bounded, ordered message history. All access goes
// through its methods; the slice is never handed out directly.
type MessageStore struct {
	mu      sync.Mutex
	cap     int
	history []models.Message
	entropy *ulid.MonotonicEntropy
}

// NewMessageStore creates a store bounded at capacity messages. Eviction
// removes from the head only, so retained order is always append order.
func NewMessageStore(capacity int) *MessageStore {
	return &MessageStore{
		cap:     capacity,
		history: make([]models.Message, 0, capacity),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Append stores a message, assigning a ULID and creation timestamp when
// absent, and returns the stored copy for broadcast.
func (s *MessageStore) Append(msg models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.ID == "" {
		msg.ID = ulid.MustNew(ulid.Timestamp(msg.CreatedAt), s.entropy).String()
	}
	if msg.ReadBy == nil {
		msg.ReadBy = []string{}
	}

	s.history = append(s.history, msg)
	for len(s.history) > s.cap {
		s.history = s.history[1:]
	}
	return msg
}

// Get returns the message with the given id, if still retained.
func (s *MessageStore) Get(id string) (models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.history {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}

// MarkRead adds username to the message's read receipts and returns the
// updated message. It is idempotent: a second call with the same pair, or a
// call with an unknown id, returns false and changes nothing.
func (s *MessageStore) MarkRead(id, username string) (models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.history {
		if s.history[i].ID != id {
			continue
		}
		if s.history[i].HasRead(username) {
			return models.Message{}, false
		}
		// Clone before appending so snapshots taken earlier stay stable.
		s.history[i].ReadBy = append(slices.Clone(s.history[i].ReadBy), username)
		return s.history[i], true
	}
	return models.Message{}, false
}

// Snapshot returns a copy of the current history, oldest first. Used to seed
// newly joined sessions.
func (s *MessageStore) Snapshot() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Recent returns the last n messages (or fewer), oldest first. Used for AI
// context assembly.
func (s *MessageStore) Recent(n int) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.history) {
		n = len(s.history)
	}
	return slices.Clone(s.history[len(s.history)-n:])
}

// Len returns the current history length.
func (s *MessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
