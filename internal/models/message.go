package models

import "time"

// Message represents a single chat message held in the in-memory history.
type Message struct {
	ID        string    `json:"id"` // ULID, orderable by creation time
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	IsAI      bool      `json:"isAi"`
	ReadBy    []string  `json:"readBy"` // usernames, no duplicates
}

// HasRead reports whether username already appears in the read receipts.
func (m *Message) HasRead(username string) bool {
	for _, u := range m.ReadBy {
		if u == username {
			return true
		}
	}
	return false
}
