package chat

import (
	"sync"

	"github.com/samber/lo"
)

// SessionRegistry maps live connection ids to display names and derives the
// online roster. Usernames are accepted as-is; the same name may be online on
// several connections at once.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]string // connectionId -> username
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]string)}
}

// Join records the connection's display name and returns the recomputed
// roster for broadcast.
func (r *SessionRegistry) Join(connectionID, username string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connectionID] = username
	return lo.Values(r.sessions)
}

// Leave removes the connection and returns the recomputed roster. Unknown
// connections (disconnect before join) are a no-op.
func (r *SessionRegistry) Leave(connectionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connectionID)
	return lo.Values(r.sessions)
}

// Username returns the display name recorded for a connection.
func (r *SessionRegistry) Username(connectionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.sessions[connectionID]
	return name, ok
}

// Roster returns the current list of online usernames.
func (r *SessionRegistry) Roster() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Values(r.sessions)
}
