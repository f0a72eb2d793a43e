package chat

import (
	"sync"

	"github.com/samber/lo"
)

// TypingCoordinator tracks which usernames are currently composing. Liveness
// is client-driven: clients emit stop-typing after their idle window and on
// submit. There is no server-side expiry, so an abrupt disconnect can leave a
// stale indicator until the next event; Clear trims the common case.
type TypingCoordinator struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewTypingCoordinator() *TypingCoordinator {
	return &TypingCoordinator{active: make(map[string]struct{})}
}

// Start flags the username as composing.
func (t *TypingCoordinator) Start(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active[username] = struct{}{}
}

// Stop removes the composing flag.
func (t *TypingCoordinator) Stop(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, username)
}

// Clear drops the username on disconnect so its indicator does not outlive
// the session.
func (t *TypingCoordinator) Clear(username string) {
	t.Stop(username)
}

// Active returns the usernames currently flagged as composing.
func (t *TypingCoordinator) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Keys(t.active)
}
