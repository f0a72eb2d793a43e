package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rozenaakter/ai-chat-app/internal/models"
)

type recordingAssistant struct {
	mu  sync.Mutex
	got []models.Message
}

func (a *recordingAssistant) Notify(m models.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, m)
}

func (a *recordingAssistant) seen() []models.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Message(nil), a.got...)
}

type testEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestHub(t *testing.T) (*Hub, *MessageStore) {
	t.Helper()
	store := NewMessageStore(50)
	h := NewHub(zerolog.Nop(), store, NewSessionRegistry(), NewTypingCoordinator())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h, store
}

// newTestClient builds a client without a network connection; the test reads
// its send queue directly.
func newTestClient() *Client {
	return &Client{id: uuid.NewString(), send: make(chan []byte, sendBuffer)}
}

func recvEvent(t *testing.T, c *Client) testEnvelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env testEnvelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return testEnvelope{}
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("expected no event, got %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

// connect registers the client and consumes its history snapshot.
func connect(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	h.Register(c)
	env := recvEvent(t, c)
	require.Equal(t, EventPreviousMessages, env.Event)
}

func TestRegisterDeliversSnapshot(t *testing.T) {
	h, store := newTestHub(t)
	store.Append(models.Message{Content: "welcome", Username: "ai", IsAI: true})

	c := newTestClient()
	h.Register(c)

	env := recvEvent(t, c)
	require.Equal(t, EventPreviousMessages, env.Event)

	var history []models.Message
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	require.Equal(t, "welcome", history[0].Content)
}

func TestJoinBroadcastsRoster(t *testing.T) {
	h, _ := newTestHub(t)
	c1, c2 := newTestClient(), newTestClient()
	connect(t, h, c1)
	connect(t, h, c2)

	h.commands <- inbound{client: c1, cmd: JoinCommand{Username: "alice"}}

	for _, c := range []*Client{c1, c2} {
		env := recvEvent(t, c)
		require.Equal(t, EventOnlineUsers, env.Event)

		var roster []string
		require.NoError(t, json.Unmarshal(env.Data, &roster))
		require.ElementsMatch(t, []string{"alice"}, roster)
	}
}

func TestLeaveRestoresRoster(t *testing.T) {
	h, _ := newTestHub(t)
	c1, c2 := newTestClient(), newTestClient()
	connect(t, h, c1)
	connect(t, h, c2)

	h.commands <- inbound{client: c1, cmd: JoinCommand{Username: "alice"}}
	recvEvent(t, c1)
	recvEvent(t, c2)
	h.commands <- inbound{client: c2, cmd: JoinCommand{Username: "bob"}}
	recvEvent(t, c1)
	recvEvent(t, c2)

	h.unregister <- c2

	env := recvEvent(t, c1)
	require.Equal(t, EventOnlineUsers, env.Event)
	var roster []string
	require.NoError(t, json.Unmarshal(env.Data, &roster))
	require.ElementsMatch(t, []string{"alice"}, roster)
}

func TestSendFansOutToEveryone(t *testing.T) {
	h, store := newTestHub(t)
	assist := &recordingAssistant{}
	h.SetAssistant(assist)

	c1, c2 := newTestClient(), newTestClient()
	connect(t, h, c1)
	connect(t, h, c2)

	h.commands <- inbound{client: c1, cmd: SendCommand{Content: "hello", Username: "alice"}}

	for _, c := range []*Client{c1, c2} {
		env := recvEvent(t, c)
		require.Equal(t, EventNewMessage, env.Event)

		var msg models.Message
		require.NoError(t, json.Unmarshal(env.Data, &msg))
		require.Equal(t, "hello", msg.Content)
		require.Equal(t, "alice", msg.Username)
		require.NotEmpty(t, msg.ID)
		require.False(t, msg.IsAI)
	}

	require.Equal(t, 1, store.Len())
	require.Eventually(t, func() bool { return len(assist.seen()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestSendUsesJoinedUsername(t *testing.T) {
	h, _ := newTestHub(t)
	c := newTestClient()
	connect(t, h, c)

	h.commands <- inbound{client: c, cmd: JoinCommand{Username: "alice"}}
	recvEvent(t, c)

	// The registry's name wins over whatever the payload claims.
	h.commands <- inbound{client: c, cmd: SendCommand{Content: "hi", Username: "mallory"}}

	env := recvEvent(t, c)
	var msg models.Message
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	require.Equal(t, "alice", msg.Username)
}

func TestEmptySendIsIgnored(t *testing.T) {
	h, store := newTestHub(t)
	c := newTestClient()
	connect(t, h, c)

	h.commands <- inbound{client: c, cmd: SendCommand{Content: "   ", Username: "alice"}}

	expectSilence(t, c)
	require.Equal(t, 0, store.Len())
}

func TestTypingExcludesOriginator(t *testing.T) {
	h, _ := newTestHub(t)
	c1, c2 := newTestClient(), newTestClient()
	connect(t, h, c1)
	connect(t, h, c2)

	h.commands <- inbound{client: c1, cmd: TypingCommand{Username: "alice"}}

	env := recvEvent(t, c2)
	require.Equal(t, EventTyping, env.Event)
	expectSilence(t, c1)

	h.commands <- inbound{client: c1, cmd: TypingCommand{Username: "alice", Stopped: true}}

	env = recvEvent(t, c2)
	require.Equal(t, EventStopTyping, env.Event)
	expectSilence(t, c1)
}

func TestReadReceiptBroadcastsOnce(t *testing.T) {
	h, store := newTestHub(t)
	c := newTestClient()
	connect(t, h, c)

	stored := store.Append(models.Message{Content: "hi", Username: "alice"})

	h.commands <- inbound{client: c, cmd: ReadCommand{MessageID: stored.ID, Username: "carol"}}

	env := recvEvent(t, c)
	require.Equal(t, EventMessageUpdated, env.Event)
	var msg models.Message
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	require.Equal(t, []string{"carol"}, msg.ReadBy)

	// Duplicate receipt: no event at all.
	h.commands <- inbound{client: c, cmd: ReadCommand{MessageID: stored.ID, Username: "carol"}}
	expectSilence(t, c)

	// Unknown id: same.
	h.commands <- inbound{client: c, cmd: ReadCommand{MessageID: "missing", Username: "carol"}}
	expectSilence(t, c)
}

func TestAnnounceReachesEveryone(t *testing.T) {
	h, _ := newTestHub(t)
	c1, c2 := newTestClient(), newTestClient()
	connect(t, h, c1)
	connect(t, h, c2)

	h.Announce(Event{Name: EventAIThinking})

	require.Equal(t, EventAIThinking, recvEvent(t, c1).Event)
	require.Equal(t, EventAIThinking, recvEvent(t, c2).Event)
}

func TestPostReplyAppendsAndBroadcasts(t *testing.T) {
	h, store := newTestHub(t)
	c := newTestClient()
	connect(t, h, c)

	h.PostReply(models.Message{Content: "X is ...", Username: "ai", IsAI: true})

	env := recvEvent(t, c)
	require.Equal(t, EventNewMessage, env.Event)

	var msg models.Message
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	require.True(t, msg.IsAI)
	require.Equal(t, "ai", msg.Username)
	require.NotEmpty(t, msg.ID)
	require.Equal(t, 1, store.Len())
}
