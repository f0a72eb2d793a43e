package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rozenaakter/ai-chat-app/internal/models"
)

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	s := NewMessageStore(50)

	stored := s.Append(models.Message{Content: "hello", Username: "bob"})
	require.NotEmpty(t, stored.ID)
	require.False(t, stored.CreatedAt.IsZero())
	require.NotNil(t, stored.ReadBy)
	require.Empty(t, stored.ReadBy)
	require.False(t, stored.IsAI)
}

func TestAppendIDsAreOrdered(t *testing.T) {
	s := NewMessageStore(50)

	var prev string
	for i := 0; i < 20; i++ {
		stored := s.Append(models.Message{Content: "x", Username: "bob"})
		require.Greater(t, stored.ID, prev, "ULIDs must be strictly increasing")
		prev = stored.ID
	}
}

func TestCapEvictsFromHead(t *testing.T) {
	s := NewMessageStore(50)

	for i := 1; i <= 90; i++ {
		s.Append(models.Message{Content: fmt.Sprintf("m%d", i), Username: "bob"})
		require.LessOrEqual(t, s.Len(), 50, "cap must hold after every append")
	}

	history := s.Snapshot()
	require.Len(t, history, 50)
	// Retained messages are exactly appends #41..#90, in append order.
	for i, m := range history {
		require.Equal(t, fmt.Sprintf("m%d", i+41), m.Content)
	}
}

func TestGet(t *testing.T) {
	s := NewMessageStore(10)
	stored := s.Append(models.Message{Content: "hi", Username: "alice"})

	got, ok := s.Get(stored.ID)
	require.True(t, ok)
	require.Equal(t, stored.ID, got.ID)
	require.Equal(t, "hi", got.Content)

	_, ok = s.Get("missing")
	require.False(t, ok)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	s := NewMessageStore(10)
	stored := s.Append(models.Message{Content: "hi", Username: "alice"})

	updated, ok := s.MarkRead(stored.ID, "carol")
	require.True(t, ok)
	require.Equal(t, []string{"carol"}, updated.ReadBy)

	// Second receipt from the same user is a no-op.
	_, ok = s.MarkRead(stored.ID, "carol")
	require.False(t, ok)

	got, _ := s.Get(stored.ID)
	require.Equal(t, []string{"carol"}, got.ReadBy)
}

func TestMarkReadUnknownIDIsNoOp(t *testing.T) {
	s := NewMessageStore(10)
	_, ok := s.MarkRead("nope", "carol")
	require.False(t, ok)
}

func TestMarkReadMultipleReaders(t *testing.T) {
	s := NewMessageStore(10)
	stored := s.Append(models.Message{Content: "hi", Username: "alice"})

	s.MarkRead(stored.ID, "bob")
	updated, ok := s.MarkRead(stored.ID, "carol")
	require.True(t, ok)
	require.Equal(t, []string{"bob", "carol"}, updated.ReadBy)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewMessageStore(10)
	stored := s.Append(models.Message{Content: "hi", Username: "alice"})

	snap := s.Snapshot()
	s.MarkRead(stored.ID, "carol")

	require.Empty(t, snap[0].ReadBy, "snapshot must not observe later mutation")
}

func TestRecent(t *testing.T) {
	s := NewMessageStore(50)
	for i := 1; i <= 5; i++ {
		s.Append(models.Message{Content: fmt.Sprintf("m%d", i), Username: "bob"})
	}

	recent := s.Recent(3)
	require.Len(t, recent, 3)
	require.Equal(t, "m3", recent[0].Content)
	require.Equal(t, "m5", recent[2].Content)

	// Shorter history than the window returns everything.
	all := s.Recent(20)
	require.Len(t, all, 5)
	require.Equal(t, "m1", all[0].Content)
}
