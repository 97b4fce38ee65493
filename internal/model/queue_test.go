package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePairsInArrivalOrder(t *testing.T) {
	q := NewQueue()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	q.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, q.AddPlayer("alice"))
	require.NoError(t, q.AddPlayer("bob"))
	require.NoError(t, q.AddPlayer("carol"))
	assert.ErrorIs(t, q.AddPlayer("bob"), ErrAlreadyQueued)
	assert.Equal(t, 3, q.Size())

	a, b, ok := q.NextPair()
	require.True(t, ok)
	assert.Equal(t, "alice", a.PlayerID)
	assert.Equal(t, "bob", b.PlayerID)
	assert.True(t, a.JoinedAt.Before(b.JoinedAt))

	_, _, ok = q.NextPair()
	assert.False(t, ok)
	assert.Equal(t, 1, q.Size())
}

func TestQueueRemovePlayer(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.AddPlayer("alice"))
	require.NoError(t, q.AddPlayer("bob"))

	assert.True(t, q.RemovePlayer("alice"))
	assert.False(t, q.RemovePlayer("alice"))
	assert.Equal(t, 1, q.Size())

	require.NoError(t, q.AddPlayer("alice"))
	a, b, ok := q.NextPair()
	require.True(t, ok)
	assert.Equal(t, "bob", a.PlayerID)
	assert.Equal(t, "alice", b.PlayerID)
}
