package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSessions keeps one MemoryPersistence per slot so an evicted session
// can be rehydrated from the same slot, the way Redis behaves.
func newTestSessions() *Sessions {
	slots := map[string]*MemoryPersistence{}
	return NewSessions(func(slot string) Persistence {
		if p, ok := slots[slot]; ok {
			return p
		}
		p := NewMemoryPersistence()
		slots[slot] = p
		return p
	})
}

func TestSessionsReuseStore(t *testing.T) {
	sessions := newTestSessions()
	ctx := context.Background()

	first, err := sessions.Store(ctx, "sess-1")
	require.NoError(t, err)
	second, err := sessions.Store(ctx, "sess-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestSessionsEvictIdleEntries(t *testing.T) {
	sessions := newTestSessions()
	ctx := context.Background()

	now := time.Now()
	sessions.now = func() time.Time { return now }

	stale, err := sessions.Store(ctx, "sess-stale")
	require.NoError(t, err)
	require.NoError(t, stale.AddItem(ctx, uuid.New(), 2, snapshotFor("Croissant", 30)))

	now = now.Add(sessionIdleTTL + time.Minute)

	// Any access sweeps idle entries out of the map.
	_, err = sessions.Store(ctx, "sess-fresh")
	require.NoError(t, err)

	sessions.mu.Lock()
	_, present := sessions.entries["sess-stale"]
	sessions.mu.Unlock()
	assert.False(t, present, "idle session should be evicted")

	// A returning session gets a fresh store rehydrated from its slot.
	revived, err := sessions.Store(ctx, "sess-stale")
	require.NoError(t, err)
	assert.NotSame(t, stale, revived)

	items := revived.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestSessionsAccessKeepsEntryAlive(t *testing.T) {
	sessions := newTestSessions()
	ctx := context.Background()

	now := time.Now()
	sessions.now = func() time.Time { return now }

	active, err := sessions.Store(ctx, "sess-active")
	require.NoError(t, err)

	// Touch the session halfway through the idle window, then cross the
	// original cutoff; the refreshed entry must survive.
	now = now.Add(sessionIdleTTL / 2)
	_, err = sessions.Store(ctx, "sess-active")
	require.NoError(t, err)

	now = now.Add(sessionIdleTTL/2 + time.Minute)
	again, err := sessions.Store(ctx, "sess-active")
	require.NoError(t, err)

	assert.Same(t, active, again)
}
