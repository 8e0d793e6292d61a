// internal/cart/sessions.go
package cart

import (
	"context"
	"sync"
	"time"
)

// sessionIdleTTL bounds how long an untouched session keeps its in-memory
// store. The persisted slot outlives eviction, so a returning session is
// rehydrated from it.
const sessionIdleTTL = time.Hour

type sessionEntry struct {
	store    Store
	lastUsed time.Time
}

// Sessions hands out one Store per storefront session, restoring each from
// its persistence slot on first use. Idle entries are evicted so the map does
// not grow with every session ever seen.
type Sessions struct {
	mu             sync.Mutex
	entries        map[string]*sessionEntry
	newPersistence func(slot string) Persistence
	now            func() time.Time
}

func NewSessions(newPersistence func(slot string) Persistence) *Sessions {
	return &Sessions{
		entries:        make(map[string]*sessionEntry),
		newPersistence: newPersistence,
		now:            time.Now,
	}
}

// Store returns the cart store for a session, creating it if needed.
func (s *Sessions) Store(ctx context.Context, sessionID string) (Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIdleLocked()

	if e, ok := s.entries[sessionID]; ok {
		e.lastUsed = s.now()
		return e.store, nil
	}

	st, err := NewStore(ctx, s.newPersistence(SlotKey(sessionID)))
	if err != nil {
		return nil, err
	}
	s.entries[sessionID] = &sessionEntry{store: st, lastUsed: s.now()}
	return st, nil
}

func (s *Sessions) evictIdleLocked() {
	cutoff := s.now().Add(-sessionIdleTTL)
	for id, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
