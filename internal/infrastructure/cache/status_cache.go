package cache

import (
	"context"
	"sync"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
)

// InMemoryStatusCache memoizes approval status catalog lookups in process.
// The catalog is three rows that never change at runtime, so entries only
// expire to pick up a re-seeded database.
type InMemoryStatusCache struct {
	source approval.StatusLookup
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	byState  map[approval.State]int64
	byID     map[int64]approval.State
	loadedAt time.Time
}

// NewInMemoryStatusCache wraps source. A zero ttl never expires.
func NewInMemoryStatusCache(source approval.StatusLookup, ttl time.Duration) *InMemoryStatusCache {
	return &InMemoryStatusCache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		byState: make(map[approval.State]int64, 3),
		byID:    make(map[int64]approval.State, 3),
	}
}

// IDFor returns the catalog id of state
func (c *InMemoryStatusCache) IDFor(ctx context.Context, state approval.State) (int64, error) {
	c.mu.RLock()
	id, ok := c.byState[state]
	fresh := c.freshLocked()
	c.mu.RUnlock()
	if ok && fresh {
		return id, nil
	}

	id, err := c.source.IDFor(ctx, state)
	if err != nil {
		return 0, err
	}
	c.store(state, id)
	return id, nil
}

// StateFor returns the state stored under a catalog id
func (c *InMemoryStatusCache) StateFor(ctx context.Context, id int64) (approval.State, error) {
	c.mu.RLock()
	state, ok := c.byID[id]
	fresh := c.freshLocked()
	c.mu.RUnlock()
	if ok && fresh {
		return state, nil
	}

	state, err := c.source.StateFor(ctx, id)
	if err != nil {
		return approval.StateUnknown, err
	}
	c.store(state, id)
	return state, nil
}

// Warm loads every lifecycle state so a missing catalog row fails at startup
func (c *InMemoryStatusCache) Warm(ctx context.Context) error {
	for _, state := range approval.AllStates() {
		if _, err := c.IDFor(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate drops every cached entry
func (c *InMemoryStatusCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byState = make(map[approval.State]int64, 3)
	c.byID = make(map[int64]approval.State, 3)
	c.loadedAt = time.Time{}
}

func (c *InMemoryStatusCache) store(state approval.State, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.freshLocked() {
		c.byState = make(map[approval.State]int64, 3)
		c.byID = make(map[int64]approval.State, 3)
		c.loadedAt = c.now()
	}
	c.byState[state] = id
	c.byID[id] = state
}

// freshLocked must be called with mu held
func (c *InMemoryStatusCache) freshLocked() bool {
	if c.loadedAt.IsZero() {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl
}

var _ approval.StatusLookup = (*InMemoryStatusCache)(nil)
