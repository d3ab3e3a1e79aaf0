package cart

import (
	"context"
	"sync"
	"time"
)

// Store keeps carts keyed by an opaque session handle. Load returns nil, nil
// when the session has no cart yet.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	cart    *Cart
	touched time.Time
}

// MemoryStore is a process-local Store. Carts are cloned on the way in and
// out so callers never share state with the map. With a positive ttl an
// idle cart is treated as gone and Sweep reclaims it.
type MemoryStore struct {
	mu      sync.Mutex
	carts   map[string]memoryEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithTTL(0)
}

// NewMemoryStoreWithTTL expires carts that have not been read or written for ttl.
func NewMemoryStoreWithTTL(ttl time.Duration) *MemoryStore {
	return &MemoryStore{carts: map[string]memoryEntry{}, ttl: ttl, nowFunc: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.carts[sessionID]
	if !ok {
		return nil, nil
	}
	now := m.nowFunc()
	if m.expired(entry, now) {
		delete(m.carts, sessionID)
		return nil, nil
	}
	entry.touched = now
	m.carts[sessionID] = entry
	return entry.cart.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = memoryEntry{cart: c.Clone(), touched: m.nowFunc()}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

// Sweep drops every expired cart and reports how many were removed.
func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	removed := 0
	for id, entry := range m.carts {
		if m.expired(entry, now) {
			delete(m.carts, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports how many carts are held, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}

func (m *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(entry.touched) >= m.ttl
}
