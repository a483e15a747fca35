package persist

import (
	"context"
	"sync"

	"github.com/quickcart/checkout-wizard/domain"
)

// MemoryStore is the in-process fallback used when redis is not
// configured or unreachable. Snapshots then only live as long as the
// process does.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]domain.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]domain.Snapshot)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (*domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copySnapshot(&snap), nil
}

func (m *MemoryStore) Save(_ context.Context, key string, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[key] = *copySnapshot(snap)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, key)
	return nil
}

// copySnapshot deep-copies so callers never share pointers with the map.
func copySnapshot(snap *domain.Snapshot) *domain.Snapshot {
	out := &domain.Snapshot{}
	if snap.Account != nil {
		account := *snap.Account
		out.Account = &account
	}
	if snap.Shipping != nil {
		shipping := *snap.Shipping
		out.Shipping = &shipping
	}
	if snap.Payment != nil {
		payment := *snap.Payment
		out.Payment = &payment
	}
	return out
}
