package http

import (
	"sync"
	"time"

	"github.com/quickcart/checkout-wizard/internal/wizard"
)

const (
	// SessionTTL is how long an untouched wizard is kept before eviction
	SessionTTL = 2 * time.Hour

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = 5 * time.Minute
)

// Manager owns the live wizards, one per checkout session id. Evicted
// sessions are not lost: their committed data comes back from the
// persisted snapshot on the next request.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*managerEntry
	factory func(id string) *wizard.Wizard

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

type managerEntry struct {
	wiz      *wizard.Wizard
	lastSeen time.Time
}

func NewManager(factory func(id string) *wizard.Wizard) *Manager {
	m := &Manager{
		entries:     make(map[string]*managerEntry),
		factory:     factory,
		stopCleanup: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// Get returns the wizard for the session id, creating it on first use.
func (m *Manager) Get(id string) *wizard.Wizard {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.lastSeen = time.Now()
		return e.wiz
	}
	wiz := m.factory(id)
	m.entries[id] = &managerEntry{wiz: wiz, lastSeen: time.Now()}
	return wiz
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-SessionTTL)
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, id)
		}
	}
}

func (m *Manager) Close() {
	close(m.stopCleanup)
	m.wg.Wait()
}
