package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/persist"
)

// Store is the single source of truth for one checkout session. Step
// controllers mutate it only through the setters; every committed-data
// mutation snapshots the session to the persister, best effort.
type Store struct {
	mu       sync.RWMutex
	account  *domain.AccountData
	shipping *domain.ShippingData
	payment  *domain.PaymentData
	orderID  string

	persister persist.Store // may be nil
	key       string
}

const persistTimeout = 2 * time.Second

func NewStore(persister persist.Store, key string) *Store {
	return &Store{persister: persister, key: key}
}

// Restore loads the persisted snapshot and selectively restores the
// account, shipping and payment fields. The order id is never restored.
func (s *Store) Restore(ctx context.Context) {
	if s.persister == nil {
		return
	}
	snap, err := s.persister.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			log.Printf("session restore failed for %s: %v", s.key, err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Account != nil {
		account := *snap.Account
		s.account = &account
	}
	if snap.Shipping != nil {
		shipping := *snap.Shipping
		s.shipping = &shipping
	}
	if snap.Payment != nil {
		payment := *snap.Payment
		s.payment = &payment
	}
}

func (s *Store) SetAccount(ctx context.Context, data domain.AccountData) {
	s.mu.Lock()
	s.account = &data
	s.mu.Unlock()
	s.save(ctx)
}

func (s *Store) SetShipping(ctx context.Context, data domain.ShippingData) {
	s.mu.Lock()
	s.shipping = &data
	s.mu.Unlock()
	s.save(ctx)
}

func (s *Store) SetPayment(ctx context.Context, data domain.PaymentData) {
	s.mu.Lock()
	s.payment = &data
	s.mu.Unlock()
	s.save(ctx)
}

// SetOrderID records a placed order. It is intentionally not persisted.
func (s *Store) SetOrderID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderID = id
}

func (s *Store) Account() (domain.AccountData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return domain.AccountData{}, false
	}
	return *s.account, true
}

func (s *Store) Shipping() (domain.ShippingData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shipping == nil {
		return domain.ShippingData{}, false
	}
	return *s.shipping, true
}

func (s *Store) Payment() (domain.PaymentData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.payment == nil {
		return domain.PaymentData{}, false
	}
	return *s.payment, true
}

func (s *Store) OrderID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderID
}

// Snapshot returns the persistable subset of the session.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := domain.Snapshot{}
	if s.account != nil {
		account := *s.account
		snap.Account = &account
	}
	if s.shipping != nil {
		shipping := *s.shipping
		snap.Shipping = &shipping
	}
	if s.payment != nil {
		payment := *s.payment
		snap.Payment = &payment
	}
	return snap
}

// Reset clears the session and its snapshot for a new order.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.account = nil
	s.shipping = nil
	s.payment = nil
	s.orderID = ""
	s.mu.Unlock()

	if s.persister == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := s.persister.Clear(cctx, s.key); err != nil {
		log.Printf("snapshot clear failed for %s: %v", s.key, err)
	}
}

// save writes the whole snapshot. Persistence is best effort: failures
// are logged and the session keeps operating in memory.
func (s *Store) save(ctx context.Context) {
	if s.persister == nil {
		return
	}
	snap := s.Snapshot()
	cctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := s.persister.Save(cctx, s.key, &snap); err != nil {
		log.Printf("snapshot save failed for %s: %v", s.key, err)
	}
}
