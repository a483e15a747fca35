package persist

import (
	"context"
	"errors"

	"github.com/quickcart/checkout-wizard/domain"
)

// Store is a durable key-value home for checkout snapshots. Save always
// overwrites the whole snapshot for the key, never merges.
type Store interface {
	Load(ctx context.Context, key string) (*domain.Snapshot, error)
	Save(ctx context.Context, key string, snap *domain.Snapshot) error
	Clear(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("snapshot not found")
