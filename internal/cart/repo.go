package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitalixplus/storefront/pkg/storage"
)

const keyPrefix = "cart:"

// Key is the fixed storage key of a client's cart.
func Key(clientID string) string {
	return keyPrefix + clientID
}

// ErrCorrupt marks a persisted cart that could not be decoded.
var ErrCorrupt = errors.New("persisted cart is corrupt")

// Repository persists whole carts in the key-value store.
type Repository struct {
	store storage.Store
}

// NewRepository binds the repository to the provided store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// Load returns the persisted cart, or an empty cart when none exists.
func (r *Repository) Load(ctx context.Context, clientID string) (Cart, error) {
	var c Cart
	err := storage.GetJSON(ctx, r.store, Key(clientID), &c)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return Cart{Items: []Item{}}, nil
	case err != nil:
		if errors.Is(err, storage.ErrDecode) {
			return Cart{Items: []Item{}}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return Cart{}, err
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, nil
}

// Save overwrites the persisted cart.
func (r *Repository) Save(ctx context.Context, clientID string, c Cart) error {
	return storage.PutJSON(ctx, r.store, Key(clientID), c, 0)
}

// Delete removes the persisted cart.
func (r *Repository) Delete(ctx context.Context, clientID string) error {
	return r.store.Delete(ctx, Key(clientID))
}
