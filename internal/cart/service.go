package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vitalixplus/storefront/internal/catalog"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
)

type productLoader interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

type cartRepository interface {
	Load(ctx context.Context, clientID string) (Cart, error)
	Save(ctx context.Context, clientID string, c Cart) error
	Delete(ctx context.Context, clientID string) error
}

type rejectionRecorder interface {
	CartRejected(reason string)
}

// Service binds carts to client ids. Every mutation persists the whole cart.
type Service interface {
	Get(ctx context.Context, clientID string) (Cart, error)
	Add(ctx context.Context, clientID string, productID int64, qty int) (Cart, Warning, error)
	UpdateQuantity(ctx context.Context, clientID string, productID int64, delta int) (Cart, Warning, error)
	Remove(ctx context.Context, clientID string, productID int64) (Cart, error)
	Clear(ctx context.Context, clientID string) error
	Settle(ctx context.Context, clientID string, submitted Cart) (Cart, error)
}

type service struct {
	repo     cartRepository
	products productLoader
	metrics  rejectionRecorder
	logg     *logger.Logger
	locks    *keyedMutex
}

// NewService builds a cart service. metrics may be nil.
func NewService(repo cartRepository, products productLoader, metrics rejectionRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		metrics:  metrics,
		logg:     logg,
		locks:    newKeyedMutex(),
	}, nil
}

func (s *service) Get(ctx context.Context, clientID string) (Cart, error) {
	if err := validateClient(clientID); err != nil {
		return Cart{}, err
	}
	return s.load(ctx, clientID)
}

func (s *service) Add(ctx context.Context, clientID string, productID int64, qty int) (Cart, Warning, error) {
	if err := validateClient(clientID); err != nil {
		return Cart{}, WarningNone, err
	}
	// Stock is advisory: the snapshot is whatever the catalog reports right now.
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return Cart{}, WarningNone, err
	}
	return s.mutate(ctx, clientID, func(c *Cart) Warning {
		return c.Add(product, qty)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, clientID string, productID int64, delta int) (Cart, Warning, error) {
	if err := validateClient(clientID); err != nil {
		return Cart{}, WarningNone, err
	}
	return s.mutate(ctx, clientID, func(c *Cart) Warning {
		return c.UpdateQuantity(productID, delta)
	})
}

func (s *service) Remove(ctx context.Context, clientID string, productID int64) (Cart, error) {
	if err := validateClient(clientID); err != nil {
		return Cart{}, err
	}
	c, _, err := s.mutate(ctx, clientID, func(c *Cart) Warning {
		c.Remove(productID)
		return WarningNone
	})
	return c, err
}

func (s *service) Clear(ctx context.Context, clientID string) error {
	if err := validateClient(clientID); err != nil {
		return err
	}
	unlock := s.locks.Lock(clientID)
	defer unlock()
	if err := s.repo.Save(ctx, clientID, Cart{Items: []Item{}}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// Settle removes what was just ordered. Items added while the order was being
// placed survive.
func (s *service) Settle(ctx context.Context, clientID string, submitted Cart) (Cart, error) {
	if err := validateClient(clientID); err != nil {
		return Cart{}, err
	}
	c, _, err := s.mutate(ctx, clientID, func(c *Cart) Warning {
		c.Subtract(submitted)
		return WarningNone
	})
	return c, err
}

// mutate runs fn against the persisted cart under the client's lock. A warning
// means fn rejected the change, so nothing is written.
func (s *service) mutate(ctx context.Context, clientID string, fn func(*Cart) Warning) (Cart, Warning, error) {
	unlock := s.locks.Lock(clientID)
	defer unlock()

	c, err := s.load(ctx, clientID)
	if err != nil {
		return Cart{}, WarningNone, err
	}
	if warning := fn(&c); warning != WarningNone {
		if s.metrics != nil {
			s.metrics.CartRejected(string(warning))
		}
		ctx = s.logg.WithFields(ctx, map[string]any{"client_id": clientID, "warning": string(warning)})
		s.logg.Info(ctx, "cart.mutation.rejected")
		return c, warning, nil
	}
	if err := s.repo.Save(ctx, clientID, c); err != nil {
		return Cart{}, WarningNone, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cart")
	}
	return c, WarningNone, nil
}

func (s *service) load(ctx context.Context, clientID string) (Cart, error) {
	c, err := s.repo.Load(ctx, clientID)
	if errors.Is(err, ErrCorrupt) {
		s.logg.Error(s.logg.WithClientID(ctx, clientID), "cart.load.discarded", err)
		return Cart{Items: []Item{}}, nil
	}
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return c, nil
}

func validateClient(clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	return nil
}
