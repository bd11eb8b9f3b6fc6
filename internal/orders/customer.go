package orders

import (
	"context"

	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
)

// ListForUser returns the customer's orders, newest first.
func (s *service) ListForUser(ctx context.Context, userID int64) ([]Order, error) {
	all, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	mine := all[:0:0]
	for _, o := range all {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	sortNewestFirst(mine)
	return s.convert(ctx, mine), nil
}

// GetForUser hides other customers' orders behind NOT_FOUND.
func (s *service) GetForUser(ctx context.Context, userID, orderID int64) (Order, error) {
	o, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != userID {
		return Order{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %d not found", orderID)
	}
	return s.convertOne(ctx, o), nil
}
