package orders

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/validation"
)

// AdminFilter narrows the back-office order list.
type AdminFilter struct {
	IncludeDeleted bool
	Search         string
}

// AdminLine is a requested product line on a back-office order.
type AdminLine struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=1"`
}

// AdminOrderInput is the back-office order form. When Subtotal is omitted it is
// priced from the catalog; Total is always Subtotal plus Shipping.
type AdminOrderInput struct {
	UserID      int64            `json:"user_id" validate:"gt=0"`
	Branch      string           `json:"branch" validate:"required,max=120"`
	AssistantID int64            `json:"assistant_id" validate:"gt=0"`
	DriverID    int64            `json:"driver_id" validate:"gt=0"`
	PlacedAt    string           `json:"placed_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address     string           `json:"address" validate:"required,trimmed_min=5,max=255"`
	Shipping    decimal.Decimal  `json:"shipping"`
	Subtotal    *decimal.Decimal `json:"subtotal,omitempty"`
	Status      string           `json:"status,omitempty"`
	Lines       []AdminLine      `json:"lines" validate:"required,min=1,dive"`
}

func (s *service) AdminList(ctx context.Context, filter AdminFilter) ([]Order, error) {
	all, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := all[:0:0]
	for _, o := range all {
		if !filter.IncludeDeleted && statusOf(o) == enums.OrderStatusDeleted {
			continue
		}
		if search != "" && !idContains(o.ID, search) && !strings.Contains(strings.ToLower(o.Branch), search) {
			continue
		}
		out = append(out, o)
	}
	sortNewestFirst(out)
	return s.convert(ctx, out), nil
}

func (s *service) AdminCreate(ctx context.Context, input AdminOrderInput) (Order, error) {
	draft, err := s.draftFromInput(ctx, input)
	if err != nil {
		return Order{}, err
	}
	if draft.Status == "" {
		draft.Status = enums.OrderStatusPending.String()
	}
	created, err := s.backend.CreateOrder(ctx, draft)
	if err != nil {
		return Order{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", created.ID), "orders.admin.created")
	return s.convertOne(ctx, mergeCreated(created, draft)), nil
}

// AdminUpdate rewrites an order's fields. A status change goes through the dedicated
// status endpoint after the record update.
func (s *service) AdminUpdate(ctx context.Context, orderID int64, input AdminOrderInput) (Order, error) {
	current, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	draft, err := s.draftFromInput(ctx, input)
	if err != nil {
		return Order{}, err
	}
	requested := enums.NormalizeOrderStatus(draft.Status)
	draft.Status = current.Status

	updated, err := s.backend.UpdateOrder(ctx, orderID, draft)
	if err != nil {
		return Order{}, err
	}
	updated = mergeCreated(updated, draft)
	updated.ID = orderID

	if requested != "" && requested != statusOf(current) {
		if err := s.backend.ChangeOrderStatus(ctx, orderID, requested); err != nil {
			return Order{}, err
		}
		updated.Status = requested.String()
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", orderID), "orders.admin.updated")
	return s.convertOne(ctx, updated), nil
}

// ToggleDeleted soft-deletes an order or restores a deleted one to PENDIENTE.
func (s *service) ToggleDeleted(ctx context.Context, orderID int64) (Order, error) {
	o, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	next := enums.OrderStatusDeleted
	if statusOf(o) == enums.OrderStatusDeleted {
		next = enums.OrderStatusPending
	}
	if err := s.backend.ChangeOrderStatus(ctx, orderID, next); err != nil {
		return Order{}, err
	}
	o.Status = next.String()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "status": next.String()}), "orders.admin.toggled")
	return s.convertOne(ctx, o), nil
}

func (s *service) draftFromInput(ctx context.Context, input AdminOrderInput) (backend.OrderDraft, error) {
	if err := validation.Struct(input); err != nil {
		return backend.OrderDraft{}, err
	}
	if input.Shipping.IsNegative() {
		return backend.OrderDraft{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"shipping": "must not be negative"})
	}
	status := ""
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return backend.OrderDraft{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"status": err.Error()})
		}
		status = parsed.String()
	}

	lines := make([]backend.OrderLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		lines = append(lines, backend.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	subtotal := decimal.Zero
	if input.Subtotal != nil {
		subtotal = *input.Subtotal
	} else {
		index, err := s.products.Lookup(ctx)
		if err != nil {
			return backend.OrderDraft{}, err
		}
		for _, l := range lines {
			p, ok := index[l.ProductID]
			if !ok {
				return backend.OrderDraft{}, pkgerrors.Newf(pkgerrors.CodeValidation, "product %d not in catalog", l.ProductID)
			}
			subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}
	if subtotal.IsNegative() {
		return backend.OrderDraft{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"subtotal": "must not be negative"})
	}

	placedAt := strings.TrimSpace(input.PlacedAt)
	if placedAt == "" {
		placedAt = time.Now().Format("2006-01-02")
	}
	return backend.OrderDraft{
		UserID:      input.UserID,
		Branch:      strings.TrimSpace(input.Branch),
		AssistantID: input.AssistantID,
		DriverID:    input.DriverID,
		PlacedAt:    placedAt,
		Address:     strings.TrimSpace(input.Address),
		Shipping:    input.Shipping,
		Subtotal:    subtotal,
		Total:       subtotal.Add(input.Shipping),
		Lines:       lines,
		Status:      status,
	}, nil
}

// mergeCreated fills a backend reply that omitted fields from the draft that was sent.
func mergeCreated(o backend.Order, d backend.OrderDraft) backend.Order {
	if o.UserID == 0 && o.Status == "" && len(o.ProductIDs) == 0 && len(o.Lines) == 0 {
		id := o.ID
		o = backend.Order{
			ID:          id,
			UserID:      d.UserID,
			Branch:      d.Branch,
			AssistantID: d.AssistantID,
			DriverID:    d.DriverID,
			PlacedAt:    d.PlacedAt,
			Address:     d.Address,
			Shipping:    d.Shipping.InexactFloat64(),
			Subtotal:    d.Subtotal.InexactFloat64(),
			Total:       d.Total.InexactFloat64(),
			Lines:       d.Lines,
			Status:      d.Status,
		}
	}
	return o
}
