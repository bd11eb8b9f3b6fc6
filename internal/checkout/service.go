package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitalixplus/storefront/internal/cart"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/validation"
)

const placedAtLayout = "2006-01-02"

type cartStore interface {
	Get(ctx context.Context, clientID string) (cart.Cart, error)
	Settle(ctx context.Context, clientID string, submitted cart.Cart) (cart.Cart, error)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, draft backend.OrderDraft) (backend.Order, error)
}

type submissionRecorder interface {
	CheckoutSubmitted(success bool)
}

// Service prices carts and turns them into backend orders.
type Service interface {
	Quote(ctx context.Context, clientID string) (Quote, error)
	Submit(ctx context.Context, input SubmitInput) (*Confirmation, error)
}

// SubmitInput is what the customer confirms on the checkout screen.
// UserID comes from the session, never from the request body.
type SubmitInput struct {
	ClientID string `json:"-"`
	UserID   int64  `json:"-"`
	Address  string `json:"address" validate:"required,trimmed_min=5,max=255"`
	Phone    string `json:"phone" validate:"required,trimmed_min=7,max=32"`
}

// Confirmation describes a submitted order.
type Confirmation struct {
	OrderID  int64               `json:"order_id"`
	Status   enums.OrderStatus   `json:"status"`
	PlacedAt string              `json:"placed_at"`
	Address  string              `json:"address"`
	Branch   string              `json:"branch"`
	Lines    []backend.OrderLine `json:"lines"`
	Quote    Quote               `json:"quote"`
}

type service struct {
	carts   cartStore
	orders  orderCreator
	policy  ShippingPolicy
	cfg     config.CheckoutConfig
	metrics submissionRecorder
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the checkout service. metrics may be nil.
func NewService(carts cartStore, orders orderCreator, cfg config.CheckoutConfig, metrics submissionRecorder, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	policy, err := NewShippingPolicy(cfg)
	if err != nil {
		return nil, err
	}
	return &service{
		carts:   carts,
		orders:  orders,
		policy:  policy,
		cfg:     cfg,
		metrics: metrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Quote(ctx context.Context, clientID string) (Quote, error) {
	c, err := s.carts.Get(ctx, clientID)
	if err != nil {
		return Quote{}, err
	}
	return s.policy.Quote(c), nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*Confirmation, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to place an order")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote := s.policy.Quote(c)
	lines := make([]backend.OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, backend.OrderLine{ProductID: item.Product.ID, Quantity: item.Quantity})
	}
	draft := backend.OrderDraft{
		UserID:      input.UserID,
		Branch:      s.cfg.DefaultBranch,
		AssistantID: s.cfg.DefaultAssistantID,
		DriverID:    s.cfg.DefaultDriverID,
		PlacedAt:    s.now().Format(placedAtLayout),
		Address:     strings.TrimSpace(input.Address),
		Shipping:    quote.Shipping,
		Subtotal:    quote.Subtotal,
		Total:       quote.Total,
		Lines:       lines,
		Status:      enums.OrderStatusPending.String(),
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"client_id": input.ClientID,
		"user_id":   input.UserID,
		"items":     quote.Count,
		"total":     draft.Total.String(),
	})

	order, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		s.record(false)
		s.logg.Error(ctx, "checkout.submit.failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order could not be submitted, please try again")
	}
	s.record(true)

	if _, err := s.carts.Settle(ctx, input.ClientID, c); err != nil {
		// The order exists upstream; a stale cart is the lesser problem.
		s.logg.Error(ctx, "checkout.cart_settle.failed", err)
	}

	ctx = s.logg.WithField(ctx, "order_id", order.ID)
	s.logg.Info(ctx, "checkout.submitted")

	return &Confirmation{
		OrderID:  order.ID,
		Status:   enums.OrderStatusPending,
		PlacedAt: draft.PlacedAt,
		Address:  draft.Address,
		Branch:   draft.Branch,
		Lines:    lines,
		Quote:    quote,
	}, nil
}

func (s *service) record(success bool) {
	if s.metrics != nil {
		s.metrics.CheckoutSubmitted(success)
	}
}
