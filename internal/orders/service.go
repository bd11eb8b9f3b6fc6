package orders

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vitalixplus/storefront/internal/catalog"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/enums"
	"github.com/vitalixplus/storefront/pkg/logger"
)

type orderBackend interface {
	ListOrders(ctx context.Context) ([]backend.Order, error)
	GetOrder(ctx context.Context, id int64) (backend.Order, error)
	CreateOrder(ctx context.Context, draft backend.OrderDraft) (backend.Order, error)
	UpdateOrder(ctx context.Context, id int64, draft backend.OrderDraft) (backend.Order, error)
	ChangeOrderStatus(ctx context.Context, id int64, status enums.OrderStatus) error
	ListDrivers(ctx context.Context) ([]backend.Driver, error)
	GetDriver(ctx context.Context, id int64) (backend.Driver, error)
	ListUsers(ctx context.Context) ([]backend.User, error)
}

type productIndex interface {
	Lookup(ctx context.Context) (map[int64]catalog.Product, error)
}

// Service covers order tracking for customers and the operational boards of staff.
type Service interface {
	ListForUser(ctx context.Context, userID int64) ([]Order, error)
	GetForUser(ctx context.Context, userID, orderID int64) (Order, error)

	AssistantBoard(ctx context.Context, filter BoardFilter) (*AssistantBoard, error)
	Transition(ctx context.Context, orderID int64, to enums.OrderStatus) (Order, error)
	AssignDriver(ctx context.Context, orderID, driverID int64) (Order, error)

	DriverFor(ctx context.Context, displayName string) (backend.Driver, error)
	DriverBoard(ctx context.Context, driverID int64) (*DriverBoard, error)
	MarkDelivered(ctx context.Context, driverID, orderID int64) (Order, error)

	AdminList(ctx context.Context, filter AdminFilter) ([]Order, error)
	AdminCreate(ctx context.Context, input AdminOrderInput) (Order, error)
	AdminUpdate(ctx context.Context, orderID int64, input AdminOrderInput) (Order, error)
	ToggleDeleted(ctx context.Context, orderID int64) (Order, error)
}

type service struct {
	backend  orderBackend
	products productIndex
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

// NewService builds the orders service. cfg supplies the placeholder driver id used by
// freshly submitted orders, which counts as "no driver assigned".
func NewService(b orderBackend, products productIndex, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if b == nil {
		return nil, fmt.Errorf("order backend required")
	}
	if products == nil {
		return nil, fmt.Errorf("product index required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{backend: b, products: products, cfg: cfg, logg: logg}, nil
}

// hasDriver is false for the zero id and for the placeholder driver of new orders.
func (s *service) hasDriver(driverID int64) bool {
	return driverID > 0 && driverID != s.cfg.DefaultDriverID
}

// catalogIndex degrades to an empty index so order views survive an inventory outage.
func (s *service) catalogIndex(ctx context.Context) map[int64]catalog.Product {
	index, err := s.products.Lookup(ctx)
	if err != nil {
		s.logg.Error(ctx, "orders.catalog_lookup.failed", err)
		return map[int64]catalog.Product{}
	}
	return index
}

func (s *service) convert(ctx context.Context, list []backend.Order) []Order {
	index := s.catalogIndex(ctx)
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, FromBackend(o, index))
	}
	return out
}

func (s *service) convertOne(ctx context.Context, o backend.Order) Order {
	return FromBackend(o, s.catalogIndex(ctx))
}

// snapshot is one concurrent read of everything a dashboard needs.
type snapshot struct {
	orders  []backend.Order
	drivers []backend.Driver
	users   []backend.User
}

func (s *service) loadSnapshot(ctx context.Context, withUsers bool) (*snapshot, error) {
	snap := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.backend.ListOrders(gctx)
		snap.orders = list
		return err
	})
	g.Go(func() error {
		list, err := s.backend.ListDrivers(gctx)
		snap.drivers = list
		return err
	})
	if withUsers {
		g.Go(func() error {
			list, err := s.backend.ListUsers(gctx)
			snap.users = list
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
