package orders

import (
	"context"
	"sort"
	"strings"

	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
)

// DriverBoard is the delivery list of one driver.
type DriverBoard struct {
	Driver    DriverLoad   `json:"driver"`
	Orders    []BoardOrder `json:"orders"`
	Pending   int          `json:"pending"`
	Delivered int          `json:"delivered"`
}

// DriverFor links a driver session to its backend driver record by full name.
func (s *service) DriverFor(ctx context.Context, displayName string) (backend.Driver, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return backend.Driver{}, pkgerrors.New(pkgerrors.CodeForbidden, "driver account not linked")
	}
	drivers, err := s.backend.ListDrivers(ctx)
	if err != nil {
		return backend.Driver{}, err
	}
	for _, d := range drivers {
		if s.hasDriver(d.ID) && strings.EqualFold(d.FullName(), name) {
			return d, nil
		}
	}
	return backend.Driver{}, pkgerrors.New(pkgerrors.CodeForbidden, "driver account not linked")
}

func (s *service) DriverBoard(ctx context.Context, driverID int64) (*DriverBoard, error) {
	snap, err := s.loadSnapshot(ctx, true)
	if err != nil {
		return nil, err
	}

	mine := []backend.Order{}
	for _, o := range snap.orders {
		if !s.hasDriver(o.DriverID) || o.DriverID != driverID {
			continue
		}
		if st := statusOf(o); st == enums.OrderStatusDeleted || st == enums.OrderStatusCanceled {
			continue
		}
		mine = append(mine, o)
	}
	sort.SliceStable(mine, func(i, j int) bool {
		di := statusOf(mine[i]) == enums.OrderStatusDelivered
		dj := statusOf(mine[j]) == enums.OrderStatusDelivered
		if di != dj {
			return !di
		}
		return mine[i].ID > mine[j].ID
	})

	clients := clientIndex(snap.users)
	board := &DriverBoard{Orders: make([]BoardOrder, 0, len(mine))}
	if d, ok := driverIndex(snap.drivers)[driverID]; ok {
		board.Driver = DriverLoad{ID: d.ID, Name: d.FullName(), Active: d.IsActive()}
	}
	for _, o := range s.convert(ctx, mine) {
		row := BoardOrder{Order: o, ClientName: clientName(clients, o.UserID), DriverName: board.Driver.Name}
		if u, ok := clients[o.UserID]; ok {
			row.ClientPhone = u.Phone
		}
		if o.Status == enums.OrderStatusDelivered {
			board.Delivered++
		} else {
			board.Pending++
		}
		board.Orders = append(board.Orders, row)
	}
	board.Driver.Busy = board.Pending > 0
	return board, nil
}

// MarkDelivered closes a shipped order assigned to the driver.
func (s *service) MarkDelivered(ctx context.Context, driverID, orderID int64) (Order, error) {
	o, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !s.hasDriver(o.DriverID) || o.DriverID != driverID {
		return Order{}, pkgerrors.Newf(pkgerrors.CodeForbidden, "order %d is not assigned to you", orderID)
	}
	if st := statusOf(o); st != enums.OrderStatusShipped {
		return Order{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "only %s orders can be delivered", enums.OrderStatusShipped).
			WithDetails(map[string]any{"status": st})
	}
	if err := s.backend.ChangeOrderStatus(ctx, orderID, enums.OrderStatusDelivered); err != nil {
		return Order{}, err
	}
	o.Status = enums.OrderStatusDelivered.String()

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "driver_id": driverID})
	s.logg.Info(ctx, "orders.delivered")
	return s.convertOne(ctx, o), nil
}
