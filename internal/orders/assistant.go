package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
)

// BoardFilter narrows the assistant board. Status "TODOS" or empty means every active status.
type BoardFilter struct {
	Status string
	Search string
}

// BoardOrder is an order row enriched with the names staff need.
type BoardOrder struct {
	Order
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone,omitempty"`
	DriverName  string `json:"driver_name,omitempty"`
}

// DriverLoad tells assistants which drivers are already on a delivery.
type DriverLoad struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Busy   bool   `json:"busy"`
}

// AssistantBoard is the assistant's operational view.
type AssistantBoard struct {
	Orders  []BoardOrder `json:"orders"`
	Drivers []DriverLoad `json:"drivers"`
}

func (s *service) AssistantBoard(ctx context.Context, filter BoardFilter) (*AssistantBoard, error) {
	snap, err := s.loadSnapshot(ctx, true)
	if err != nil {
		return nil, err
	}

	status := enums.NormalizeOrderStatus(filter.Status)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	clients := clientIndex(snap.users)
	drivers := driverIndex(snap.drivers)

	rows := []backend.Order{}
	for _, o := range snap.orders {
		st := statusOf(o)
		if !st.Active() {
			continue
		}
		if status != "" && status != enums.OrderStatusAll && st != status {
			continue
		}
		if search != "" && !idContains(o.ID, search) && !strings.Contains(strings.ToLower(clientName(clients, o.UserID)), search) {
			continue
		}
		rows = append(rows, o)
	}
	sortNewestFirst(rows)

	converted := s.convert(ctx, rows)
	board := &AssistantBoard{Orders: make([]BoardOrder, 0, len(converted)), Drivers: s.driverLoads(snap)}
	for i, o := range converted {
		row := BoardOrder{Order: o, ClientName: clientName(clients, o.UserID)}
		if u, ok := clients[o.UserID]; ok {
			row.ClientPhone = u.Phone
		}
		if s.hasDriver(rows[i].DriverID) {
			if d, ok := drivers[rows[i].DriverID]; ok {
				row.DriverName = d.FullName()
			}
		}
		board.Orders = append(board.Orders, row)
	}
	return board, nil
}

func (s *service) driverLoads(snap *snapshot) []DriverLoad {
	busy := map[int64]bool{}
	for _, o := range snap.orders {
		st := statusOf(o)
		if s.hasDriver(o.DriverID) && (st == enums.OrderStatusAccepted || st == enums.OrderStatusShipped) {
			busy[o.DriverID] = true
		}
	}
	out := make([]DriverLoad, 0, len(snap.drivers))
	for _, d := range snap.drivers {
		if d.ID == 0 {
			continue
		}
		out = append(out, DriverLoad{ID: d.ID, Name: d.FullName(), Active: d.IsActive(), Busy: busy[d.ID]})
	}
	return out
}

// Transition applies an assistant status change.
func (s *service) Transition(ctx context.Context, orderID int64, to enums.OrderStatus) (Order, error) {
	to = enums.NormalizeOrderStatus(to.String())
	o, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	from := statusOf(o)
	if !CanTransition(from, to) {
		return Order{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", from, to).
			WithDetails(map[string]any{"from": from, "to": to})
	}
	if to == enums.OrderStatusShipped && !s.hasDriver(o.DriverID) {
		return Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, "assign a driver before shipping").
			WithDetails(map[string]any{"from": from, "to": to})
	}
	if err := s.backend.ChangeOrderStatus(ctx, orderID, to); err != nil {
		return Order{}, err
	}
	o.Status = to.String()

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "from": from.String(), "to": to.String()})
	s.logg.Info(ctx, "orders.status.changed")
	return s.convertOne(ctx, o), nil
}

// AssignDriver sets the driver of an accepted order.
func (s *service) AssignDriver(ctx context.Context, orderID, driverID int64) (Order, error) {
	if driverID <= 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	o, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if st := statusOf(o); st != enums.OrderStatusAccepted {
		return Order{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "drivers can only be assigned to %s orders", enums.OrderStatusAccepted).
			WithDetails(map[string]any{"status": st})
	}
	driver, err := s.backend.GetDriver(ctx, driverID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return Order{}, pkgerrors.Newf(pkgerrors.CodeValidation, "driver %d does not exist", driverID)
		}
		return Order{}, err
	}
	if driver.IsDeactivated() {
		return Order{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "driver %d is inactive", driverID)
	}

	draft := draftFrom(o)
	draft.DriverID = driverID
	updated, err := s.backend.UpdateOrder(ctx, orderID, draft)
	if err != nil {
		return Order{}, err
	}
	if updated.ID == 0 {
		o.DriverID = driverID
		updated = o
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "driver_id": driverID})
	s.logg.Info(ctx, "orders.driver.assigned")
	return s.convertOne(ctx, updated), nil
}

func clientIndex(users []backend.User) map[int64]backend.User {
	index := make(map[int64]backend.User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index
}

func driverIndex(drivers []backend.Driver) map[int64]backend.Driver {
	index := make(map[int64]backend.Driver, len(drivers))
	for _, d := range drivers {
		index[d.ID] = d
	}
	return index
}

func clientName(clients map[int64]backend.User, id int64) string {
	if u, ok := clients[id]; ok {
		if name := u.FullName(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Cliente #%d", id)
}
