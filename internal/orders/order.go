package orders

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vitalixplus/storefront/internal/catalog"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/enums"
)

// Line is one product of an order, regrouped from the backend's product list.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is the storefront view of a backend order.
type Order struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	Branch       string            `json:"branch"`
	AssistantID  int64             `json:"assistant_id"`
	DriverID     int64             `json:"driver_id"`
	PlacedAt     string            `json:"placed_at"`
	Address      string            `json:"address"`
	Shipping     decimal.Decimal   `json:"shipping"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	Total        decimal.Decimal   `json:"total"`
	Status       enums.OrderStatus `json:"status"`
	StatusBucket string            `json:"status_bucket"`
	Lines        []Line            `json:"lines"`
}

// FromBackend converts a wire order. Products missing from the catalog keep their
// id with an empty name and a zero price.
func FromBackend(o backend.Order, products map[int64]catalog.Product) Order {
	status := enums.NormalizeOrderStatus(o.Status)
	lines := []Line{}
	for _, l := range o.ProductLines() {
		line := Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: decimal.Zero}
		if p, ok := products[l.ProductID]; ok {
			line.Name = p.Name
			line.UnitPrice = p.Price
		}
		lines = append(lines, line)
	}
	return Order{
		ID:           o.ID,
		UserID:       o.UserID,
		Branch:       o.Branch,
		AssistantID:  o.AssistantID,
		DriverID:     o.DriverID,
		PlacedAt:     o.PlacedAt,
		Address:      o.Address,
		Shipping:     decimal.NewFromFloat(o.Shipping),
		Subtotal:     decimal.NewFromFloat(o.Subtotal),
		Total:        decimal.NewFromFloat(o.Total),
		Status:       status,
		StatusBucket: status.Bucket(),
		Lines:        lines,
	}
}

// draftFrom rebuilds the structured draft of an existing order so it can be sent back
// through UpdateOrder.
func draftFrom(o backend.Order) backend.OrderDraft {
	return backend.OrderDraft{
		UserID:      o.UserID,
		Branch:      o.Branch,
		AssistantID: o.AssistantID,
		DriverID:    o.DriverID,
		PlacedAt:    o.PlacedAt,
		Address:     o.Address,
		Shipping:    decimal.NewFromFloat(o.Shipping),
		Subtotal:    decimal.NewFromFloat(o.Subtotal),
		Total:       decimal.NewFromFloat(o.Total),
		Lines:       o.ProductLines(),
		Status:      o.Status,
	}
}

func statusOf(o backend.Order) enums.OrderStatus {
	return enums.NormalizeOrderStatus(o.Status)
}

func sortNewestFirst(list []backend.Order) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID > list[j].ID })
}

func idContains(id int64, q string) bool {
	return strings.Contains(strconv.FormatInt(id, 10), q)
}

// transitions lists the moves an assistant may make from each status.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:  {enums.OrderStatusAccepted, enums.OrderStatusCanceled},
	enums.OrderStatusAccepted: {enums.OrderStatusShipped, enums.OrderStatusCanceled},
	enums.OrderStatusShipped:  {enums.OrderStatusCanceled},
}

// CanTransition reports whether an assistant may move an order from one status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
