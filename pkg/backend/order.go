package backend

import (
	"github.com/shopspring/decimal"

	"github.com/vitalixplus/storefront/pkg/config"
)

// OrderLine is one product with its unit count.
type OrderLine struct {
	ProductID int64 `json:"idProducto"`
	Quantity  int   `json:"cantidad"`
}

// Order is the backend "pedido" record. Depending on the deployment the product list
// travels flattened (one id per unit in ProductIDs) or as Lines.
type Order struct {
	ID          int64       `json:"idPedido,omitempty"`
	UserID      int64       `json:"idUsuario"`
	Branch      string      `json:"nombreSucursal,omitempty"`
	AssistantID int64       `json:"idAuxiliar,omitempty"`
	DriverID    int64       `json:"idDomiciliario,omitempty"`
	PlacedAt    string      `json:"fechaPedido,omitempty"`
	Address     string      `json:"direccionEntrega,omitempty"`
	Shipping    float64     `json:"costoEnvio"`
	Subtotal    float64     `json:"costoPedido"`
	ProductIDs  []int64     `json:"listaDeProductos"`
	Lines       []OrderLine `json:"lineas,omitempty"`
	Total       float64     `json:"totalPagar"`
	Status      string      `json:"estado,omitempty"`
}

// OrderDraft is the structured order the storefront builds before it hits the wire.
type OrderDraft struct {
	UserID      int64
	Branch      string
	AssistantID int64
	DriverID    int64
	PlacedAt    string
	Address     string
	Shipping    decimal.Decimal
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
	Lines       []OrderLine
	Status      string
}

// ProductLines regroups the order's products into lines, preserving first-seen order.
// Explicit Lines win over the flattened list when both are present.
func (o Order) ProductLines() []OrderLine {
	if len(o.Lines) > 0 {
		out := make([]OrderLine, 0, len(o.Lines))
		for _, l := range o.Lines {
			if l.Quantity > 0 {
				out = append(out, l)
			}
		}
		return out
	}
	index := map[int64]int{}
	out := []OrderLine{}
	for _, id := range o.ProductIDs {
		if i, ok := index[id]; ok {
			out[i].Quantity++
			continue
		}
		index[id] = len(out)
		out = append(out, OrderLine{ProductID: id, Quantity: 1})
	}
	return out
}

// encodeOrder converts a draft into the wire record for the given format.
func encodeOrder(d OrderDraft, format string) Order {
	o := Order{
		UserID:      d.UserID,
		Branch:      d.Branch,
		AssistantID: d.AssistantID,
		DriverID:    d.DriverID,
		PlacedAt:    d.PlacedAt,
		Address:     d.Address,
		Shipping:    d.Shipping.InexactFloat64(),
		Subtotal:    d.Subtotal.InexactFloat64(),
		Total:       d.Total.InexactFloat64(),
		Status:      d.Status,
		ProductIDs:  []int64{},
	}
	if format == config.OrderFormatLines {
		o.Lines = append([]OrderLine(nil), d.Lines...)
		return o
	}
	for _, l := range d.Lines {
		for i := 0; i < l.Quantity; i++ {
			o.ProductIDs = append(o.ProductIDs, l.ProductID)
		}
	}
	return o
}

func normalizeOrderFormat(format string) string {
	if format == config.OrderFormatLines {
		return config.OrderFormatLines
	}
	return config.OrderFormatFlat
}
