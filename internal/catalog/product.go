package catalog

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vitalixplus/storefront/pkg/backend"
)

// DefaultCategory is assigned to inventory records that carry no category.
const DefaultCategory = "General"

// Product is the storefront view of an inventory record.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// FromRaw normalizes one backend inventory record.
func FromRaw(raw backend.RawProduct) Product {
	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = DefaultCategory
	}
	stock := int(math.Floor(raw.Stock))
	if stock < 0 {
		stock = 0
	}
	return Product{
		ID:       raw.Code,
		Name:     strings.TrimSpace(raw.Description),
		Category: category,
		Price:    decimal.NewFromFloat(raw.TotalPrice),
		Stock:    stock,
	}
}

// Normalize converts a full inventory listing, preserving backend order.
func Normalize(raws []backend.RawProduct) []Product {
	out := make([]Product, 0, len(raws))
	for _, raw := range raws {
		out = append(out, FromRaw(raw))
	}
	return out
}
