package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vitalixplus/storefront/internal/catalog"
)

// Warning explains why a cart mutation left the cart unchanged. Warnings are
// user-facing notices, not errors.
type Warning string

const (
	WarningNone              Warning = ""
	WarningOutOfStock        Warning = "out_of_stock"
	WarningInsufficientStock Warning = "insufficient_stock"
	WarningNotInCart         Warning = "not_in_cart"
)

// Item is a product snapshot plus the requested quantity (always >= 1).
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered list of items of one client. Product ids are unique.
type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) index(productID int64) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Find returns the item for productID.
func (c *Cart) Find(productID int64) (Item, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Add inserts or increments product. A non-positive qty counts as one unit.
// The cart is left unchanged when the product has no stock or when the combined
// quantity would exceed it. On success the stored snapshot is refreshed.
func (c *Cart) Add(product catalog.Product, qty int) Warning {
	if qty < 1 {
		qty = 1
	}
	if product.Stock <= 0 {
		return WarningOutOfStock
	}
	i := c.index(product.ID)
	existing := 0
	if i >= 0 {
		existing = c.Items[i].Quantity
	}
	if existing+qty > product.Stock {
		return WarningInsufficientStock
	}
	if i >= 0 {
		c.Items[i].Product = product
		c.Items[i].Quantity += qty
		return WarningNone
	}
	c.Items = append(c.Items, Item{Product: product, Quantity: qty})
	return WarningNone
}

// Remove drops the item unconditionally. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	if i := c.index(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity applies delta to an existing item. The result is clamped at zero,
// which removes the item. Increases beyond the last-known stock are rejected.
func (c *Cart) UpdateQuantity(productID int64, delta int) Warning {
	i := c.index(productID)
	if i < 0 {
		return WarningNotInCart
	}
	next := c.Items[i].Quantity + delta
	if delta > 0 && next > c.Items[i].Product.Stock {
		return WarningInsufficientStock
	}
	if next <= 0 {
		c.Remove(productID)
		return WarningNone
	}
	c.Items[i].Quantity = next
	return WarningNone
}

// Subtract takes the quantities of submitted out of the cart. Items that reach
// zero are dropped and items absent from submitted stay as they are.
func (c *Cart) Subtract(submitted Cart) {
	for _, item := range submitted.Items {
		i := c.index(item.Product.ID)
		if i < 0 {
			continue
		}
		if c.Items[i].Quantity <= item.Quantity {
			c.Remove(item.Product.ID)
			continue
		}
		c.Items[i].Quantity -= item.Quantity
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// Total is the sum of price times quantity.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Count is the sum of quantities.
func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Line is an item as rendered to the storefront.
type Line struct {
	Item
	LineTotal decimal.Decimal `json:"line_total"`
}

// Summary is the cart view returned by the API.
type Summary struct {
	Items   []Line          `json:"items"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Warning Warning         `json:"warning,omitempty"`
}

// Summarize renders the cart with derived totals.
func Summarize(c Cart, warning Warning) Summary {
	lines := make([]Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, Line{Item: item, LineTotal: item.LineTotal()})
	}
	return Summary{Items: lines, Count: c.Count(), Total: c.Total(), Warning: warning}
}
