package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vitalixplus/storefront/internal/cart"
	"github.com/vitalixplus/storefront/pkg/config"
)

// ShippingPolicy charges a flat fee unless the subtotal reaches the free-shipping threshold.
type ShippingPolicy struct {
	Threshold decimal.Decimal
	Fee       decimal.Decimal
}

// NewShippingPolicy parses the configured amounts.
func NewShippingPolicy(cfg config.CheckoutConfig) (ShippingPolicy, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return ShippingPolicy{}, fmt.Errorf("free shipping threshold: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.ShippingFee)
	if err != nil {
		return ShippingPolicy{}, fmt.Errorf("shipping fee: %w", err)
	}
	if threshold.IsNegative() || fee.IsNegative() {
		return ShippingPolicy{}, fmt.Errorf("shipping amounts cannot be negative")
	}
	return ShippingPolicy{Threshold: threshold, Fee: fee}, nil
}

// Shipping returns the cost of delivering an order of the given subtotal.
func (p ShippingPolicy) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(p.Threshold) {
		return p.Fee
	}
	return decimal.Zero
}

// Quote is the price breakdown of a cart.
type Quote struct {
	Count            int             `json:"count"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Shipping         decimal.Decimal `json:"shipping"`
	Total            decimal.Decimal `json:"total"`
	FreeShipping     bool            `json:"free_shipping"`
	RemainingForFree decimal.Decimal `json:"remaining_for_free_shipping"`
}

// Quote prices c under the policy.
func (p ShippingPolicy) Quote(c cart.Cart) Quote {
	subtotal := c.Total()
	shipping := p.Shipping(subtotal)
	remaining := p.Threshold.Sub(subtotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return Quote{
		Count:            c.Count(),
		Subtotal:         subtotal,
		Shipping:         shipping,
		Total:            subtotal.Add(shipping),
		FreeShipping:     shipping.IsZero(),
		RemainingForFree: remaining,
	}
}
