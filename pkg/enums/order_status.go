package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the backend's order lifecycle state. Values are stored upper-case.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDIENTE"
	OrderStatusAccepted  OrderStatus = "ACEPTADO"
	OrderStatusShipped   OrderStatus = "ENVIADO"
	OrderStatusDelivered OrderStatus = "ENTREGADO"
	OrderStatusCanceled  OrderStatus = "CANCELADO"
	OrderStatusDeleted   OrderStatus = "BORRADO"
)

// OrderStatusOther is the display bucket for statuses the storefront does not know.
const OrderStatusOther = "OTRO"

// OrderStatusAll is the filter value that disables status filtering.
const OrderStatusAll = "TODOS"

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
	OrderStatusDeleted,
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Bucket is the display group: the status itself when known, OTRO otherwise.
func (s OrderStatus) Bucket() string {
	if s.IsValid() {
		return string(s)
	}
	return OrderStatusOther
}

// Active orders still need operational attention.
func (s OrderStatus) Active() bool {
	return s != OrderStatusDeleted && s != OrderStatusDelivered
}

// NormalizeOrderStatus upper-cases and trims raw backend input without rejecting unknown values.
func NormalizeOrderStatus(value string) OrderStatus {
	return OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
}

// ParseOrderStatus converts raw input into a known OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := NormalizeOrderStatus(value)
	if status.IsValid() {
		return status, nil
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
