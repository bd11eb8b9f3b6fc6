package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitalixplus/storefront/pkg/enums"
)

// ListOrders returns every order. The backend answers 404 when there are none.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, call{op: "list_orders", method: http.MethodGet, base: c.coreURL, path: "/pedido/all"}, &out)
	if IsNotFound(err) {
		return []Order{}, nil
	}
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id int64) (Order, error) {
	var out Order
	err := c.do(ctx, call{op: "get_order", method: http.MethodGet, base: c.coreURL, path: fmt.Sprintf("/pedido/%d", id)}, &out)
	return out, err
}

// CreateOrder encodes the draft in the configured wire format and posts it.
func (c *Client) CreateOrder(ctx context.Context, d OrderDraft) (Order, error) {
	payload := encodeOrder(d, c.orderFormat)
	out := payload
	err := c.do(ctx, call{op: "create_order", method: http.MethodPost, base: c.coreURL, path: "/pedido", body: payload}, &out)
	return out, err
}

// UpdateOrder replaces the order's data fields. Status changes go through ChangeOrderStatus.
func (c *Client) UpdateOrder(ctx context.Context, id int64, d OrderDraft) (Order, error) {
	payload := encodeOrder(d, c.orderFormat)
	payload.ID = id
	out := payload
	err := c.do(ctx, call{op: "update_order", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/pedido/update/%d", id), body: payload}, &out)
	return out, err
}

// ChangeOrderStatus sends the upper-case status as a bare JSON string body.
func (c *Client) ChangeOrderStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	return c.do(ctx, call{op: "change_order_status", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/pedido/change-status/%d", id), body: status.String()}, nil)
}
