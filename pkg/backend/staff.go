package backend

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListDrivers(ctx context.Context) ([]Driver, error) {
	var out []Driver
	err := c.do(ctx, call{op: "list_drivers", method: http.MethodGet, base: c.coreURL, path: "/domiciliario/all"}, &out)
	return out, err
}

func (c *Client) GetDriver(ctx context.Context, id int64) (Driver, error) {
	var out Driver
	err := c.do(ctx, call{op: "get_driver", method: http.MethodGet, base: c.coreURL, path: fmt.Sprintf("/domiciliario/%d", id)}, &out)
	return out, err
}

func (c *Client) CreateDriver(ctx context.Context, d Driver) (Driver, error) {
	out := d
	err := c.do(ctx, call{op: "create_driver", method: http.MethodPost, base: c.coreURL, path: "/domiciliario", body: d}, &out)
	return out, err
}

func (c *Client) UpdateDriver(ctx context.Context, id int64, d Driver) (Driver, error) {
	out := d
	err := c.do(ctx, call{op: "update_driver", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/domiciliario/update/%d", id), body: d}, &out)
	if out.ID == 0 {
		out.ID = id
	}
	return out, err
}

func (c *Client) ToggleDriverStatus(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "toggle_driver", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/domiciliario/change-status/%d", id)}, nil)
}

func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	var out []Assistant
	err := c.do(ctx, call{op: "list_assistants", method: http.MethodGet, base: c.coreURL, path: "/auxiliar/all"}, &out)
	return out, err
}

func (c *Client) GetAssistant(ctx context.Context, id int64) (Assistant, error) {
	var out Assistant
	err := c.do(ctx, call{op: "get_assistant", method: http.MethodGet, base: c.coreURL, path: fmt.Sprintf("/auxiliar/%d", id)}, &out)
	return out, err
}

func (c *Client) CreateAssistant(ctx context.Context, a Assistant) (Assistant, error) {
	out := a
	err := c.do(ctx, call{op: "create_assistant", method: http.MethodPost, base: c.coreURL, path: "/auxiliar", body: a}, &out)
	return out, err
}

func (c *Client) UpdateAssistant(ctx context.Context, id int64, a Assistant) (Assistant, error) {
	out := a
	err := c.do(ctx, call{op: "update_assistant", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/auxiliar/update/%d", id), body: a}, &out)
	if out.ID == 0 {
		out.ID = id
	}
	return out, err
}

func (c *Client) ToggleAssistantStatus(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "toggle_assistant", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/auxiliar/change-status/%d", id)}, nil)
}
