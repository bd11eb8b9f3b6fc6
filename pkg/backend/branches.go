package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	err := c.do(ctx, call{op: "list_branches", method: http.MethodGet, base: c.coreURL, path: "/sucursal/all"}, &out)
	return out, err
}

func (c *Client) GetBranch(ctx context.Context, id int64) (Branch, error) {
	var out Branch
	err := c.do(ctx, call{op: "get_branch", method: http.MethodGet, base: c.coreURL, path: fmt.Sprintf("/sucursal/%d", id)}, &out)
	return out, err
}

// SearchBranches matches branches by name on the backend. No match is an empty list.
func (c *Client) SearchBranches(ctx context.Context, name string) ([]Branch, error) {
	var out []Branch
	err := c.do(ctx, call{op: "search_branches", method: http.MethodGet, base: c.coreURL, path: "/sucursal/buscar/" + url.PathEscape(name)}, &out)
	if IsNotFound(err) {
		return []Branch{}, nil
	}
	return out, err
}

func (c *Client) CreateBranch(ctx context.Context, b Branch) (Branch, error) {
	out := b
	err := c.do(ctx, call{op: "create_branch", method: http.MethodPost, base: c.coreURL, path: "/sucursal", body: b}, &out)
	return out, err
}

func (c *Client) UpdateBranch(ctx context.Context, id int64, b Branch) (Branch, error) {
	out := b
	err := c.do(ctx, call{op: "update_branch", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/sucursal/update/%d", id), body: b}, &out)
	if out.ID == 0 {
		out.ID = id
	}
	return out, err
}

func (c *Client) ToggleBranchStatus(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "toggle_branch", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/sucursal/change-status/%d", id)}, nil)
}
