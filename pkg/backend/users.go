package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, call{op: "list_users", method: http.MethodGet, base: c.coreURL, path: "/usuario/all"}, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var out User
	err := c.do(ctx, call{op: "get_user", method: http.MethodGet, base: c.coreURL, path: fmt.Sprintf("/usuario/%d", id)}, &out)
	return out, err
}

// GetUserPassword reads the stored credential through the login lookup endpoint.
// The backend answers with a JSON string, a user object or plain text.
func (c *Client) GetUserPassword(ctx context.Context, id int64) (string, error) {
	raw, err := c.doRaw(ctx, call{op: "get_user_password", method: http.MethodGet, base: c.coreURL, path: fmt.Sprintf("/usuario/login/%d", id)})
	if err != nil {
		return "", err
	}
	return decodePassword(raw), nil
}

func decodePassword(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var obj struct {
		Password string `json:"password"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		return obj.Password
	}
	return strings.TrimSpace(string(trimmed))
}

func (c *Client) CreateUser(ctx context.Context, u User) (User, error) {
	out := u
	err := c.do(ctx, call{op: "create_user", method: http.MethodPost, base: c.coreURL, path: "/usuario", body: u}, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, u User) (User, error) {
	out := u
	err := c.do(ctx, call{op: "update_user", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/usuario/update/%d", id), body: u}, &out)
	if out.ID == 0 {
		out.ID = id
	}
	return out, err
}

// ToggleUserStatus flips the active flag; the backend decides the new value.
func (c *Client) ToggleUserStatus(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "toggle_user", method: http.MethodPut, base: c.coreURL, path: fmt.Sprintf("/usuario/change-status/%d", id)}, nil)
}
