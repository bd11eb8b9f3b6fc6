// Package backend is the typed client for the pharmacy REST backend. Inventory and
// images live on the inventory service; users, branches, orders and staff on the core service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vitalixplus/storefront/pkg/config"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/metrics"
)

const (
	errorBodyReadLimit    int64 = 1024
	responseBodyReadLimit int64 = 32 << 20
)

// Client talks to both backend services.
type Client struct {
	httpClient   *http.Client
	inventoryURL string
	coreURL      string
	orderFormat  string
	metrics      *metrics.BackendMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default instrumented HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics records every call on the provided collectors.
func WithMetrics(m *metrics.BackendMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New builds a client from configuration.
func New(cfg config.BackendConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		inventoryURL: strings.TrimRight(strings.TrimSpace(cfg.InventoryURL), "/"),
		coreURL:      strings.TrimRight(strings.TrimSpace(cfg.CoreURL), "/"),
		orderFormat:  normalizeOrderFormat(cfg.OrderFormat),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// OrderFormat reports the wire format used for order product lists.
func (c *Client) OrderFormat() string {
	return c.orderFormat
}

// Ping checks that both services answer HTTP at all. Any response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	for _, base := range []string{c.inventoryURL, c.coreURL} {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, base+"/", nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("reach %s: %w", base, err)
		}
		_ = resp.Body.Close()
	}
	return nil
}

// call describes one backend request.
type call struct {
	op     string
	method string
	base   string
	path   string
	body   any
}

// statusError keeps the backend status for callers that special-case it.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func isStatus(err error, status int) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == status
}

// do executes the call and decodes a JSON body into out when out is non-nil.
// Empty bodies leave out untouched; non-JSON success bodies are ignored.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	raw, err := c.doRaw(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if trimmed := bytes.TrimSpace(raw); !json.Valid(trimmed) || trimmed[0] == '"' {
			// The backend answers some writes with a bare message instead of the record.
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", cl.op))
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, cl call) (raw []byte, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		switch {
		case isStatus(err, http.StatusNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		c.metrics.Observe(cl.op, outcome, time.Since(start))
	}()

	var reader io.Reader
	if cl.body != nil {
		payload, mErr := json.Marshal(cl.body)
		if mErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, mErr, fmt.Sprintf("marshal %s request", cl.op))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, cl.base+cl.path, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", cl.op))
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", cl.op))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		se := &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(msg))}
		if resp.StatusCode == http.StatusNotFound {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, se, fmt.Sprintf("%s: not found", cl.op))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, se, fmt.Sprintf("%s request failed", cl.op))
	}

	raw, err = io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", cl.op))
	}
	return raw, nil
}

// IsNotFound reports whether err came from a backend 404.
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}
