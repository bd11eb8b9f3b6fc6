package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/vitalixplus/storefront/internal/orders"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/storage"
)

// OrderStatusSnapshotKey holds the last observed status per order.
const OrderStatusSnapshotKey = "watcher:order_statuses"

type orderLister interface {
	ListOrders(ctx context.Context) ([]backend.Order, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// OrderStatusJobParams configure the order status poll.
type OrderStatusJobParams struct {
	Logger    *logger.Logger
	Orders    orderLister
	Store     storage.Store
	Publisher eventPublisher
	Channel   string
}

// NewOrderStatusJob builds the job that turns backend polling into change events.
func NewOrderStatusJob(params OrderStatusJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order lister required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	if params.Channel == "" {
		return nil, fmt.Errorf("channel required")
	}
	return &orderStatusJob{
		logg:      params.Logger,
		orders:    params.Orders,
		store:     params.Store,
		publisher: params.Publisher,
		channel:   params.Channel,
		now:       time.Now,
	}, nil
}

type orderStatusJob struct {
	logg      *logger.Logger
	orders    orderLister
	store     storage.Store
	publisher eventPublisher
	channel   string
	now       func() time.Time
}

func (j *orderStatusJob) Name() string { return "order_status_poll" }

// Run diffs the backend order list against the stored snapshot and publishes one
// event per status change. A change whose publish fails keeps its old status in
// the snapshot so the next tick retries it.
func (j *orderStatusJob) Run(ctx context.Context) error {
	current, err := j.orders.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	prev, err := j.loadSnapshot(ctx)
	if err != nil {
		return err
	}

	changes, next := orders.DiffStatuses(prev, current, j.now())
	var errs error
	published := 0
	for _, change := range changes {
		if err := j.publish(ctx, change); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("publish order %d: %w", change.OrderID, err))
			next[change.OrderID] = change.OldStatus
			continue
		}
		published++
	}

	if err := storage.PutJSON(ctx, j.store, OrderStatusSnapshotKey, next, 0); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("save snapshot: %w", err))
	}
	if len(changes) > 0 || prev == nil {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"orders":    len(current),
			"changes":   len(changes),
			"published": published,
			"seeded":    prev == nil,
		}), "watcher.order_status.polled")
	}
	return errs
}

func (j *orderStatusJob) loadSnapshot(ctx context.Context) (orders.StatusSnapshot, error) {
	var snap orders.StatusSnapshot
	err := storage.GetJSON(ctx, j.store, OrderStatusSnapshotKey, &snap)
	switch {
	case err == nil:
		if snap == nil {
			snap = orders.StatusSnapshot{}
		}
		return snap, nil
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case errors.Is(err, storage.ErrDecode):
		j.logg.Warn(j.logg.WithField(ctx, "error", err.Error()), "watcher.order_status.snapshot_reset")
		return nil, nil
	}
	return nil, fmt.Errorf("load snapshot: %w", err)
}

func (j *orderStatusJob) publish(ctx context.Context, change orders.StatusChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return j.publisher.Publish(ctx, j.channel, payload)
}
