package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vitalixplus/storefront/api/middleware"
	"github.com/vitalixplus/storefront/api/responses"
	"github.com/vitalixplus/storefront/internal/orders"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/redis"
)

const defaultHeartbeat = 25 * time.Second

type eventSubscriber interface {
	Subscribe(ctx context.Context, channel string) (redis.Subscription, error)
}

type driverResolver interface {
	DriverFor(ctx context.Context, displayName string) (backend.Driver, error)
}

// OrderEventsParams wire the server-sent order change feed.
type OrderEventsParams struct {
	Subscriber eventSubscriber
	Channel    string
	Drivers    driverResolver
	Heartbeat  time.Duration
	Logger     *logger.Logger
}

// OrderEvents streams order.status_changed events as server-sent events, filtered
// to what the caller may see. Delivery lags the backend by at most one watcher tick.
func OrderEvents(params OrderEventsParams) http.HandlerFunc {
	logg := params.Logger
	heartbeat := params.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess, ok := middleware.SessionFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
			return
		}
		audience := orders.Audience{Role: sess.Role, UserID: sess.UserID}
		if sess.Role == enums.RoleDriver {
			driver, err := params.Drivers.DriverFor(ctx, sess.DisplayName)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			audience.DriverID = driver.ID
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}
		sub, err := params.Subscriber.Subscribe(ctx, params.Channel)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "subscribe to order events"))
			return
		}
		defer sub.Close()

		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		messages := sub.Messages()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case payload, open := <-messages:
				if !open {
					return
				}
				var change orders.StatusChange
				if err := json.Unmarshal(payload, &change); err != nil {
					if logg != nil {
						logg.Warn(logg.WithField(ctx, "error", err.Error()), "orders.events.undecodable")
					}
					continue
				}
				if !audience.Sees(change) {
					continue
				}
				fmt.Fprintf(w, "id: %d-%d\nevent: %s\ndata: %s\n\n", change.OrderID, change.ObservedAt.UnixMilli(), orders.EventStatusChanged, payload)
				flusher.Flush()
			}
		}
	}
}
