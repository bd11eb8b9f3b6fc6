package orders

import (
	"sort"
	"time"

	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/enums"
)

// EventStatusChanged names the change feed event.
const EventStatusChanged = "order.status_changed"

// StatusChange is published when the watcher sees an order move between statuses.
type StatusChange struct {
	Event      string    `json:"event"`
	OrderID    int64     `json:"order_id"`
	UserID     int64     `json:"user_id"`
	DriverID   int64     `json:"driver_id,omitempty"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	ObservedAt time.Time `json:"observed_at"`
}

// StatusSnapshot maps order id to the last observed raw status.
type StatusSnapshot map[int64]string

// DiffStatuses compares the current order list against prev. It returns the
// changes in ascending order id plus the snapshot to persist next. Orders seen
// for the first time are recorded without an event.
func DiffStatuses(prev StatusSnapshot, current []backend.Order, observedAt time.Time) ([]StatusChange, StatusSnapshot) {
	next := make(StatusSnapshot, len(current))
	var changes []StatusChange
	for _, o := range current {
		next[o.ID] = o.Status
		old, seen := prev[o.ID]
		if !seen || old == o.Status {
			continue
		}
		changes = append(changes, StatusChange{
			Event:      EventStatusChanged,
			OrderID:    o.ID,
			UserID:     o.UserID,
			DriverID:   o.DriverID,
			OldStatus:  old,
			NewStatus:  o.Status,
			ObservedAt: observedAt.UTC(),
		})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].OrderID < changes[j].OrderID })
	return changes, next
}

// Audience is the caller a change feed is filtered for.
type Audience struct {
	Role     enums.Role
	UserID   int64
	DriverID int64
}

// Sees reports whether the audience may receive change.
func (a Audience) Sees(change StatusChange) bool {
	switch a.Role {
	case enums.RoleAdmin, enums.RoleAssistant:
		return true
	case enums.RoleDriver:
		return a.DriverID > 0 && change.DriverID == a.DriverID
	case enums.RoleUser:
		return a.UserID > 0 && change.UserID == a.UserID
	}
	return false
}
