package observers

import (
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
)

// EventKind names a lifecycle event.
type EventKind int

const (
	OrderCreated EventKind = iota + 1
	OrderInfoUpdated
	PositionCreated
	PositionUpdated
	PositionDeleted
	OrderLocked
	OrderReopened
	OrderOrdered
	OrderDelivered
	OrderRevoked
	BeforeOrderArchived
	BeforeOrderDeleted
)

var eventKindNames = map[EventKind]string{
	OrderCreated:        "new-order",
	OrderInfoUpdated:    "info-updated",
	PositionCreated:     "position-created",
	PositionUpdated:     "position-updated",
	PositionDeleted:     "position-deleted",
	OrderLocked:         "locked",
	OrderReopened:       "reopened",
	OrderOrdered:        "ordered",
	OrderDelivered:      "delivered",
	OrderRevoked:        "revoked",
	BeforeOrderArchived: "before-archive",
	BeforeOrderDeleted:  "before-delete",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsPreRemoval reports whether the event fires before the order leaves the
// active set, while its state can still be read.
func (k EventKind) IsPreRemoval() bool {
	return k == BeforeOrderArchived || k == BeforeOrderDeleted
}

// Event carries the post-transition order, or for pre-removal events the
// order as it was just before removal. Order may be nil when only the id is
// known.
type Event struct {
	Kind    EventKind
	OrderID kernel.UUID
	Order   *order.Order
}

// NewOrderEvent creates an event carrying o.
func NewOrderEvent(kind EventKind, o *order.Order) Event {
	return Event{Kind: kind, OrderID: o.ID(), Order: o}
}

// NewIDEvent creates an event that only knows the order id.
func NewIDEvent(kind EventKind, id kernel.UUID) Event {
	return Event{Kind: kind, OrderID: id}
}

var transitionEvents = map[order.Transition]EventKind{
	order.Lock:          OrderLocked,
	order.Reopen:        OrderReopened,
	order.MarkOrdered:   OrderOrdered,
	order.MarkDelivered: OrderDelivered,
	order.Revoke:        OrderRevoked,
}

// EventForTransition returns the post-commit event of t. Archive has none,
// it is announced by BeforeOrderArchived.
func EventForTransition(t order.Transition) (EventKind, bool) {
	kind, ok := transitionEvents[t]
	return kind, ok
}
