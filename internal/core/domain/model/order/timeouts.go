package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
)

// StateTimeouts bound how long an order may rest in a state before
// housekeeping advances or deletes it.
type StateTimeouts struct {
	MaxOpenTime            time.Duration
	MaxUntouchedTime       time.Duration
	LockedBeforeReopened   time.Duration
	OrderedBeforeDelivered time.Duration
	DeliveryBeforeArchive  time.Duration
	RevokedBeforeDeleted   time.Duration
}

// DefaultStateTimeouts returns the timeouts used when none are configured.
func DefaultStateTimeouts() StateTimeouts {
	return StateTimeouts{
		MaxOpenTime:            24 * time.Hour,
		MaxUntouchedTime:       7 * 24 * time.Hour,
		LockedBeforeReopened:   30 * time.Minute,
		OrderedBeforeDelivered: 2 * time.Hour,
		DeliveryBeforeArchive:  6 * time.Hour,
		RevokedBeforeDeleted:   24 * time.Hour,
	}
}

func (t StateTimeouts) Validate() error {
	return errors.Join(
		positive("max_open_time", t.MaxOpenTime),
		positive("max_untouched_time", t.MaxUntouchedTime),
		positive("locked_before_reopened", t.LockedBeforeReopened),
		positive("ordered_before_delivered", t.OrderedBeforeDelivered),
		positive("delivery_before_archive", t.DeliveryBeforeArchive),
		positive("revoked_before_deleted", t.RevokedBeforeDeleted),
	)
}

func positive(name string, d time.Duration) error {
	if d <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is not a positive duration", d))
	}
	return nil
}

// NextTransition returns the instant at which housekeeping will act on o in
// its current state, measured from the order's own transition stamp. ARCHIVED
// orders have no further automatic transition.
func (o *Order) NextTransition(t StateTimeouts) (time.Time, bool) {
	switch o.status {
	case New, Open:
		return o.audit.CreatedAt.Add(t.MaxOpenTime), true
	case Locked:
		return after(o.stamps.LockedAt, t.LockedBeforeReopened)
	case Ordered:
		return after(o.stamps.OrderedAt, t.OrderedBeforeDelivered)
	case Delivered:
		return after(o.stamps.DeliveredAt, t.DeliveryBeforeArchive)
	case Revoked:
		return after(o.stamps.RevokedAt, t.RevokedBeforeDeleted)
	default:
		return time.Time{}, false
	}
}

func after(stamp *time.Time, d time.Duration) (time.Time, bool) {
	if stamp == nil {
		return time.Time{}, false
	}
	return stamp.Add(d), true
}
