package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// DefaultActor is recorded for changes made through the API while
	// callers are anonymous.
	DefaultActor = kernel.MustUUIDFromString("00000000-0000-0000-0000-000000000001")

	// HousekeepingActor is recorded for changes made by the scheduler.
	HousekeepingActor = kernel.MustUUIDFromString("00000000-0000-0000-0000-00000000000f")
)

// Audit holds who created and last changed a record, and when.
type Audit struct {
	CreatedAt time.Time
	CreatedBy kernel.UUID
	UpdatedAt time.Time
	UpdatedBy kernel.UUID
}

// StateStamps are the instants at which the order entered the corresponding
// state. Reopening clears LockedAt.
type StateStamps struct {
	LockedAt    *time.Time
	OrderedAt   *time.Time
	DeliveredAt *time.Time
	RevokedAt   *time.Time
	ArchivedAt  *time.Time
}

// Order is the aggregate root of a group meal order for one restaurant and day.
type Order struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	targetDate   time.Time
	status       Status
	version      kernel.UUID
	audit        Audit
	stamps       StateStamps
	info         Info
	positions    []*Position

	isConstructed bool
}

// NewOrder opens an empty order in state NEW with a fresh version token.
func NewOrder(id, restaurantID kernel.UUID, targetDate time.Time, actor kernel.UUID, now time.Time) (*Order, error) {
	if err := errors.Join(id.Validate(), restaurantID.Validate(), actor.Validate(), validateDate(targetDate)); err != nil {
		return nil, err
	}

	return &Order{
		id:           id,
		restaurantID: restaurantID,
		targetDate:   NormalizeDate(targetDate),
		status:       New,
		version:      kernel.NewUUID(),
		audit: Audit{
			CreatedAt: now,
			CreatedBy: actor,
			UpdatedAt: now,
			UpdatedBy: actor,
		},
		isConstructed: true,
	}, nil
}

// RestoreOrder rebuilds an order from persisted state. Positions are sorted
// by ordinal.
func RestoreOrder(
	id, restaurantID kernel.UUID,
	targetDate time.Time,
	status Status,
	version kernel.UUID,
	audit Audit,
	stamps StateStamps,
	info Info,
	positions []*Position,
) (*Order, error) {
	if err := errors.Join(id.Validate(), restaurantID.Validate(), version.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	sorted := slices.Clone(positions)
	slices.SortStableFunc(sorted, func(a, b *Position) int { return a.ordinal - b.ordinal })

	return &Order{
		id:            id,
		restaurantID:  restaurantID,
		targetDate:    NormalizeDate(targetDate),
		status:        status,
		version:       version,
		audit:         audit,
		stamps:        stamps,
		info:          info,
		positions:     sorted,
		isConstructed: true,
	}, nil
}

// NormalizeDate strips the time of day; target dates are calendar days.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateDate(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("targetDate")
	}
	return nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) TargetDate() time.Time {
	return o.targetDate
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Version() kernel.UUID {
	return o.version
}

func (o *Order) Audit() Audit {
	return o.audit
}

func (o *Order) Stamps() StateStamps {
	return o.stamps
}

func (o *Order) Info() Info {
	return o.info
}

// Positions returns the line items in insertion order; the slice index is the
// display index.
func (o *Order) Positions() []*Position {
	return slices.Clone(o.positions)
}

func (o *Order) Position(id kernel.UUID) (*Position, error) {
	idx := o.positionIndex(id)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("order position", id.String())
	}
	return o.positions[idx], nil
}

// CheckVersion fails with a ConcurrentUpdateError when expected is set and
// differs from the current version.
func (o *Order) CheckVersion(expected *kernel.UUID) error {
	if expected == nil || expected.IsEqual(o.version) {
		return nil
	}
	return errs.NewConcurrentUpdateError("order", o.id.String(), expected.String(), o.version.String())
}

// Touch replaces the version token and the update audit after a successful
// mutation.
func (o *Order) Touch(version, actor kernel.UUID, now time.Time) {
	o.version = version
	o.audit.UpdatedAt = now
	o.audit.UpdatedBy = actor
}

func (o *Order) UpdateInfo(info Info) error {
	if err := o.status.require("update order info", New, Open); err != nil {
		return o.wrap(err)
	}
	if err := info.Validate(); err != nil {
		return err
	}
	if !info.allowsMeals(len(o.positions)) {
		return errs.NewValueIsOutOfRangeError("maxMeals", *info.MaxMeals, len(o.positions), "unbounded")
	}

	o.info = info
	return nil
}

// AddPosition appends a line item and moves a NEW order to OPEN.
func (o *Order) AddPosition(id kernel.UUID, data PositionData, actor kernel.UUID, now time.Time) (*Position, error) {
	if err := o.status.require("add position", New, Open); err != nil {
		return nil, o.wrap(err)
	}
	if err := errors.Join(id.Validate(), data.Validate()); err != nil {
		return nil, err
	}
	if !o.info.allowsMeals(len(o.positions) + 1) {
		return nil, errs.NewValueIsOutOfRangeError("positions", len(o.positions)+1, 1, *o.info.MaxMeals)
	}

	ordinal := 0
	if n := len(o.positions); n > 0 {
		ordinal = o.positions[n-1].ordinal + 1
	}

	p := &Position{
		id:      id,
		ordinal: ordinal,
		version: kernel.NewUUID(),
		audit: Audit{
			CreatedAt: now,
			CreatedBy: actor,
			UpdatedAt: now,
			UpdatedBy: actor,
		},
		data:          data,
		isConstructed: true,
	}
	o.positions = append(o.positions, p)
	o.status = Open
	return p, nil
}

// UpdatePosition edits a line item. While OPEN every field may change; in
// LOCKED, ORDERED and DELIVERED only paid and tip are taken from data.
func (o *Order) UpdatePosition(id kernel.UUID, expectedVersion *kernel.UUID, data PositionData, actor kernel.UUID, now time.Time) (*Position, error) {
	if err := o.status.require("update position", Open, Locked, Ordered, Delivered); err != nil {
		return nil, o.wrap(err)
	}

	p, err := o.Position(id)
	if err != nil {
		return nil, err
	}
	if err = p.checkVersion(expectedVersion); err != nil {
		return nil, err
	}

	if o.status == Open {
		if err = data.Validate(); err != nil {
			return nil, err
		}
		p.data = data
	} else {
		if err = errors.Join(validateOptionalMoney(data.Paid), validateOptionalMoney(data.Tip)); err != nil {
			return nil, err
		}
		p.data.Paid = data.Paid
		p.data.Tip = data.Tip
	}

	p.touch(actor, now)
	return p, nil
}

// RemovePosition drops a line item; removing the last one moves the order
// back to NEW.
func (o *Order) RemovePosition(id kernel.UUID, expectedVersion *kernel.UUID) error {
	if err := o.status.require("remove position", Open); err != nil {
		return o.wrap(err)
	}

	p, err := o.Position(id)
	if err != nil {
		return err
	}
	if err = p.checkVersion(expectedVersion); err != nil {
		return err
	}

	idx := o.positionIndex(p.id)
	o.positions = slices.Delete(o.positions, idx, idx+1)
	if len(o.positions) == 0 {
		o.status = New
	}
	return nil
}

// Apply performs an explicit lifecycle transition and maintains the state
// stamps.
func (o *Order) Apply(t Transition, now time.Time) error {
	next, err := o.status.Apply(t)
	if err != nil {
		return o.wrap(err)
	}
	if t == Lock {
		if err = o.info.validateLockable(); err != nil {
			return err
		}
	}

	stamp := now
	switch t {
	case Lock:
		o.stamps.LockedAt = &stamp
	case Reopen:
		o.stamps.LockedAt = nil
	case MarkOrdered:
		o.stamps.OrderedAt = &stamp
	case MarkDelivered:
		o.stamps.DeliveredAt = &stamp
	case Revoke:
		o.stamps.RevokedAt = &stamp
	case Archive:
		o.stamps.ArchivedAt = &stamp
	}

	o.status = next
	return nil
}

// CheckDeletable fails unless the order is NEW, ARCHIVED or REVOKED.
func (o *Order) CheckDeletable() error {
	return o.wrap(o.status.require("delete", New, Archived, Revoked))
}

func (o *Order) positionIndex(id kernel.UUID) int {
	return slices.IndexFunc(o.positions, func(p *Position) bool { return p.id.IsEqual(id) })
}

func (o *Order) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("order %s: %w", o.id, err)
}
