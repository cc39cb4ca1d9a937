package commands

import (
	"errors"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var ErrChangeOrderStateCommandIsNotConstructed = errors.New(
	"ChangeOrderStateCommand must be created via NewChangeOrderStateCommand or NewHousekeepingStateCommand",
)

// ChangeOrderStateCommand requests one lifecycle transition.
type ChangeOrderStateCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	version    *kernel.UUID
	transition order.Transition
	actor      kernel.UUID

	guard guard.ConstructorGuard
}

// NewChangeOrderStateCommand requests one of lock, reopen, mark ordered,
// mark delivered, revoke or archive on behalf of a caller.
func NewChangeOrderStateCommand(orderID kernel.UUID, version *kernel.UUID, transition order.Transition, actor kernel.UUID) (ChangeOrderStateCommand, error) {
	if err := errors.Join(orderID.Validate(), validateVersion(version), transition.Validate(), actor.Validate()); err != nil {
		return ChangeOrderStateCommand{}, err
	}

	return ChangeOrderStateCommand{
		orderID:    orderID,
		version:    version,
		transition: transition,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// NewHousekeepingStateCommand is the unconditional variant used by the
// scheduler: no version is compared and the housekeeping actor is recorded.
func NewHousekeepingStateCommand(orderID kernel.UUID, transition order.Transition) (ChangeOrderStateCommand, error) {
	return NewChangeOrderStateCommand(orderID, nil, transition, order.HousekeepingActor)
}

func (c ChangeOrderStateCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStateCommandIsNotConstructed)
}

func (c ChangeOrderStateCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStateCommand) Version() *kernel.UUID {
	return c.version
}

func (c ChangeOrderStateCommand) Transition() order.Transition {
	return c.transition
}

func (c ChangeOrderStateCommand) Actor() kernel.UUID {
	return c.actor
}
