package commands

import (
	"errors"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var ErrDeleteOrderCommandIsNotConstructed = errors.New(
	"DeleteOrderCommand must be created via NewDeleteOrderCommand or NewReapOrderCommand",
)

// DeleteOrderCommand removes an order, either on user request or forced by
// housekeeping.
type DeleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	version *kernel.UUID
	forced  bool

	guard guard.ConstructorGuard
}

// NewDeleteOrderCommand deletes a NEW, ARCHIVED or REVOKED order.
func NewDeleteOrderCommand(orderID kernel.UUID, version *kernel.UUID) (DeleteOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), validateVersion(version)); err != nil {
		return DeleteOrderCommand{}, err
	}

	return DeleteOrderCommand{
		orderID: orderID,
		version: version,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewReapOrderCommand deletes regardless of state and version. Only the
// housekeeping reaper uses it.
func NewReapOrderCommand(orderID kernel.UUID) (DeleteOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return DeleteOrderCommand{}, err
	}

	return DeleteOrderCommand{
		orderID: orderID,
		forced:  true,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

func (c DeleteOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c DeleteOrderCommand) Version() *kernel.UUID {
	return c.version
}

func (c DeleteOrderCommand) IsForced() bool {
	return c.forced
}
