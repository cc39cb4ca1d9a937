package commands

import (
	"errors"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var ErrUpdateOrderInfoCommandIsNotConstructed = errors.New(
	"UpdateOrderInfoCommand must be created via NewUpdateOrderInfoCommand constructor",
)

// UpdateOrderInfoCommand replaces the organisational fields of an order.
type UpdateOrderInfoCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	version *kernel.UUID
	info    order.Info
	actor   kernel.UUID

	guard guard.ConstructorGuard
}

// NewUpdateOrderInfoCommand replaces the order metadata. A nil version skips
// the optimistic concurrency check.
func NewUpdateOrderInfoCommand(orderID kernel.UUID, version *kernel.UUID, info order.Info, actor kernel.UUID) (UpdateOrderInfoCommand, error) {
	if err := errors.Join(orderID.Validate(), validateVersion(version), actor.Validate(), info.Validate()); err != nil {
		return UpdateOrderInfoCommand{}, err
	}

	return UpdateOrderInfoCommand{
		orderID: orderID,
		version: version,
		info:    info,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderInfoCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderInfoCommandIsNotConstructed)
}

func (c UpdateOrderInfoCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderInfoCommand) Version() *kernel.UUID {
	return c.version
}

func (c UpdateOrderInfoCommand) Info() order.Info {
	return c.info
}

func (c UpdateOrderInfoCommand) Actor() kernel.UUID {
	return c.actor
}

func validateVersion(version *kernel.UUID) error {
	if version == nil {
		return nil
	}
	return version.Validate()
}
