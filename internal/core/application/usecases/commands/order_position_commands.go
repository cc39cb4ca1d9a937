package commands

import (
	"errors"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var (
	ErrAddOrderPositionCommandIsNotConstructed = errors.New(
		"AddOrderPositionCommand must be created via NewAddOrderPositionCommand constructor",
	)
	ErrUpdateOrderPositionCommandIsNotConstructed = errors.New(
		"UpdateOrderPositionCommand must be created via NewUpdateOrderPositionCommand constructor",
	)
	ErrRemoveOrderPositionCommandIsNotConstructed = errors.New(
		"RemoveOrderPositionCommand must be created via NewRemoveOrderPositionCommand constructor",
	)
)

// AddOrderPositionCommand adds a line item to an order.
type AddOrderPositionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	data    order.PositionData
	actor   kernel.UUID

	guard guard.ConstructorGuard
}

// NewAddOrderPositionCommand creates a validated AddOrderPositionCommand.
func NewAddOrderPositionCommand(orderID kernel.UUID, data order.PositionData, actor kernel.UUID) (AddOrderPositionCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate(), data.Validate()); err != nil {
		return AddOrderPositionCommand{}, err
	}

	return AddOrderPositionCommand{
		orderID: orderID,
		data:    data,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AddOrderPositionCommand) Validate() error {
	return c.guard.Validate(ErrAddOrderPositionCommandIsNotConstructed)
}

func (c AddOrderPositionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AddOrderPositionCommand) Data() order.PositionData {
	return c.data
}

func (c AddOrderPositionCommand) Actor() kernel.UUID {
	return c.actor
}

// UpdateOrderPositionCommand carries the position's own version. The order
// version is not compared.
type UpdateOrderPositionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	positionID kernel.UUID
	version    *kernel.UUID
	data       order.PositionData
	actor      kernel.UUID

	guard guard.ConstructorGuard
}

// NewUpdateOrderPositionCommand creates a validated UpdateOrderPositionCommand.
// A nil version skips the optimistic check.
func NewUpdateOrderPositionCommand(
	orderID, positionID kernel.UUID,
	version *kernel.UUID,
	data order.PositionData,
	actor kernel.UUID,
) (UpdateOrderPositionCommand, error) {
	if err := errors.Join(orderID.Validate(), positionID.Validate(), validateVersion(version), actor.Validate()); err != nil {
		return UpdateOrderPositionCommand{}, err
	}

	return UpdateOrderPositionCommand{
		orderID:    orderID,
		positionID: positionID,
		version:    version,
		data:       data,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderPositionCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderPositionCommandIsNotConstructed)
}

func (c UpdateOrderPositionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderPositionCommand) PositionID() kernel.UUID {
	return c.positionID
}

func (c UpdateOrderPositionCommand) Version() *kernel.UUID {
	return c.version
}

func (c UpdateOrderPositionCommand) Data() order.PositionData {
	return c.data
}

func (c UpdateOrderPositionCommand) Actor() kernel.UUID {
	return c.actor
}

// RemoveOrderPositionCommand deletes a line item.
type RemoveOrderPositionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	positionID kernel.UUID
	version    *kernel.UUID
	actor      kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemoveOrderPositionCommand creates a validated RemoveOrderPositionCommand.
func NewRemoveOrderPositionCommand(orderID, positionID kernel.UUID, version *kernel.UUID, actor kernel.UUID) (RemoveOrderPositionCommand, error) {
	if err := errors.Join(orderID.Validate(), positionID.Validate(), validateVersion(version), actor.Validate()); err != nil {
		return RemoveOrderPositionCommand{}, err
	}

	return RemoveOrderPositionCommand{
		orderID:    orderID,
		positionID: positionID,
		version:    version,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveOrderPositionCommand) Validate() error {
	return c.guard.Validate(ErrRemoveOrderPositionCommandIsNotConstructed)
}

func (c RemoveOrderPositionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RemoveOrderPositionCommand) PositionID() kernel.UUID {
	return c.positionID
}

func (c RemoveOrderPositionCommand) Version() *kernel.UUID {
	return c.version
}

func (c RemoveOrderPositionCommand) Actor() kernel.UUID {
	return c.actor
}
