package commands

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
)

// PositionResult is the updated order plus the affected position. Position
// is nil after a removal.
type PositionResult struct {
	Order    *order.Order
	Position *order.Position
}

// AddOrderPositionCommandHandler appends a line item.
type AddOrderPositionCommandHandler struct {
	applier  transitionApplier
	notifier observers.Notifier
}

// NewAddOrderPositionCommandHandler creates a handler for adding positions.
func NewAddOrderPositionCommandHandler(uowFactory OrderUoWFactory, notifier observers.Notifier, clk clock.Clock) AddOrderPositionCommandHandler {
	return AddOrderPositionCommandHandler{
		applier:  newTransitionApplier(uowFactory, clk),
		notifier: notifier,
	}
}

func (h *AddOrderPositionCommandHandler) Handle(ctx context.Context, cmd AddOrderPositionCommand) (PositionResult, error) {
	if err := cmd.Validate(); err != nil {
		return PositionResult{}, err
	}

	var added *order.Position
	o, err := h.applier.apply(ctx, cmd.OrderID(), nil, cmd.Actor(), func(o *order.Order, now time.Time) error {
		p, err := o.AddPosition(kernel.NewUUID(), cmd.Data(), cmd.Actor(), now)
		added = p
		return err
	})
	if err != nil {
		return PositionResult{}, err
	}

	h.notifier.Notify(ctx, observers.NewOrderEvent(observers.PositionCreated, o))
	return PositionResult{Order: o, Position: added}, nil
}

// UpdateOrderPositionCommandHandler changes one line item. The expected
// version is the position's, not the order's.
type UpdateOrderPositionCommandHandler struct {
	applier  transitionApplier
	notifier observers.Notifier
}

// NewUpdateOrderPositionCommandHandler creates a handler for position updates.
func NewUpdateOrderPositionCommandHandler(uowFactory OrderUoWFactory, notifier observers.Notifier, clk clock.Clock) UpdateOrderPositionCommandHandler {
	return UpdateOrderPositionCommandHandler{
		applier:  newTransitionApplier(uowFactory, clk),
		notifier: notifier,
	}
}

func (h *UpdateOrderPositionCommandHandler) Handle(ctx context.Context, cmd UpdateOrderPositionCommand) (PositionResult, error) {
	if err := cmd.Validate(); err != nil {
		return PositionResult{}, err
	}

	var updated *order.Position
	o, err := h.applier.apply(ctx, cmd.OrderID(), nil, cmd.Actor(), func(o *order.Order, now time.Time) error {
		p, err := o.UpdatePosition(cmd.PositionID(), cmd.Version(), cmd.Data(), cmd.Actor(), now)
		updated = p
		return err
	})
	if err != nil {
		return PositionResult{}, err
	}

	h.notifier.Notify(ctx, observers.NewOrderEvent(observers.PositionUpdated, o))
	return PositionResult{Order: o, Position: updated}, nil
}

// RemoveOrderPositionCommandHandler deletes one line item.
type RemoveOrderPositionCommandHandler struct {
	applier  transitionApplier
	notifier observers.Notifier
}

// NewRemoveOrderPositionCommandHandler creates a handler for removing positions.
func NewRemoveOrderPositionCommandHandler(uowFactory OrderUoWFactory, notifier observers.Notifier, clk clock.Clock) RemoveOrderPositionCommandHandler {
	return RemoveOrderPositionCommandHandler{
		applier:  newTransitionApplier(uowFactory, clk),
		notifier: notifier,
	}
}

func (h *RemoveOrderPositionCommandHandler) Handle(ctx context.Context, cmd RemoveOrderPositionCommand) (PositionResult, error) {
	if err := cmd.Validate(); err != nil {
		return PositionResult{}, err
	}

	o, err := h.applier.apply(ctx, cmd.OrderID(), nil, cmd.Actor(), func(o *order.Order, _ time.Time) error {
		return o.RemovePosition(cmd.PositionID(), cmd.Version())
	})
	if err != nil {
		return PositionResult{}, err
	}

	h.notifier.Notify(ctx, observers.NewOrderEvent(observers.PositionDeleted, o))
	return PositionResult{Order: o}, nil
}
