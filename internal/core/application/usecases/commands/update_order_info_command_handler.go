package commands

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
)

// UpdateOrderInfoCommandHandler applies UpdateOrderInfoCommand under the row lock.
type UpdateOrderInfoCommandHandler struct {
	applier  transitionApplier
	notifier observers.Notifier
}

// NewUpdateOrderInfoCommandHandler creates a handler for order info updates.
func NewUpdateOrderInfoCommandHandler(uowFactory OrderUoWFactory, notifier observers.Notifier, clk clock.Clock) UpdateOrderInfoCommandHandler {
	return UpdateOrderInfoCommandHandler{
		applier:  newTransitionApplier(uowFactory, clk),
		notifier: notifier,
	}
}

func (h *UpdateOrderInfoCommandHandler) Handle(ctx context.Context, cmd UpdateOrderInfoCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.applier.apply(ctx, cmd.OrderID(), cmd.Version(), cmd.Actor(), func(o *order.Order, _ time.Time) error {
		return o.UpdateInfo(cmd.Info())
	})
	if err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, observers.NewOrderEvent(observers.OrderInfoUpdated, o))
	return o, nil
}
