package commands

import (
	"context"
	"fmt"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
)

// CreateOrderCommandHandler checks the restaurant and the one-live-order rule
// and persists a NEW order.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   observers.Notifier
	clock      clock.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, notifier observers.Notifier, clk clock.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
	}
}

// Handle opens a NEW order. It fails with NotFound for an unknown restaurant
// and with AlreadyExists while a live order exists for the restaurant and day.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	exists, err := uow.RestaurantDirectory().Exists(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("restaurant", cmd.RestaurantID().String())
	}

	repo := uow.OrderRepository()
	date := order.NormalizeDate(cmd.TargetDate())
	live, err := repo.ExistsLive(ctx, cmd.RestaurantID(), date)
	if err != nil {
		return nil, err
	}
	if live {
		return nil, errs.NewAlreadyExistsError("order",
			fmt.Sprintf("for restaurant %s on %s", cmd.RestaurantID(), date.Format("2006-01-02")))
	}

	o, err := order.NewOrder(kernel.NewUUID(), cmd.RestaurantID(), date, cmd.Actor(), stamp(h.clock))
	if err != nil {
		return nil, err
	}

	if err = repo.Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, observers.NewOrderEvent(observers.OrderCreated, o))
	return o, nil
}
