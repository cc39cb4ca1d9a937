package commands

import (
	"context"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
)

// DeleteOrderCommandHandler removes orders and announces BeforeOrderDeleted.
type DeleteOrderCommandHandler struct {
	applier  transitionApplier
	notifier observers.Notifier
	deletes  *orderLocks
}

// NewDeleteOrderCommandHandler creates the handler for user deletions and
// housekeeping reaps.
func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory, notifier observers.Notifier, clk clock.Clock) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		applier:  newTransitionApplier(uowFactory, clk),
		notifier: notifier,
		deletes:  newOrderLocks(),
	}
}

// Handle removes the order and its positions. BeforeOrderDeleted fires after
// a lock-free pre-check and before the transaction; the checks are repeated
// under the row lock. Deletions of one order are serialized within the
// process like archives, so the announcement is only repeated across
// processes.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.deletes.lock(cmd.OrderID())
	defer unlock()

	current, err := h.applier.peek(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = checkDeletion(current, cmd); err != nil {
		return err
	}

	h.notifier.Notify(ctx, observers.NewOrderEvent(observers.BeforeOrderDeleted, current))

	uow := h.applier.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	locked, err := repo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = checkDeletion(locked, cmd); err != nil {
		return err
	}

	if err = repo.Delete(ctx, cmd.OrderID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func checkDeletion(o *order.Order, cmd DeleteOrderCommand) error {
	if cmd.IsForced() {
		return nil
	}
	if err := o.CheckVersion(cmd.Version()); err != nil {
		return err
	}
	return o.CheckDeletable()
}
