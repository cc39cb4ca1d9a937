package commands

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
)

// ChangeOrderStateCommandHandler applies lifecycle transitions and publishes
// the matching events.
type ChangeOrderStateCommandHandler struct {
	applier  transitionApplier
	notifier observers.Notifier
	archives *orderLocks
}

// NewChangeOrderStateCommandHandler creates the handler behind every
// lifecycle transition, user driven or housekeeping.
func NewChangeOrderStateCommandHandler(uowFactory OrderUoWFactory, notifier observers.Notifier, clk clock.Clock) ChangeOrderStateCommandHandler {
	return ChangeOrderStateCommandHandler{
		applier:  newTransitionApplier(uowFactory, clk),
		notifier: notifier,
		archives: newOrderLocks(),
	}
}

// Handle applies the requested transition. Archiving announces
// BeforeOrderArchived once a lock-free pre-check has passed and before the
// transaction starts; every other transition notifies after commit.
//
// Archives of one order are serialized within the process, so a concurrent
// loser peeks the committed ARCHIVED state and announces nothing. Across
// processes the announcement is at-least-once: a loser that peeked before
// the winner committed still announces and then fails with InvalidState.
func (h *ChangeOrderStateCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStateCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if cmd.Transition() == order.Archive {
		unlock := h.archives.lock(cmd.OrderID())
		defer unlock()

		if err := h.announceArchive(ctx, cmd); err != nil {
			return nil, err
		}
	}

	o, err := h.applier.apply(ctx, cmd.OrderID(), cmd.Version(), cmd.Actor(), func(o *order.Order, now time.Time) error {
		return o.Apply(cmd.Transition(), now)
	})
	if err != nil {
		return nil, err
	}

	if kind, ok := observers.EventForTransition(cmd.Transition()); ok {
		h.notifier.Notify(ctx, observers.NewOrderEvent(kind, o))
	}
	return o, nil
}

func (h *ChangeOrderStateCommandHandler) announceArchive(ctx context.Context, cmd ChangeOrderStateCommand) error {
	current, err := h.applier.peek(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = current.CheckVersion(cmd.Version()); err != nil {
		return err
	}
	if _, err = current.Status().Apply(order.Archive); err != nil {
		return err
	}

	// at-least-once across processes, see Handle
	h.notifier.Notify(ctx, observers.NewOrderEvent(observers.BeforeOrderArchived, current))
	return nil
}
