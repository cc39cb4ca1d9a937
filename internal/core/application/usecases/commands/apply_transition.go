package commands

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
)

// orderMutation validates and applies one change to the locked in-memory
// order. It must not perform I/O.
type orderMutation func(o *order.Order, now time.Time) error

// transitionApplier is the single entry point for every write to an existing
// order: lock the row, compare versions, mutate, stamp a new version and
// commit, all in one transaction.
type transitionApplier struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

func newTransitionApplier(uowFactory OrderUoWFactory, clk clock.Clock) transitionApplier {
	return transitionApplier{uowFactory: uowFactory, clock: clk}
}

// apply skips the version comparison when expectedVersion is nil.
func (a transitionApplier) apply(
	ctx context.Context,
	id kernel.UUID,
	expectedVersion *kernel.UUID,
	actor kernel.UUID,
	mutate orderMutation,
) (*order.Order, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = o.CheckVersion(expectedVersion); err != nil {
		return nil, err
	}

	now := stamp(a.clock)
	if err = mutate(o, now); err != nil {
		return nil, err
	}

	o.Touch(kernel.NewUUID(), actor, now)
	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// peek reads the order outside of any transaction. It backs the
// pre-removal notifications, which must not run under the row lock.
func (a transitionApplier) peek(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return a.uowFactory.Create().OrderRepository().Get(ctx, id)
}

// stamp is truncated to the precision of the database timestamps so that the
// returned order equals what a subsequent read yields.
func stamp(clk clock.Clock) time.Time {
	return clk.Now().UTC().Truncate(time.Microsecond)
}
