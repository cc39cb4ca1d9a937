package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var ErrGetOverdueOrdersQueryIsNotConstructed = errors.New(
	"GetOverdueOrdersQuery must be created via NewGetOverdueOrdersQuery constructor",
)

// Overdue names one housekeeping selection.
type Overdue int

const (
	OverdueForDeletion Overdue = iota + 1
	OverdueForReopen
	OverdueForDelivery
	OverdueForArchive
)

func (o Overdue) String() string {
	switch o {
	case OverdueForDeletion:
		return "deletion"
	case OverdueForReopen:
		return "reopen"
	case OverdueForDelivery:
		return "delivery"
	case OverdueForArchive:
		return "archive"
	}
	return "unknown"
}

// GetOverdueOrdersQuery asks for one housekeeping selection.
type GetOverdueOrdersQuery struct {
	selection Overdue

	guard guard.ConstructorGuard
}

// NewGetOverdueOrdersQuery creates a query for selection.
func NewGetOverdueOrdersQuery(selection Overdue) (GetOverdueOrdersQuery, error) {
	if selection < OverdueForDeletion || selection > OverdueForArchive {
		return GetOverdueOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("selection", fmt.Errorf("%d is not a valid selection", selection))
	}
	return GetOverdueOrdersQuery{selection: selection, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOverdueOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueOrdersQueryIsNotConstructed)
}

func (q GetOverdueOrdersQuery) Selection() Overdue {
	return q.selection
}

// OverdueBatchSizes caps how many ids one lookup returns. Deletion applies
// to the deletion selection, Transition to reopen, delivery and archive.
type OverdueBatchSizes struct {
	Deletion   int
	Transition int
}

// GetOverdueOrdersQueryHandler computes the cutoffs from the state timeouts
// and the current time.
type GetOverdueOrdersQueryHandler struct {
	reader   ports.OrderReader
	clock    clock.Clock
	timeouts order.StateTimeouts
	batches  OverdueBatchSizes
}

// NewGetOverdueOrdersQueryHandler creates a handler that evaluates the
// housekeeping selections against reader.
func NewGetOverdueOrdersQueryHandler(
	reader ports.OrderReader,
	clk clock.Clock,
	timeouts order.StateTimeouts,
	batches OverdueBatchSizes,
) GetOverdueOrdersQueryHandler {
	return GetOverdueOrdersQueryHandler{reader: reader, clock: clk, timeouts: timeouts, batches: batches}
}

func (h GetOverdueOrdersQueryHandler) Handle(ctx context.Context, query GetOverdueOrdersQuery) ([]kernel.UUID, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	switch query.selection {
	case OverdueForDeletion:
		return h.reader.FindDueForDeletion(ctx, ports.DeletionCutoffs{
			CreatedBefore:   now.Add(-h.timeouts.MaxOpenTime),
			UntouchedBefore: now.Add(-h.timeouts.MaxUntouchedTime),
			RevokedBefore:   now.Add(-h.timeouts.RevokedBeforeDeleted),
		}, h.batches.Deletion)
	case OverdueForReopen:
		return h.reader.FindStampedBefore(ctx, order.Locked, now.Add(-h.timeouts.LockedBeforeReopened), h.batches.Transition)
	case OverdueForDelivery:
		return h.reader.FindStampedBefore(ctx, order.Ordered, now.Add(-h.timeouts.OrderedBeforeDelivered), h.batches.Transition)
	default:
		return h.reader.FindStampedBefore(ctx, order.Delivered, now.Add(-h.timeouts.DeliveryBeforeArchive), h.batches.Transition)
	}
}
