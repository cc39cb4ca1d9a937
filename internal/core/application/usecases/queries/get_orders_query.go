package queries

import (
	"context"
	"errors"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery lists the orders shown on the overview.
type GetOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates the overview query.
func NewGetOrdersQuery() GetOrdersQuery {
	return GetOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// GetOrdersQueryHandler lists the active orders. Archived and revoked orders
// stay listed for the lingering window after they were closed.
type GetOrdersQueryHandler struct {
	reader    ports.OrderReader
	clock     clock.Clock
	lingering time.Duration
}

// NewGetOrdersQueryHandler creates a handler that keeps closed orders
// visible for lingering.
func NewGetOrdersQueryHandler(reader ports.OrderReader, clk clock.Clock, lingering time.Duration) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{reader: reader, clock: clk, lingering: lingering}
}

func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.FindVisible(ctx, h.clock.Now().Add(-h.lingering))
}
