package queries

import (
	"context"
	"errors"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"
)

var ErrGetOrdersInStatusQueryIsNotConstructed = errors.New(
	"GetOrdersInStatusQuery must be created via NewGetOrdersInStatusQuery constructor",
)

// GetOrdersInStatusQuery selects the orders currently in one status.
type GetOrdersInStatusQuery struct {
	status order.Status

	guard guard.ConstructorGuard
}

// NewGetOrdersInStatusQuery creates a query for status.
func NewGetOrdersInStatusQuery(status order.Status) (GetOrdersInStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return GetOrdersInStatusQuery{}, err
	}
	return GetOrdersInStatusQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrdersInStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersInStatusQueryIsNotConstructed)
}

func (q GetOrdersInStatusQuery) Status() order.Status {
	return q.status
}

// GetOrdersInStatusQueryHandler returns at most limit orders.
type GetOrdersInStatusQueryHandler struct {
	reader ports.OrderReader
	limit  int
}

// NewGetOrdersInStatusQueryHandler creates a handler capped at limit orders.
func NewGetOrdersInStatusQueryHandler(reader ports.OrderReader, limit int) GetOrdersInStatusQueryHandler {
	return GetOrdersInStatusQueryHandler{reader: reader, limit: limit}
}

func (h GetOrdersInStatusQueryHandler) Handle(ctx context.Context, query GetOrdersInStatusQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.FindInStatus(ctx, query.status, h.limit)
}
