package http

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/queries"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 2, 11, 15, 0, 0, time.UTC)

type mockHandler[C any, R any] struct{ mock.Mock }

func (m *mockHandler[C, R]) Handle(ctx context.Context, in C) (R, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(R)
	return out, args.Error(1)
}

type mockDeleter struct{ mock.Mock }

func (m *mockDeleter) Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type fixture struct {
	create         *mockHandler[commands.CreateOrderCommand, *order.Order]
	updateInfo     *mockHandler[commands.UpdateOrderInfoCommand, *order.Order]
	addPosition    *mockHandler[commands.AddOrderPositionCommand, commands.PositionResult]
	updatePosition *mockHandler[commands.UpdateOrderPositionCommand, commands.PositionResult]
	removePosition *mockHandler[commands.RemoveOrderPositionCommand, commands.PositionResult]
	changeState    *mockHandler[commands.ChangeOrderStateCommand, *order.Order]
	deleteOrder    *mockDeleter
	getOrder       *mockHandler[queries.GetOrderQuery, *order.Order]
	getOrders      *mockHandler[queries.GetOrdersQuery, []*order.Order]
	restaurants    *mockHandler[queries.GetOrderableRestaurantsQuery, []queries.GetOrderableRestaurantsQueryResponse]

	router *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		create:         &mockHandler[commands.CreateOrderCommand, *order.Order]{},
		updateInfo:     &mockHandler[commands.UpdateOrderInfoCommand, *order.Order]{},
		addPosition:    &mockHandler[commands.AddOrderPositionCommand, commands.PositionResult]{},
		updatePosition: &mockHandler[commands.UpdateOrderPositionCommand, commands.PositionResult]{},
		removePosition: &mockHandler[commands.RemoveOrderPositionCommand, commands.PositionResult]{},
		changeState:    &mockHandler[commands.ChangeOrderStateCommand, *order.Order]{},
		deleteOrder:    &mockDeleter{},
		getOrder:       &mockHandler[queries.GetOrderQuery, *order.Order]{},
		getOrders:      &mockHandler[queries.GetOrdersQuery, []*order.Order]{},
		restaurants:    &mockHandler[queries.GetOrderableRestaurantsQuery, []queries.GetOrderableRestaurantsQueryResponse]{},
	}

	logger := slog.New(slog.DiscardHandler)
	server, err := NewServer(Handlers{
		CreateOrder:          f.create,
		UpdateOrderInfo:      f.updateInfo,
		AddPosition:          f.addPosition,
		UpdatePosition:       f.updatePosition,
		RemovePosition:       f.removePosition,
		ChangeState:          f.changeState,
		DeleteOrder:          f.deleteOrder,
		GetOrder:             f.getOrder,
		GetOrders:            f.getOrders,
		OrderableRestaurants: f.restaurants,
	}, logger)
	require.NoError(t, err)

	f.router, err = NewRouter(server, logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
			f.create, f.updateInfo, f.addPosition, f.updatePosition, f.removePosition,
			f.changeState, f.deleteOrder, f.getOrder, f.getOrders, f.restaurants,
		} {
			m.AssertExpectations(t)
		}
	})

	return f
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), testNow, order.DefaultActor, testNow)
	require.NoError(t, err)
	return o
}
