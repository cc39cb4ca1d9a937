package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 2, 11, 15, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsLive(ctx context.Context, restaurantID kernel.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, restaurantID, date)
	return args.Bool(0), args.Error(1)
}

type MockRestaurantDirectory struct{ mock.Mock }

func (m *MockRestaurantDirectory) Exists(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRestaurantDirectory) Name(ctx context.Context, id kernel.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) RestaurantDirectory() ports.RestaurantDirectory {
	args := m.Called()
	return args.Get(0).(ports.RestaurantDirectory)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, event observers.Event) {
	m.Called(ctx, event)
}

func eventOfKind(kind observers.EventKind) any {
	return mock.MatchedBy(func(e observers.Event) bool { return e.Kind == kind })
}

func fakeClock() clock.Clock {
	return clock.Fake(testNow)
}

func versionOf(o *order.Order) *kernel.UUID {
	v := o.Version()
	return &v
}

// orderInStatus builds an order that reached status through the domain API.
func orderInStatus(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), testNow, order.DefaultActor, testNow.Add(-time.Hour))
	require.NoError(t, err)
	if status == order.New {
		return o
	}

	_, err = o.AddPosition(kernel.NewUUID(), order.PositionData{Name: "alice", Meal: "Pho"}, order.DefaultActor, testNow)
	require.NoError(t, err)
	require.NoError(t, o.UpdateInfo(order.Info{Orderer: "alice", Fetcher: "bob", MoneyCollector: "carol"}))

	path := map[order.Status][]order.Transition{
		order.Locked:    {order.Lock},
		order.Ordered:   {order.Lock, order.MarkOrdered},
		order.Delivered: {order.Lock, order.MarkOrdered, order.MarkDelivered},
		order.Revoked:   {order.Revoke},
		order.Archived:  {order.Lock, order.MarkOrdered, order.Archive},
	}[status]
	for _, tr := range path {
		require.NoError(t, o.Apply(tr, testNow))
	}
	require.Equal(t, status, o.Status())
	return o
}

// txFixture wires a factory handing out one unit of work per Create call.
type txFixture struct {
	factory     *MockOrderUoWFactory
	uow         *MockOrderUoW
	repo        *MockOrderRepository
	restaurants *MockRestaurantDirectory
	notifier    *MockNotifier
}

func newTxFixture() *txFixture {
	return &txFixture{
		factory:     new(MockOrderUoWFactory),
		uow:         new(MockOrderUoW),
		repo:        new(MockOrderRepository),
		restaurants: new(MockRestaurantDirectory),
		notifier:    new(MockNotifier),
	}
}

func (f *txFixture) assertExpectations(t *testing.T) {
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.restaurants.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}
