package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/queries"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 2, 11, 15, 0, 0, time.UTC)

type MockOrderGetter struct{ mock.Mock }

func (m *MockOrderGetter) Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error) {
	args := m.Called(ctx, query)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockOverdueFinder struct{ mock.Mock }

func (m *MockOverdueFinder) Handle(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]kernel.UUID, error) {
	args := m.Called(ctx, query)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

type MockStatusFinder struct{ mock.Mock }

func (m *MockStatusFinder) Handle(ctx context.Context, query queries.GetOrdersInStatusQuery) ([]*order.Order, error) {
	args := m.Called(ctx, query)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockStateChanger struct{ mock.Mock }

func (m *MockStateChanger) Handle(ctx context.Context, cmd commands.ChangeOrderStateCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockOrderReaper struct{ mock.Mock }

func (m *MockOrderReaper) Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func selection(s queries.Overdue) any {
	return mock.MatchedBy(func(q queries.GetOverdueOrdersQuery) bool { return q.Selection() == s })
}

func inStatus(s order.Status) any {
	return mock.MatchedBy(func(q queries.GetOrdersInStatusQuery) bool { return q.Status() == s })
}

func transitionOf(id kernel.UUID, t order.Transition) any {
	return mock.MatchedBy(func(cmd commands.ChangeOrderStateCommand) bool {
		return cmd.OrderID().IsEqual(id) && cmd.Transition() == t && cmd.Version() == nil
	})
}

func reapOf(id kernel.UUID) any {
	return mock.MatchedBy(func(cmd commands.DeleteOrderCommand) bool {
		return cmd.OrderID().IsEqual(id) && cmd.IsForced()
	})
}

// stampedOrder restores an order in status whose stamp for that status is at.
func stampedOrder(t *testing.T, status order.Status, at time.Time) *order.Order {
	t.Helper()

	var stamps order.StateStamps
	switch status {
	case order.Locked:
		stamps.LockedAt = &at
	case order.Ordered:
		stamps.OrderedAt = &at
	case order.Delivered:
		stamps.DeliveredAt = &at
	case order.Revoked:
		stamps.RevokedAt = &at
	}

	created := at.Add(-time.Hour)
	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), created, status, kernel.NewUUID(),
		order.Audit{CreatedAt: created, CreatedBy: order.DefaultActor, UpdatedAt: at, UpdatedBy: order.DefaultActor},
		stamps, order.Info{}, nil,
	)
	require.NoError(t, err)
	return o
}
