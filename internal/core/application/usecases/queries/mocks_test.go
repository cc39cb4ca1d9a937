package queries_test

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2024, 5, 2, 11, 15, 0, 0, time.UTC)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) FindVisible(ctx context.Context, closedSince time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, closedSince)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderReader) FindDueForDeletion(ctx context.Context, cutoffs ports.DeletionCutoffs, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, cutoffs, limit)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockOrderReader) FindStampedBefore(ctx context.Context, status order.Status, before time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, status, before, limit)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockOrderReader) FindInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}
