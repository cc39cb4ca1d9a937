package commands_test

import (
	"testing"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectWrite(f *txFixture, ctx any, o *order.Order) {
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.repo.On("Update", ctx, o).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
}

func TestAddOrderPositionCommandHandler_OpensOrder(t *testing.T) {
	ctx := t.Context()
	stored := orderInStatus(t, order.New)
	before := stored.Version()
	cmd, _ := commands.NewAddOrderPositionCommand(stored.ID(), order.PositionData{Name: "dave", Meal: "Ramen"}, order.DefaultActor)

	f := newTxFixture()
	expectWrite(f, ctx, stored)
	f.notifier.On("Notify", ctx, eventOfKind(observers.PositionCreated)).Once()

	h := commands.NewAddOrderPositionCommandHandler(f.factory, f.notifier, fakeClock())
	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Open, res.Order.Status())
	assert.False(t, res.Order.Version().IsEqual(before))
	require.NotNil(t, res.Position)
	assert.Equal(t, "Ramen", res.Position.Meal())
	assert.Len(t, res.Order.Positions(), 1)
	f.assertExpectations(t)
}

func TestRemoveOrderPositionCommandHandler_LastPositionReturnsToNew(t *testing.T) {
	ctx := t.Context()
	stored := orderInStatus(t, order.Open)
	position := stored.Positions()[0]
	cmd, _ := commands.NewRemoveOrderPositionCommand(stored.ID(), position.ID(), nil, order.DefaultActor)

	f := newTxFixture()
	expectWrite(f, ctx, stored)
	f.notifier.On("Notify", ctx, eventOfKind(observers.PositionDeleted)).Once()

	h := commands.NewRemoveOrderPositionCommandHandler(f.factory, f.notifier, fakeClock())
	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.New, res.Order.Status())
	assert.Nil(t, res.Position)
	f.assertExpectations(t)
}

func TestUpdateOrderPositionCommandHandler_ComparesPositionVersion(t *testing.T) {
	ctx := t.Context()
	stored := orderInStatus(t, order.Delivered)
	position := stored.Positions()[0]
	paid, _ := kernel.MoneyFromString("12.00")
	cmd, _ := commands.NewUpdateOrderPositionCommand(stored.ID(), position.ID(), versionOf(stored), order.PositionData{Paid: &paid}, order.DefaultActor)

	f := newTxFixture()
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.repo.On("GetForUpdate", ctx, stored.ID()).Return(stored, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewUpdateOrderPositionCommandHandler(f.factory, f.notifier, fakeClock())
	res, err := h.Handle(ctx, cmd)

	// an order version never matches a position version
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.Nil(t, res.Order)
	f.assertExpectations(t)
}

func TestUpdateOrderPositionCommandHandler_PaymentWithPositionVersion(t *testing.T) {
	ctx := t.Context()
	stored := orderInStatus(t, order.Delivered)
	position := stored.Positions()[0]
	positionVersion := position.Version()
	paid, _ := kernel.MoneyFromString("12.00")
	cmd, _ := commands.NewUpdateOrderPositionCommand(stored.ID(), position.ID(), &positionVersion, order.PositionData{Paid: &paid}, order.DefaultActor)

	f := newTxFixture()
	expectWrite(f, ctx, stored)
	f.notifier.On("Notify", ctx, eventOfKind(observers.PositionUpdated)).Once()

	h := commands.NewUpdateOrderPositionCommandHandler(f.factory, f.notifier, fakeClock())
	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "12.00", res.Position.Paid().String())
	assert.Equal(t, "Pho", res.Position.Meal())
	assert.False(t, res.Position.Version().IsEqual(positionVersion))
	f.assertExpectations(t)
}

func TestUpdateOrderInfoCommandHandler_Locked(t *testing.T) {
	ctx := t.Context()
	stored := orderInStatus(t, order.Locked)
	cmd, _ := commands.NewUpdateOrderInfoCommand(stored.ID(), versionOf(stored), order.Info{Orderer: "eve"}, order.DefaultActor)

	f := newTxFixture()
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.repo.On("GetForUpdate", ctx, stored.ID()).Return(stored, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewUpdateOrderInfoCommandHandler(f.factory, f.notifier, fakeClock())
	_, err := h.Handle(ctx, cmd)

	assert.True(t, errs.IsInvalidState(err))
	f.assertExpectations(t)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestUpdateOrderInfoCommandHandler_Success(t *testing.T) {
	ctx := t.Context()
	stored := orderInStatus(t, order.New)
	cmd, _ := commands.NewUpdateOrderInfoCommand(stored.ID(), versionOf(stored), order.Info{Orderer: "eve", OrderText: "no onions"}, order.DefaultActor)

	f := newTxFixture()
	expectWrite(f, ctx, stored)
	f.notifier.On("Notify", ctx, eventOfKind(observers.OrderInfoUpdated)).Once()

	h := commands.NewUpdateOrderInfoCommandHandler(f.factory, f.notifier, fakeClock())
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "no onions", updated.Info().OrderText)
	f.assertExpectations(t)
}
