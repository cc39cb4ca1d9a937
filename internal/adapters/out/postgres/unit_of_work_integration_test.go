package postgres_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	postgres_adapter "github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres/restaurantrepo"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the unit of work against a real
// PostgreSQL so row locks and the live order index are exercised.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	factory      ports.UnitOfWorkFactory
	restaurantID kernel.UUID
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(dsn, slog.New(slog.DiscardHandler), time.Second)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	// Migrations are idempotent.
	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE order_positions, meal_orders, restaurants").Error
	suite.Require().NoError(err)

	suite.restaurantID = kernel.NewUUID()
	err = restaurantrepo.NewGormRestaurantDirectory(suite.db).Add(context.Background(), suite.restaurantID, "Pizzeria Roma")
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(date time.Time) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), suite.restaurantID, date, order.DefaultActor,
		time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin keeps the open transaction")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Error(uow.Commit(ctx), "commit without transaction")
	suite.Error(uow.Rollback(ctx), "rollback without transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitPersists() {
	ctx := context.Background()
	o := suite.newOrder(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(loaded.Version().IsEqual(o.Version()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscards() {
	ctx := context.Background()
	o := suite.newOrder(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.True(errs.IsNotFound(err))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRestaurantDirectory() {
	ctx := context.Background()
	directory := suite.factory.Create().RestaurantDirectory()

	exists, err := directory.Exists(ctx, suite.restaurantID)
	suite.Require().NoError(err)
	suite.True(exists)

	name, err := directory.Name(ctx, suite.restaurantID)
	suite.Require().NoError(err)
	suite.Equal("Pizzeria Roma", name)

	exists, err = directory.Exists(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.False(exists)

	_, err = directory.Name(ctx, kernel.NewUUID())
	suite.True(errs.IsNotFound(err))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSecondLiveOrderForSameDayIsRejected() {
	ctx := context.Background()
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, suite.newOrder(date)))

	err := suite.factory.Create().OrderRepository().Add(ctx, suite.newOrder(date))
	suite.Require().Error(err)
	suite.True(errs.IsConflict(err), "got %v", err)

	err = suite.factory.Create().OrderRepository().Add(ctx, suite.newOrder(date.AddDate(0, 0, 1)))
	suite.NoError(err, "another day is free")
}

// Two writers locking the same order run strictly one after another.
func (suite *UnitOfWorkIntegrationTestSuite) TestGetForUpdateSerializesWriters() {
	ctx := context.Background()
	o := suite.newOrder(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	locked, err := first.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)

	acquired := make(chan time.Time, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		second := suite.factory.Create()
		if beginErr := second.Begin(ctx); beginErr != nil {
			return
		}
		defer func() { _ = second.Rollback(ctx) }()
		if _, getErr := second.OrderRepository().GetForUpdate(ctx, o.ID()); getErr == nil {
			acquired <- time.Now()
		}
	}()

	time.Sleep(300 * time.Millisecond)
	released := time.Now()
	locked.Touch(kernel.NewUUID(), order.DefaultActor, released.UTC())
	suite.Require().NoError(first.OrderRepository().Update(ctx, locked))
	suite.Require().NoError(first.Commit(ctx))

	wg.Wait()
	select {
	case at := <-acquired:
		suite.False(at.Before(released), "second writer acquired the lock before the first released it")
	default:
		suite.Fail("second writer never acquired the lock")
	}
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
