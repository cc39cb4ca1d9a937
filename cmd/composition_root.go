package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	httpin "github.com/Skym0sh0/in-the-mealtime/internal/adapters/in/http"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/amqp"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres/orderrepo"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres/restaurantrepo"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/rocketchat"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/observers"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/queries"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/jobs"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// CompositionRoot owns the wiring of adapters, handlers and the
// housekeeping job.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	reader     *orderrepo.GormOrderReader
	clock      clock.Clock
	aggregator *observers.Aggregator
	logger     *slog.Logger

	createOrder     commands.CreateOrderCommandHandler
	updateOrderInfo commands.UpdateOrderInfoCommandHandler
	addPosition     commands.AddOrderPositionCommandHandler
	updatePosition  commands.UpdateOrderPositionCommandHandler
	removePosition  commands.RemoveOrderPositionCommandHandler
	changeState     commands.ChangeOrderStateCommandHandler
	deleteOrder     commands.DeleteOrderCommandHandler

	housekeeping *jobs.HousekeepingJob
	broker       *amqp.Connection
}

// NewCompositionRoot wires the use cases and the observers. The broker is
// dialed here when enabled; Close releases it.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		reader:     orderrepo.NewGormOrderReader(gormDB),
		clock:      clock.Real(),
		aggregator: observers.NewAggregator(logger),
		logger:     logger,
	}

	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})

	c.createOrder = commands.NewCreateOrderCommandHandler(f, c.aggregator, c.clock)
	c.updateOrderInfo = commands.NewUpdateOrderInfoCommandHandler(f, c.aggregator, c.clock)
	c.addPosition = commands.NewAddOrderPositionCommandHandler(f, c.aggregator, c.clock)
	c.updatePosition = commands.NewUpdateOrderPositionCommandHandler(f, c.aggregator, c.clock)
	c.removePosition = commands.NewRemoveOrderPositionCommandHandler(f, c.aggregator, c.clock)
	c.changeState = commands.NewChangeOrderStateCommandHandler(f, c.aggregator, c.clock)
	c.deleteOrder = commands.NewDeleteOrderCommandHandler(f, c.aggregator, c.clock)

	c.housekeeping = c.createHousekeepingJob()
	c.aggregator.Register(c.housekeeping.Observer())

	if err := c.registerNotificationObservers(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) createHousekeepingJob() *jobs.HousekeepingJob {
	orders := c.config.Orders
	return jobs.NewHousekeepingJob(
		c.CreateGetOrderQueryHandler(),
		queries.NewGetOverdueOrdersQueryHandler(c.reader, c.clock, orders.StateTimeouts.Domain(), queries.OverdueBatchSizes{
			Deletion:   orders.DeletionBatchSize,
			Transition: orders.TransitionBatchSize,
		}),
		queries.NewGetOrdersInStatusQueryHandler(c.reader, orders.RescheduleBatchSize),
		&c.changeState,
		&c.deleteOrder,
		c.config.Housekeeping(),
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) registerNotificationObservers() error {
	if c.config.AMQP.Enabled {
		conn, err := amqp.Dial(c.config.AMQP.URL)
		if err != nil {
			return err
		}

		broadcaster, err := amqp.NewBroadcaster(conn.Channel(), c.config.AMQP.Exchange, c.logger)
		if err != nil {
			_ = conn.Close()
			return err
		}
		c.broker = conn
		c.aggregator.Register(broadcaster.Observer())
	}

	if c.config.RocketChat.Enabled {
		notifier := rocketchat.NewNotifier(
			rocketchat.NewClient(c.config.RocketChat.Client(), nil),
			restaurantrepo.NewGormRestaurantDirectory(c.gormDB),
			c.config.WebBaseURL,
			c.logger,
		)
		c.aggregator.Register(notifier.Observer())
	}

	return nil
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.reader, c.clock, c.config.Orders.ClosedOrderLingering)
}

func (c *CompositionRoot) CreateGetOrderableRestaurantsQueryHandler() queries.GetOrderableRestaurantsQueryHandler {
	return queries.NewGetOrderableRestaurantsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.housekeeping)
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server, err := httpin.NewServer(httpin.Handlers{
		CreateOrder:          &c.createOrder,
		UpdateOrderInfo:      &c.updateOrderInfo,
		AddPosition:          &c.addPosition,
		UpdatePosition:       &c.updatePosition,
		RemovePosition:       &c.removePosition,
		ChangeState:          &c.changeState,
		DeleteOrder:          &c.deleteOrder,
		GetOrder:             c.CreateGetOrderQueryHandler(),
		GetOrders:            c.CreateGetOrdersQueryHandler(),
		OrderableRestaurants: c.CreateGetOrderableRestaurantsQueryHandler(),
	}, c.logger)
	if err != nil {
		return nil, err
	}
	return httpin.NewRouter(server, c.logger)
}

type restaurantSeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// SeedRestaurants registers the restaurants listed in the configured seed
// file that are not known yet.
func (c *CompositionRoot) SeedRestaurants(ctx context.Context) error {
	path := c.config.DB.SeedFile
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read restaurant seed %s: %w", path, err)
	}

	var seeds []restaurantSeed
	if err = yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse restaurant seed %s: %w", path, err)
	}

	directory := restaurantrepo.NewGormRestaurantDirectory(c.gormDB)
	var seedErrs []error
	for _, seed := range seeds {
		id, err := kernel.UUIDFromString(seed.ID)
		if err != nil {
			seedErrs = append(seedErrs, err)
			continue
		}

		exists, err := directory.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err = directory.Add(ctx, id, seed.Name); err != nil {
			seedErrs = append(seedErrs, err)
			continue
		}
		c.logger.InfoContext(ctx, "Seeded restaurant", "restaurant_id", id.String(), "name", seed.Name)
	}
	return errors.Join(seedErrs...)
}

func (c *CompositionRoot) Close() error {
	if c.broker == nil {
		return nil
	}
	return c.broker.Close()
}

// FuncOrderUoWFactory adapts a function to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
