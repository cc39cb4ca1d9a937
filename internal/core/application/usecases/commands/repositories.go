package commands

import (
	"context"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	RestaurantDirectoryFactory interface {
		RestaurantDirectory() ports.RestaurantDirectory
	}

	OrderUoW interface {
		TxManager
		OrderRepoFactory
		RestaurantDirectoryFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}
)
