package ports

import (
	"context"
)

// UnitOfWorkFactory hands out fresh units of work.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes repositories to one database transaction. Repositories
// obtained before Begin operate outside of any transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	RestaurantDirectory() RestaurantDirectory
}
