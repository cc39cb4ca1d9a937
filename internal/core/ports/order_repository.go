package ports

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
)

// OrderRepository persists the Order aggregate together with its positions.
// Implementations bound to a transaction make GetForUpdate hold an exclusive
// row lock until the transaction ends.
type OrderRepository interface {
	// Add fails with *errs.AlreadyExistsError when a live order for the same
	// restaurant and day already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Update writes the order row and synchronises its positions: new ones are
	// inserted, changed ones updated, missing ones deleted.
	Update(ctx context.Context, aggregate *order.Order) error

	Delete(ctx context.Context, id kernel.UUID) error

	ExistsLive(ctx context.Context, restaurantID kernel.UUID, date time.Time) (bool, error)
}
