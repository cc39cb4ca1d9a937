package ports

import (
	"context"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
)

// RestaurantDirectory is the lookup into restaurant master data, which is
// maintained elsewhere.
type RestaurantDirectory interface {
	Exists(ctx context.Context, id kernel.UUID) (bool, error)

	Name(ctx context.Context, id kernel.UUID) (string, error)
}
