package queries

import (
	"context"
	"errors"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGetOrderableRestaurantsQueryIsNotConstructed = errors.New(
	"GetOrderableRestaurantsQuery must be created via NewGetOrderableRestaurantsQuery constructor",
)

// GetOrderableRestaurantsQuery asks for the restaurants without a live order
// on a day.
type GetOrderableRestaurantsQuery struct {
	date time.Time

	guard guard.ConstructorGuard
}

// NewGetOrderableRestaurantsQuery creates a query for date.
func NewGetOrderableRestaurantsQuery(date time.Time) (GetOrderableRestaurantsQuery, error) {
	if date.IsZero() {
		return GetOrderableRestaurantsQuery{}, errs.NewValueIsRequiredError("date")
	}
	return GetOrderableRestaurantsQuery{date: order.NormalizeDate(date), guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderableRestaurantsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderableRestaurantsQueryIsNotConstructed)
}

// GetOrderableRestaurantsQueryResponse is one orderable restaurant.
type GetOrderableRestaurantsQueryResponse struct {
	ID   kernel.UUID
	Name string
}

// GetOrderableRestaurantsQueryHandler lists restaurants without a live order
// on the requested day.
type GetOrderableRestaurantsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderableRestaurantsQueryHandler creates a handler that reads
// directly from the database.
func NewGetOrderableRestaurantsQueryHandler(db *gorm.DB) GetOrderableRestaurantsQueryHandler {
	return GetOrderableRestaurantsQueryHandler{db: db}
}

func (h GetOrderableRestaurantsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderableRestaurantsQuery,
) ([]GetOrderableRestaurantsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	restaurants := make([]GetOrderableRestaurantsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.name
		FROM restaurants r
		WHERE NOT EXISTS (
			SELECT 1 FROM meal_orders o
			WHERE o.restaurant_id = r.id
			  AND o.target_date = ?
			  AND o.state IN ?
		)
		ORDER BY r.name, r.id
	`, query.date.Format(time.DateOnly), order.StatusNames(order.LiveStatuses...)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var resp GetOrderableRestaurantsQueryResponse

		if err = rows.Scan(&id, &resp.Name); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return restaurants, nil
}
