package restaurantrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRestaurantDirectory implements RestaurantDirectory using GORM.
type GormRestaurantDirectory struct {
	db *gorm.DB
}

// NewGormRestaurantDirectory creates a directory over db.
func NewGormRestaurantDirectory(db *gorm.DB) *GormRestaurantDirectory {
	return &GormRestaurantDirectory{db: db}
}

func (r *GormRestaurantDirectory) Exists(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&RestaurantDTO{}).
		Where("id = ?", id.Google()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRestaurantDirectory) Name(ctx context.Context, id kernel.UUID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}

	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return "", err
	}
	return dto.Name, nil
}

// Add registers a restaurant. Used to seed master data.
func (r *GormRestaurantDirectory) Add(ctx context.Context, id kernel.UUID, name string) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}

	dto := RestaurantDTO{ID: id.Google(), Name: name}
	return r.db.WithContext(ctx).Create(&dto).Error
}
