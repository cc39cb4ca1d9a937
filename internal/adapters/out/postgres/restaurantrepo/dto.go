package restaurantrepo

import (
	"github.com/google/uuid"
)

// RestaurantDTO mirrors the master data owned by restaurant management. Only
// the columns the order lifecycle reads are mapped.
type RestaurantDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}
