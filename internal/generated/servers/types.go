// Package servers holds the HTTP contract of the order API: the wire types,
// the ServerInterface implemented by the echo adapter, the parameter binding
// wrapper and the OpenAPI document everything is derived from.
//
// Keep the types in sync with openapi.yaml.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for OrderState.
const (
	OrderStateNEW       OrderState = "NEW"
	OrderStateOPEN      OrderState = "OPEN"
	OrderStateLOCKED    OrderState = "LOCKED"
	OrderStateORDERED   OrderState = "ORDERED"
	OrderStateDELIVERED OrderState = "DELIVERED"
	OrderStateREVOKED   OrderState = "REVOKED"
	OrderStateARCHIVED  OrderState = "ARCHIVED"
)

// Defines values for MoneyCollectionType.
const (
	MoneyCollectionTypePAYPAL MoneyCollectionType = "PAYPAL"
	MoneyCollectionTypeBAR    MoneyCollectionType = "BAR"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Money is a non-negative decimal amount with at most two fraction digits.
type Money = string

// MoneyCollectionType defines model for MoneyCollectionType.
type MoneyCollectionType string

// NewOrder defines model for NewOrder.
type NewOrder struct {
	Date         openapi_types.Date `json:"date"`
	RestaurantId openapi_types.UUID `json:"restaurantId"`
}

// Order defines model for Order.
type Order struct {
	ArchivedAt     *time.Time         `json:"archivedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	Date           openapi_types.Date `json:"date"`
	DeliveredAt    *time.Time         `json:"deliveredAt,omitempty"`
	Id             openapi_types.UUID `json:"id"`
	Info           OrderInfo          `json:"info"`
	LockedAt       *time.Time         `json:"lockedAt,omitempty"`
	OrderPositions []OrderPosition    `json:"orderPositions"`
	OrderState     OrderState         `json:"orderState"`
	OrderedAt      *time.Time         `json:"orderedAt,omitempty"`
	RestaurantId   openapi_types.UUID `json:"restaurantId"`
	RevokedAt      *time.Time         `json:"revokedAt,omitempty"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	Version        openapi_types.UUID `json:"version"`
}

// OrderInfo defines model for OrderInfo.
type OrderInfo struct {
	Fetcher             *string              `json:"fetcher,omitempty"`
	MaximumMealsCount   *int                 `json:"maximumMealsCount,omitempty"`
	MoneyCollectionType *MoneyCollectionType `json:"moneyCollectionType,omitempty"`
	MoneyCollector      *string              `json:"moneyCollector,omitempty"`
	OrderClosingTime    *time.Time           `json:"orderClosingTime,omitempty"`
	OrderText           *string              `json:"orderText,omitempty"`
	Orderer             *string              `json:"orderer,omitempty"`
}

// OrderPosition defines model for OrderPosition.
type OrderPosition struct {
	Id      openapi_types.UUID `json:"id"`
	Index   int                `json:"index"`
	Meal    string             `json:"meal"`
	Name    string             `json:"name"`
	Paid    *Money             `json:"paid,omitempty"`
	Price   *Money             `json:"price,omitempty"`
	Tip     *Money             `json:"tip,omitempty"`
	Version openapi_types.UUID `json:"version"`
}

// OrderPositionChange defines model for OrderPositionChange.
type OrderPositionChange struct {
	Meal  string `json:"meal"`
	Name  string `json:"name"`
	Paid  *Money `json:"paid,omitempty"`
	Price *Money `json:"price,omitempty"`
	Tip   *Money `json:"tip,omitempty"`
}

// OrderState defines model for OrderState.
type OrderState string

// Restaurant defines model for Restaurant.
type Restaurant struct {
	Id   openapi_types.UUID `json:"id"`
	Name string             `json:"name"`
}

// IfMatch defines model for IfMatch.
type IfMatch = string

// OrderId defines model for OrderId.
type OrderId = openapi_types.UUID

// PositionId defines model for PositionId.
type PositionId = openapi_types.UUID

// VersionParams carries the optional If-Match header of a change request.
type VersionParams struct {
	IfMatch *IfMatch `json:"If-Match,omitempty"`
}

// ListOrderableRestaurantsParams defines parameters for ListOrderableRestaurants.
type ListOrderableRestaurantsParams struct {
	Date openapi_types.Date `form:"date" json:"date"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// UpdateOrderInfoJSONRequestBody defines body for UpdateOrderInfo for application/json ContentType.
type UpdateOrderInfoJSONRequestBody = OrderInfo

// AddOrderPositionJSONRequestBody defines body for AddOrderPosition for application/json ContentType.
type AddOrderPositionJSONRequestBody = OrderPositionChange

// UpdateOrderPositionJSONRequestBody defines body for UpdateOrderPosition for application/json ContentType.
type UpdateOrderPositionJSONRequestBody = OrderPositionChange
