package orderrepo

import (
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is a row of meal_orders.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index:idx_meal_orders_restaurant_date"`
	TargetDate   time.Time `gorm:"type:date;not null;index:idx_meal_orders_restaurant_date"`
	State        string    `gorm:"type:varchar(16);not null;index"`
	Version      uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null"`

	LockedAt    *time.Time
	OrderedAt   *time.Time
	DeliveredAt *time.Time
	RevokedAt   *time.Time
	ArchivedAt  *time.Time

	Orderer             string `gorm:"type:varchar(255)"`
	Fetcher             string `gorm:"type:varchar(255)"`
	MoneyCollector      string `gorm:"type:varchar(255)"`
	MoneyCollectionType string `gorm:"type:varchar(16)"`
	OrderClosingTime    *time.Time
	OrderText           string `gorm:"type:text"`
	MaxMeals            *int

	Positions []PositionDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "meal_orders"
}

// PositionDTO is a row of order_positions.
type PositionDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Ordinal int       `gorm:"not null"`
	Version uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null"`

	Name  string              `gorm:"type:varchar(255);not null"`
	Meal  string              `gorm:"type:text;not null"`
	Price decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Paid  decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Tip   decimal.NullDecimal `gorm:"type:numeric(10,2)"`
}

func (PositionDTO) TableName() string {
	return "order_positions"
}

func fromDomain(o *order.Order) OrderDTO {
	audit := o.Audit()
	stamps := o.Stamps()
	info := o.Info()

	dto := OrderDTO{
		ID:                  o.ID().Google(),
		RestaurantID:        o.RestaurantID().Google(),
		TargetDate:          o.TargetDate(),
		State:               o.Status().String(),
		Version:             o.Version().Google(),
		CreatedAt:           audit.CreatedAt,
		CreatedBy:           audit.CreatedBy.Google(),
		UpdatedAt:           audit.UpdatedAt,
		UpdatedBy:           audit.UpdatedBy.Google(),
		LockedAt:            stamps.LockedAt,
		OrderedAt:           stamps.OrderedAt,
		DeliveredAt:         stamps.DeliveredAt,
		RevokedAt:           stamps.RevokedAt,
		ArchivedAt:          stamps.ArchivedAt,
		Orderer:             info.Orderer,
		Fetcher:             info.Fetcher,
		MoneyCollector:      info.MoneyCollector,
		MoneyCollectionType: string(info.MoneyCollectionType),
		OrderClosingTime:    info.ClosingTime,
		OrderText:           info.OrderText,
		MaxMeals:            info.MaxMeals,
	}

	for _, p := range o.Positions() {
		dto.Positions = append(dto.Positions, positionFromDomain(o.ID(), p))
	}

	return dto
}

func positionFromDomain(orderID kernel.UUID, p *order.Position) PositionDTO {
	audit := p.Audit()
	return PositionDTO{
		ID:        p.ID().Google(),
		OrderID:   orderID.Google(),
		Ordinal:   p.Ordinal(),
		Version:   p.Version().Google(),
		CreatedAt: audit.CreatedAt,
		CreatedBy: audit.CreatedBy.Google(),
		UpdatedAt: audit.UpdatedAt,
		UpdatedBy: audit.UpdatedBy.Google(),
		Name:      p.Name(),
		Meal:      p.Meal(),
		Price:     moneyToColumn(p.Price()),
		Paid:      moneyToColumn(p.Paid()),
		Tip:       moneyToColumn(p.Tip()),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := uuids(dto.ID, dto.RestaurantID, dto.Version, dto.CreatedBy, dto.UpdatedBy)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.State)
	if err != nil {
		return nil, err
	}

	positions := make([]*order.Position, 0, len(dto.Positions))
	for _, p := range dto.Positions {
		position, posErr := positionToDomain(p)
		if posErr != nil {
			return nil, posErr
		}
		positions = append(positions, position)
	}

	return order.RestoreOrder(
		ids[0], ids[1],
		dto.TargetDate,
		status,
		ids[2],
		order.Audit{
			CreatedAt: dto.CreatedAt.UTC(),
			CreatedBy: ids[3],
			UpdatedAt: dto.UpdatedAt.UTC(),
			UpdatedBy: ids[4],
		},
		order.StateStamps{
			LockedAt:    utc(dto.LockedAt),
			OrderedAt:   utc(dto.OrderedAt),
			DeliveredAt: utc(dto.DeliveredAt),
			RevokedAt:   utc(dto.RevokedAt),
			ArchivedAt:  utc(dto.ArchivedAt),
		},
		order.Info{
			Orderer:             dto.Orderer,
			Fetcher:             dto.Fetcher,
			MoneyCollector:      dto.MoneyCollector,
			MoneyCollectionType: order.MoneyCollectionType(dto.MoneyCollectionType),
			ClosingTime:         utc(dto.OrderClosingTime),
			OrderText:           dto.OrderText,
			MaxMeals:            dto.MaxMeals,
		},
		positions,
	)
}

func positionToDomain(dto PositionDTO) (*order.Position, error) {
	ids, err := uuids(dto.ID, dto.Version, dto.CreatedBy, dto.UpdatedBy)
	if err != nil {
		return nil, err
	}

	price, err := moneyFromColumn(dto.Price)
	if err != nil {
		return nil, err
	}
	paid, err := moneyFromColumn(dto.Paid)
	if err != nil {
		return nil, err
	}
	tip, err := moneyFromColumn(dto.Tip)
	if err != nil {
		return nil, err
	}

	return order.RestorePosition(ids[0], dto.Ordinal, ids[1],
		order.Audit{
			CreatedAt: dto.CreatedAt.UTC(),
			CreatedBy: ids[2],
			UpdatedAt: dto.UpdatedAt.UTC(),
			UpdatedBy: ids[3],
		},
		order.PositionData{Name: dto.Name, Meal: dto.Meal, Price: price, Paid: paid, Tip: tip},
	)
}

func uuids(raw ...uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromGoogle(r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func moneyToColumn(m *kernel.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(m.Decimal())
}

func moneyFromColumn(col decimal.NullDecimal) (*kernel.Money, error) {
	if !col.Valid {
		return nil, nil
	}
	m, err := kernel.NewMoney(col.Decimal)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
