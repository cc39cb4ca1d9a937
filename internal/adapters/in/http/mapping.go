package http

import (
	"fmt"
	"strings"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/generated/servers"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toOrderResponse(o *order.Order) servers.Order {
	audit := o.Audit()
	stamps := o.Stamps()

	positions := make([]servers.OrderPosition, 0, len(o.Positions()))
	for i, p := range o.Positions() {
		positions = append(positions, servers.OrderPosition{
			Id:      p.ID().Google(),
			Index:   i + 1,
			Version: p.Version().Google(),
			Name:    p.Name(),
			Meal:    p.Meal(),
			Price:   moneyOut(p.Price()),
			Paid:    moneyOut(p.Paid()),
			Tip:     moneyOut(p.Tip()),
		})
	}

	return servers.Order{
		Id:             o.ID().Google(),
		RestaurantId:   o.RestaurantID().Google(),
		Date:           openapi_types.Date{Time: o.TargetDate()},
		OrderState:     servers.OrderState(o.Status().String()),
		Version:        o.Version().Google(),
		CreatedAt:      audit.CreatedAt,
		UpdatedAt:      audit.UpdatedAt,
		LockedAt:       stamps.LockedAt,
		OrderedAt:      stamps.OrderedAt,
		DeliveredAt:    stamps.DeliveredAt,
		RevokedAt:      stamps.RevokedAt,
		ArchivedAt:     stamps.ArchivedAt,
		Info:           toInfoResponse(o.Info()),
		OrderPositions: positions,
	}
}

func toInfoResponse(info order.Info) servers.OrderInfo {
	var collection *servers.MoneyCollectionType
	if info.MoneyCollectionType != order.CollectionUnset {
		t := servers.MoneyCollectionType(info.MoneyCollectionType)
		collection = &t
	}

	return servers.OrderInfo{
		Orderer:             optional(info.Orderer),
		Fetcher:             optional(info.Fetcher),
		MoneyCollector:      optional(info.MoneyCollector),
		MoneyCollectionType: collection,
		OrderClosingTime:    info.ClosingTime,
		OrderText:           optional(info.OrderText),
		MaximumMealsCount:   info.MaxMeals,
	}
}

func toInfo(body servers.OrderInfo) order.Info {
	info := order.Info{
		Orderer:        deref(body.Orderer),
		Fetcher:        deref(body.Fetcher),
		MoneyCollector: deref(body.MoneyCollector),
		ClosingTime:    body.OrderClosingTime,
		OrderText:      deref(body.OrderText),
		MaxMeals:       body.MaximumMealsCount,
	}
	if body.MoneyCollectionType != nil {
		info.MoneyCollectionType = order.MoneyCollectionType(*body.MoneyCollectionType)
	}
	return info
}

func toPositionData(body servers.OrderPositionChange) (order.PositionData, error) {
	price, err := moneyIn("price", body.Price)
	if err != nil {
		return order.PositionData{}, err
	}
	paid, err := moneyIn("paid", body.Paid)
	if err != nil {
		return order.PositionData{}, err
	}
	tip, err := moneyIn("tip", body.Tip)
	if err != nil {
		return order.PositionData{}, err
	}

	return order.PositionData{
		Name:  body.Name,
		Meal:  body.Meal,
		Price: price,
		Paid:  paid,
		Tip:   tip,
	}, nil
}

func moneyIn(name string, value *servers.Money) (*kernel.Money, error) {
	if value == nil {
		return nil, nil
	}
	m, err := kernel.MoneyFromString(*value)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &m, nil
}

func moneyOut(m *kernel.Money) *servers.Money {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}

// parseIfMatch accepts a bare UUID, a quoted or weak entity tag, and the
// wildcard, which disables the version check like an absent header.
func parseIfMatch(header *string) (*kernel.UUID, error) {
	if header == nil {
		return nil, nil
	}

	tag := strings.TrimSpace(*header)
	tag = strings.TrimPrefix(tag, "W/")
	tag = strings.Trim(tag, `"`)
	if tag == "" || tag == "*" {
		return nil, nil
	}

	version, err := kernel.UUIDFromString(tag)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("If-Match", err)
	}
	return &version, nil
}

func formatETag(version kernel.UUID) string {
	return fmt.Sprintf("%q", version.String())
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
