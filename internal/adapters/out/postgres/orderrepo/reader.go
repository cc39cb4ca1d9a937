package orderrepo

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/ports"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var stampColumns = map[order.Status]string{
	order.Locked:    "locked_at",
	order.Ordered:   "ordered_at",
	order.Delivered: "delivered_at",
	order.Revoked:   "revoked_at",
}

// GormOrderReader serves lock-free reads for queries and housekeeping.
type GormOrderReader struct {
	db *gorm.DB
}

// NewGormOrderReader creates a reader over db.
func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

func (r *GormOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return NewGormOrderRepository(r.db).Get(ctx, id)
}

func (r *GormOrderReader) FindVisible(ctx context.Context, closedSince time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withPositions(ctx).
		Where("state NOT IN ? OR archived_at >= ? OR revoked_at >= ?",
			order.StatusNames(order.Archived, order.Revoked), closedSince, closedSince).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormOrderReader) FindDueForDeletion(ctx context.Context, cutoffs ports.DeletionCutoffs, limit int) ([]kernel.UUID, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT id FROM meal_orders
		WHERE (state IN (?) AND created_at < ?)
		   OR (state <> ? AND updated_at < ?)
		   OR (state = ? AND revoked_at < ?)
		ORDER BY created_at
		LIMIT ?`,
		order.StatusNames(order.New, order.Open), cutoffs.CreatedBefore,
		order.Archived.String(), cutoffs.UntouchedBefore,
		order.Revoked.String(), cutoffs.RevokedBefore,
		limit,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *GormOrderReader) FindStampedBefore(ctx context.Context, status order.Status, before time.Time, limit int) ([]kernel.UUID, error) {
	column, ok := stampColumns[status]
	if !ok {
		return nil, errs.NewValueIsInvalidError("status")
	}

	rows, err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("id").
		Where("state = ? AND "+column+" < ?", status.String(), before).
		Order(column).
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *GormOrderReader) FindInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withPositions(ctx).
		Where("state = ?", status.String()).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormOrderReader) withPositions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Positions", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordinal")
	})
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanIDs(rows rowScanner) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := kernel.UUIDFromGoogle(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
