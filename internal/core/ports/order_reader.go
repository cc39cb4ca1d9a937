package ports

import (
	"context"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
)

// DeletionCutoffs select orders the reaper removes. An order qualifies if it
// is NEW or OPEN and was created before CreatedBefore, or is not ARCHIVED and
// was last updated before UntouchedBefore, or is REVOKED and was revoked
// before RevokedBefore.
type DeletionCutoffs struct {
	CreatedBefore   time.Time
	UntouchedBefore time.Time
	RevokedBefore   time.Time
}

// OrderReader serves the read side without locking.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindVisible returns every order that is neither ARCHIVED nor REVOKED,
	// plus those closed at or after closedSince, newest first.
	FindVisible(ctx context.Context, closedSince time.Time) ([]*order.Order, error)

	// FindDueForDeletion returns at most limit ids, oldest first.
	FindDueForDeletion(ctx context.Context, cutoffs DeletionCutoffs, limit int) ([]kernel.UUID, error)

	// FindStampedBefore returns ids of orders in status whose stamp for that
	// status lies before the given instant. Only LOCKED, ORDERED, DELIVERED and
	// REVOKED carry such a stamp.
	FindStampedBefore(ctx context.Context, status order.Status, before time.Time, limit int) ([]kernel.UUID, error)

	FindInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)
}
