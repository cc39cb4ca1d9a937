package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres/orderrepo"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres/restaurantrepo"

	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const liveOrderIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS ux_meal_orders_live_restaurant_date
ON meal_orders (restaurant_id, target_date)
WHERE state IN ('NEW', 'OPEN', 'LOCKED')`

// Open connects through lib/pq and hands the pool to gorm. SQL slower than
// slowThreshold is logged at warn level.
func Open(dsn string, logger *slog.Logger, slowThreshold time.Duration) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.With("component", "gorm").Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             slowThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	return db, nil
}

// Migrate creates the order tables and the index that keeps at most one live
// order per restaurant and day.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&restaurantrepo.RestaurantDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.PositionDTO{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(liveOrderIndex).Error; err != nil {
		return fmt.Errorf("create live order index: %w", err)
	}
	return nil
}
