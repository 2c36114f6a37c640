// Package database owns the gorm connection, schema migration and the
// transaction boundary every mutating use-case runs inside.
package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
	budgetdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/domain"
	txdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/domain"
	categorydomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
	notificationdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
	projectiondomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/domain"
	savingsdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/domain"
	userdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
)

// DB wraps the gorm handle and provides transaction-aware access for the
// repositories.
type DB struct {
	gorm *gorm.DB
}

// New opens the postgres connection pool and runs migrations.
func New(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := &DB{gorm: gdb}
	if err := db.Migrate(); err != nil {
		return nil, err
	}
	logger.Info("database ready")
	return db, nil
}

// NewWithGorm wraps an already opened gorm handle. Tests use this with an
// in-memory sqlite database.
func NewWithGorm(gdb *gorm.DB) *DB {
	return &DB{gorm: gdb}
}

// Migrate creates the schema and the constraint indexes gorm tags cannot
// express.
func (d *DB) Migrate() error {
	if err := d.gorm.AutoMigrate(
		&userdomain.User{},
		&categorydomain.Category{},
		&txdomain.Transaction{},
		&budgetdomain.Budget{},
		&savingsdomain.SavingsGoal{},
		&savingsdomain.Installment{},
		&savingsdomain.Contribution{},
		&projectiondomain.Projection{},
		&notificationdomain.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// At most one ACTIVE budget per (user, category). Partial index, so
	// INACTIVE history rows do not collide.
	if err := d.gorm.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_budgets_active_user_category
		 ON budgets (user_id, category_id)
		 WHERE state = 'ACTIVE' AND deleted_at IS NULL`,
	).Error; err != nil {
		return fmt.Errorf("create budget partial index: %w", err)
	}

	if err := d.gorm.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_savings_goals_user_name
		 ON savings_goals (user_id, name)
		 WHERE deleted_at IS NULL`,
	).Error; err != nil {
		return fmt.Errorf("create goal name index: %w", err)
	}
	return nil
}

// Ping verifies connectivity for the health endpoint.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close shuts the connection pool down.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
