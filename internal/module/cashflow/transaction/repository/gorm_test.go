package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/repository"
)

func setup(t *testing.T) (repository.Repository, *database.DB) {
	t.Helper()
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	db := database.NewWithGorm(gdb)
	require.NoError(t, db.Migrate())
	return repository.NewGormRepository(db), db
}

func entry(userID uint, amount float64) *domain.Transaction {
	return &domain.Transaction{
		UserID:     userID,
		CategoryID: 1,
		Amount:     amount,
		Type:       domain.TypeExpense,
		Date:       time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestFindByIDForUpdate(t *testing.T) {
	repo, db := setup(t)
	ctx := context.Background()

	created := entry(1, 100000)
	require.NoError(t, repo.Create(ctx, created))

	// The locked read joins the enclosing transaction: a write made
	// inside the tx is visible to it before commit.
	err := db.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := repo.FindByIDForUpdate(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 100000.0, locked.Amount)

		locked.Amount = 300000
		require.NoError(t, repo.Update(ctx, locked))

		again, err := repo.FindByIDForUpdate(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 300000.0, again.Amount)
		return nil
	})
	require.NoError(t, err)

	fresh, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 300000.0, fresh.Amount)
}

func TestFindByIDForUpdateMissing(t *testing.T) {
	repo, db := setup(t)

	err := db.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := repo.FindByIDForUpdate(ctx, 99999)
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
