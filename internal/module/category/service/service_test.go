package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

func setup(t *testing.T) (service.Service, *database.DB) {
	t.Helper()
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	db := database.NewWithGorm(gdb)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.SeedCategories())

	return service.New(repository.NewGormRepository(db)), db
}

func TestListPredefined(t *testing.T) {
	svc, _ := setup(t)

	categories, err := svc.ListPredefined(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	names := make(map[string]domain.Type, len(categories))
	for _, c := range categories {
		assert.True(t, c.Predefined)
		names[c.Name] = c.Type
	}
	assert.Equal(t, domain.TypeIncome, names["Salary"])
	assert.Equal(t, domain.TypeExpense, names["Food"])
	assert.Equal(t, domain.TypeBoth, names["Other"])
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, db := setup(t)

	require.NoError(t, db.SeedCategories())
	first, err := svc.ListPredefined(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.SeedCategories())
	second, err := svc.ListPredefined(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}

func TestListByType(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	incomes, err := svc.ListByType(ctx, "INCOME")
	require.NoError(t, err)
	require.NotEmpty(t, incomes)
	for _, c := range incomes {
		// BOTH categories serve either side.
		assert.True(t, c.Type == domain.TypeIncome || c.Type == domain.TypeBoth)
	}

	_, err = svc.ListByType(ctx, "BOTH")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = svc.ListByType(ctx, "SIDEWAYS")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestGet(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	categories, err := svc.ListPredefined(ctx)
	require.NoError(t, err)

	got, err := svc.Get(ctx, categories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, categories[0].Name, got.Name)

	_, err = svc.Get(ctx, 99999)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
