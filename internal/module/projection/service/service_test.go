package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	budgetdto "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/dto"
	budgetrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/repository"
	budgetservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/service"
	txrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/repository"
	txservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/service"
	categorydomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
	categoryrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	notificationdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, uint, notificationdomain.Kind, map[string]interface{}) {}

type fixture struct {
	db      *database.DB
	svc     service.Service
	ledger  txservice.Service
	budgets budgetservice.Service
	expense *categorydomain.Category
	income  *categorydomain.Category
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	db := database.NewWithGorm(gdb)
	require.NoError(t, db.Migrate())

	expense := &categorydomain.Category{Name: "Rent", Type: categorydomain.TypeExpense, Predefined: true}
	income := &categorydomain.Category{Name: "Salary", Type: categorydomain.TypeIncome, Predefined: true}
	require.NoError(t, db.Conn(context.Background()).Create(expense).Error)
	require.NoError(t, db.Conn(context.Background()).Create(income).Error)

	publisher := noopPublisher{}
	txRepo := txrepository.NewGormRepository(db)
	categoryRepo := categoryrepository.NewGormRepository(db)
	budgets := budgetservice.New(budgetrepository.NewGormRepository(db), txRepo, categoryRepo, db, publisher, zap.NewNop())
	ledger := txservice.New(txRepo, categoryRepo, budgets, db, nil, 0, publisher, zap.NewNop())
	svc := service.New(repository.NewGormRepository(db), categoryRepo, ledger, db, zap.NewNop())

	return &fixture{db: db, svc: svc, ledger: ledger, budgets: budgets, expense: expense, income: income}
}

func salaryReq(categoryID uint) dto.CreateProjectionRequest {
	return dto.CreateProjectionRequest{
		Name:       "Monthly salary",
		Amount:     900000,
		Type:       "INCOME",
		CategoryID: categoryID,
		Frequency:  "MONTHLY",
		StartDate:  "2026-01-01",
	}
}

func TestCreateValidatesCategoryCompatibility(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, 1, salaryReq(f.income.ID))
	require.NoError(t, err)

	// INCOME template on an EXPENSE category is rejected.
	_, err = f.svc.Create(ctx, 1, salaryReq(f.expense.ID))
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestExecuteMaterializesEntry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	projection, err := f.svc.Create(ctx, 1, salaryReq(f.income.ID))
	require.NoError(t, err)
	assert.Nil(t, projection.LastExecuted)

	entry, err := f.svc.Execute(ctx, 1, projection.ID)
	require.NoError(t, err)
	assert.Equal(t, 900000.0, entry.Amount)
	assert.Equal(t, "INCOME", entry.Type)
	require.NotNil(t, entry.ProjectionID)
	assert.Equal(t, projection.ID, *entry.ProjectionID)
	assert.Equal(t, period.Date(time.Now()).Format("2006-01-02"), entry.Date)

	fresh, err := f.svc.Get(ctx, 1, projection.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.LastExecuted)
}

func TestExecuteExpenseSettlesBudget(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	today := period.Date(time.Now())
	budget, err := f.budgets.Create(ctx, 1, budgetdto.CreateBudgetRequest{
		CategoryID: f.expense.ID,
		CapAmount:  1000000,
		StartDate:  today.AddDate(0, 0, -5).Format("2006-01-02"),
		EndDate:    today.AddDate(0, 1, 0).Format("2006-01-02"),
		Frequency:  "MONTHLY",
	})
	require.NoError(t, err)

	projection, err := f.svc.Create(ctx, 1, dto.CreateProjectionRequest{
		Name:       "Rent",
		Amount:     400000,
		Type:       "EXPENSE",
		CategoryID: f.expense.ID,
		Frequency:  "MONTHLY",
		StartDate:  "2026-01-01",
	})
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx, 1, projection.ID)
	require.NoError(t, err)

	budgets, err := f.budgets.Get(ctx, 1, budget.PublicID)
	require.NoError(t, err)
	assert.Equal(t, 400000.0, budgets.ConsumedAmount)
}

func TestExecuteInactiveConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	projection, err := f.svc.Create(ctx, 1, salaryReq(f.income.ID))
	require.NoError(t, err)

	inactive := false
	_, err = f.svc.Update(ctx, 1, projection.ID, dto.UpdateProjectionRequest{
		Name:       projection.Name,
		Amount:     projection.Amount,
		Type:       "INCOME",
		CategoryID: f.income.ID,
		Frequency:  "MONTHLY",
		StartDate:  "2026-01-01",
		Active:     &inactive,
	})
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx, 1, projection.ID)
	assert.True(t, apperr.Is(err, apperr.CodeStateConflict))
}

func TestOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	projection, err := f.svc.Create(ctx, 1, salaryReq(f.income.ID))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, 2, projection.ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	_, err = f.svc.Execute(ctx, 2, projection.ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	_, err = f.svc.Get(ctx, 2, 99999)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	projection, err := f.svc.Create(ctx, 1, salaryReq(f.income.ID))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, 1, projection.ID))

	_, err = f.svc.Get(ctx, 1, projection.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
