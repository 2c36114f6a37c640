package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/domain"
)

// Repository defines the interface for budget data access.
type Repository interface {
	// Create persists a new budget. The store enforces the one-ACTIVE-per
	// (user, category) invariant through a partial unique index; a
	// violation surfaces as a duplicated-key error.
	Create(ctx context.Context, budget *domain.Budget) error

	// FindByPublicID retrieves a budget by public uuid, regardless of
	// owner.
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Budget, error)

	// FindByPublicIDForUpdate is FindByPublicID with a row write lock;
	// callers must be inside a transaction.
	FindByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (*domain.Budget, error)

	// FindActiveByUserAndCategoryForUpdate retrieves the single non-
	// INACTIVE budget for (user, category) with a row write lock, or
	// gorm.ErrRecordNotFound.
	FindActiveByUserAndCategoryForUpdate(ctx context.Context, userID, categoryID uint) (*domain.Budget, error)

	// FindByIDForUpdate retrieves a budget by internal id with a row
	// write lock.
	FindByIDForUpdate(ctx context.Context, id uint) (*domain.Budget, error)

	// ListByUser retrieves all budgets for a user.
	ListByUser(ctx context.Context, userID uint) ([]domain.Budget, error)

	// ListCurrent retrieves the user's non-INACTIVE budgets whose window
	// contains today.
	ListCurrent(ctx context.Context, userID uint, today time.Time) ([]domain.Budget, error)

	// ListNearLimit retrieves the user's non-INACTIVE budgets with
	// consumed/cap at or above the threshold.
	ListNearLimit(ctx context.Context, userID uint, threshold float64) ([]domain.Budget, error)

	// ListPendingProcessing retrieves budgets the renewal pass must
	// handle at the given date: ended before it and still ACTIVE or
	// OVER, regardless of the auto-renew flag.
	ListPendingProcessing(ctx context.Context, date time.Time) ([]domain.Budget, error)

	// Update persists changes to an existing budget.
	Update(ctx context.Context, budget *domain.Budget) error

	// Delete removes a budget.
	Delete(ctx context.Context, id uint) error
}
