package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/domain"
)

type gormRepository struct {
	db *database.DB
}

// NewGormRepository creates the gorm-backed budget repository.
func NewGormRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, budget *domain.Budget) error {
	return r.db.Conn(ctx).Create(budget).Error
}

func (r *gormRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Budget, error) {
	var budget domain.Budget
	if err := r.db.Conn(ctx).Where("public_id = ?", publicID).First(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *gormRepository) FindByPublicIDForUpdate(ctx context.Context, publicID uuid.UUID) (*domain.Budget, error) {
	var budget domain.Budget
	if err := database.LockForUpdate(r.db.Conn(ctx)).
		Where("public_id = ?", publicID).
		First(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *gormRepository) FindActiveByUserAndCategoryForUpdate(ctx context.Context, userID, categoryID uint) (*domain.Budget, error) {
	var budget domain.Budget
	if err := database.LockForUpdate(r.db.Conn(ctx)).
		Where("user_id = ? AND category_id = ? AND state IN ?",
			userID, categoryID, []domain.State{domain.StateActive, domain.StateOver}).
		First(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *gormRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Budget, error) {
	var budget domain.Budget
	if err := database.LockForUpdate(r.db.Conn(ctx)).First(&budget, id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Budget, error) {
	var budgets []domain.Budget
	if err := r.db.Conn(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *gormRepository) ListCurrent(ctx context.Context, userID uint, today time.Time) ([]domain.Budget, error) {
	var budgets []domain.Budget
	if err := r.db.Conn(ctx).
		Where("user_id = ? AND state IN ? AND start_date <= ? AND end_date >= ?",
			userID, []domain.State{domain.StateActive, domain.StateOver}, today, today).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *gormRepository) ListNearLimit(ctx context.Context, userID uint, threshold float64) ([]domain.Budget, error) {
	var budgets []domain.Budget
	if err := r.db.Conn(ctx).
		Where("user_id = ? AND state IN ? AND consumed_amount >= cap_amount * ?",
			userID, []domain.State{domain.StateActive, domain.StateOver}, threshold).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *gormRepository) ListPendingProcessing(ctx context.Context, date time.Time) ([]domain.Budget, error) {
	var budgets []domain.Budget
	if err := r.db.Conn(ctx).
		Where("end_date < ? AND state IN ?",
			date, []domain.State{domain.StateActive, domain.StateOver}).
		Order("id").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *gormRepository) Update(ctx context.Context, budget *domain.Budget) error {
	return r.db.Conn(ctx).Save(budget).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.Conn(ctx).Delete(&domain.Budget{}, id).Error
}
