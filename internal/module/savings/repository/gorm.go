package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/domain"
)

type gormRepository struct {
	db *database.DB
}

// NewGormRepository creates the gorm-backed savings repository.
func NewGormRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateGoal(ctx context.Context, goal *domain.SavingsGoal) error {
	return r.db.Conn(ctx).Create(goal).Error
}

func (r *gormRepository) FindGoalByID(ctx context.Context, id uint) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	if err := r.db.Conn(ctx).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *gormRepository) FindGoalByIDForUpdate(ctx context.Context, id uint) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	if err := database.LockForUpdate(r.db.Conn(ctx)).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *gormRepository) ListGoalsByUser(ctx context.Context, userID uint) ([]domain.SavingsGoal, error) {
	var goals []domain.SavingsGoal
	if err := r.db.Conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *gormRepository) GoalNameExists(ctx context.Context, userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Conn(ctx).
		Model(&domain.SavingsGoal{}).
		Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) UpdateGoal(ctx context.Context, goal *domain.SavingsGoal) error {
	return r.db.Conn(ctx).Save(goal).Error
}

func (r *gormRepository) DeleteGoalCascade(ctx context.Context, goalID uint) error {
	conn := r.db.Conn(ctx)
	if err := conn.Where("goal_id = ?", goalID).Delete(&domain.Contribution{}).Error; err != nil {
		return err
	}
	if err := conn.Where("goal_id = ?", goalID).Delete(&domain.Installment{}).Error; err != nil {
		return err
	}
	return conn.Delete(&domain.SavingsGoal{}, goalID).Error
}

func (r *gormRepository) CreateInstallments(ctx context.Context, installments []domain.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	return r.db.Conn(ctx).Create(&installments).Error
}

func (r *gormRepository) ListInstallments(ctx context.Context, goalID uint) ([]domain.Installment, error) {
	var installments []domain.Installment
	if err := r.db.Conn(ctx).
		Where("goal_id = ?", goalID).
		Order("sequence").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

func (r *gormRepository) ListPendingInstallments(ctx context.Context, goalID uint) ([]domain.Installment, error) {
	var installments []domain.Installment
	if err := r.db.Conn(ctx).
		Where("goal_id = ? AND state = ?", goalID, domain.InstallmentPending).
		Order("sequence").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

func (r *gormRepository) FindInstallmentByID(ctx context.Context, id uint) (*domain.Installment, error) {
	var installment domain.Installment
	if err := r.db.Conn(ctx).First(&installment, id).Error; err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *gormRepository) UpdateInstallment(ctx context.Context, installment *domain.Installment) error {
	return r.db.Conn(ctx).Save(installment).Error
}

func (r *gormRepository) CreateContribution(ctx context.Context, contribution *domain.Contribution) error {
	return r.db.Conn(ctx).Create(contribution).Error
}

func (r *gormRepository) FindContributionByID(ctx context.Context, id uint) (*domain.Contribution, error) {
	var contribution domain.Contribution
	if err := r.db.Conn(ctx).First(&contribution, id).Error; err != nil {
		return nil, err
	}
	return &contribution, nil
}

func (r *gormRepository) ListContributions(ctx context.Context, goalID uint) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	if err := r.db.Conn(ctx).
		Where("goal_id = ?", goalID).
		Order("created_at DESC, id DESC").
		Find(&contributions).Error; err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *gormRepository) UpdateContribution(ctx context.Context, contribution *domain.Contribution) error {
	return r.db.Conn(ctx).Save(contribution).Error
}

func (r *gormRepository) DeleteContribution(ctx context.Context, id uint) error {
	return r.db.Conn(ctx).Delete(&domain.Contribution{}, id).Error
}
