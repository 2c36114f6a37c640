package repository

import (
	"context"
	"time"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/domain"
)

type gormRepository struct {
	db *database.DB
}

// NewGormRepository creates the gorm-backed ledger repository.
func NewGormRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.db.Conn(ctx).Create(tx).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := r.db.Conn(ctx).First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *gormRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := database.LockForUpdate(r.db.Conn(ctx)).First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uint, filter Filter) ([]domain.Transaction, error) {
	query := r.db.Conn(ctx).Where("user_id = ?", userID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if !filter.From.IsZero() {
		query = query.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("date <= ?", filter.To)
	}

	var txs []domain.Transaction
	if err := query.Order("date DESC, id DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *gormRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	return r.db.Conn(ctx).Save(tx).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.Conn(ctx).Delete(&domain.Transaction{}, id).Error
}

func (r *gormRepository) Summarize(ctx context.Context, userID uint) (*Summary, error) {
	conn := r.db.Conn(ctx)
	summary := &Summary{}

	if err := conn.Model(&domain.Transaction{}).
		Where("user_id = ? AND type = ?", userID, domain.TypeIncome).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalIncome).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&domain.Transaction{}).
		Where("user_id = ? AND type = ?", userID, domain.TypeExpense).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalExpense).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Count(&summary.Count).Error; err != nil {
		return nil, err
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

func (r *gormRepository) SumExpensesInWindow(ctx context.Context, userID, categoryID uint, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.Conn(ctx).Model(&domain.Transaction{}).
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, categoryID, domain.TypeExpense, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
