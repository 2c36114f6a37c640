package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
)

type gormRepository struct {
	db *database.DB
}

// NewGormRepository creates the gorm-backed category repository.
func NewGormRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.db.Conn(ctx).Create(category).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.Conn(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *gormRepository) ListPredefined(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Conn(ctx).
		Where("predefined = ?", true).
		Order("name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *gormRepository) ListAvailable(ctx context.Context, userID uint) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Conn(ctx).
		Where("predefined = ? OR user_id = ?", true, userID).
		Order("name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *gormRepository) ListAvailableByType(ctx context.Context, userID uint, t domain.Type) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Conn(ctx).
		Where("(predefined = ? OR user_id = ?) AND type IN ?", true, userID, []domain.Type{t, domain.TypeBoth}).
		Order("name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *gormRepository) CountPredefined(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Conn(ctx).
		Model(&domain.Category{}).
		Where("predefined = ?", true).
		Count(&count).Error
	return count, err
}
