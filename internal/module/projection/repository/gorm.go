package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/domain"
)

type gormRepository struct {
	db *database.DB
}

// NewGormRepository creates the gorm-backed projection repository.
func NewGormRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, projection *domain.Projection) error {
	return r.db.Conn(ctx).Create(projection).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*domain.Projection, error) {
	var projection domain.Projection
	if err := r.db.Conn(ctx).First(&projection, id).Error; err != nil {
		return nil, err
	}
	return &projection, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Projection, error) {
	var projections []domain.Projection
	if err := r.db.Conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projections).Error; err != nil {
		return nil, err
	}
	return projections, nil
}

func (r *gormRepository) Update(ctx context.Context, projection *domain.Projection) error {
	return r.db.Conn(ctx).Save(projection).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.Conn(ctx).Delete(&domain.Projection{}, id).Error
}
