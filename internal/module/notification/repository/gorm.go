package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
)

type gormRepository struct {
	db *database.DB
}

// NewGormRepository creates the gorm-backed notification repository.
func NewGormRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.Conn(ctx).Create(notification).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*domain.Notification, error) {
	var notification domain.Notification
	if err := r.db.Conn(ctx).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifications []domain.Notification
	if err := r.db.Conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *gormRepository) Update(ctx context.Context, notification *domain.Notification) error {
	return r.db.Conn(ctx).Save(notification).Error
}
