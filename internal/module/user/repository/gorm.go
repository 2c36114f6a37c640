package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
)

type gormRepository struct {
	db *database.DB
}

// NewGormRepository creates the gorm-backed user repository.
func NewGormRepository(db *database.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.Conn(ctx).Create(user).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.Conn(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.Conn(ctx).Where("public_id = ?", publicID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindByExternalSubject(ctx context.Context, subject uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.Conn(ctx).Where("external_subject_id = ?", subject).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Conn(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.Conn(ctx).Save(user).Error
}
