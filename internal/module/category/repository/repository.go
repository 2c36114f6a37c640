package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
)

// Repository defines the interface for category data access. The surface
// is read-mostly: categories are seeded or created alongside users.
type Repository interface {
	// Create persists a category (seeding and user-owned rows).
	Create(ctx context.Context, category *domain.Category) error

	// FindByID retrieves a category by id.
	FindByID(ctx context.Context, id uint) (*domain.Category, error)

	// ListPredefined retrieves the seeded categories.
	ListPredefined(ctx context.Context) ([]domain.Category, error)

	// ListAvailable retrieves predefined plus user-owned categories.
	ListAvailable(ctx context.Context, userID uint) ([]domain.Category, error)

	// ListAvailableByType filters the available set by category type,
	// including BOTH rows.
	ListAvailableByType(ctx context.Context, userID uint, t domain.Type) ([]domain.Category, error)

	// CountPredefined reports how many seeded rows exist.
	CountPredefined(ctx context.Context) (int64, error)
}
