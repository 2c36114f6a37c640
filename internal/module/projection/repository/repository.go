package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/domain"
)

// Repository defines the interface for projection data access.
type Repository interface {
	// Create persists a new projection.
	Create(ctx context.Context, projection *domain.Projection) error

	// FindByID retrieves a projection by id, regardless of owner.
	FindByID(ctx context.Context, id uint) (*domain.Projection, error)

	// ListByUser retrieves all projections for a user.
	ListByUser(ctx context.Context, userID uint) ([]domain.Projection, error)

	// Update persists changes to an existing projection.
	Update(ctx context.Context, projection *domain.Projection) error

	// Delete removes a projection.
	Delete(ctx context.Context, id uint) error
}
