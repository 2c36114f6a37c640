package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
)

// Repository defines the interface for user data access.
type Repository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// FindByID retrieves a user by internal id.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByPublicID retrieves a user by public uuid.
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.User, error)

	// FindByExternalSubject retrieves a user by the identity provider's
	// subject uuid.
	FindByExternalSubject(ctx context.Context, subject uuid.UUID) (*domain.User, error)

	// FindByEmail retrieves a user by email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users (admin surface).
	List(ctx context.Context) ([]domain.User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *domain.User) error
}
