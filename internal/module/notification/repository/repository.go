package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
)

// Repository defines the interface for notification data access.
type Repository interface {
	// Create persists a new notification.
	Create(ctx context.Context, notification *domain.Notification) error

	// FindByID retrieves a notification by id, regardless of owner.
	FindByID(ctx context.Context, id uint) (*domain.Notification, error)

	// ListByUser retrieves a user's recent notifications, newest first.
	ListByUser(ctx context.Context, userID uint, limit int) ([]domain.Notification, error)

	// Update persists changes to a notification.
	Update(ctx context.Context, notification *domain.Notification) error
}
