package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

// Publisher is the surface the financial engine uses to raise events.
// Publishing is best-effort and must never fail the triggering use-case.
type Publisher interface {
	Publish(ctx context.Context, userID uint, kind domain.Kind, payload map[string]interface{})
}

// Service manages notification rows and delivery.
type Service interface {
	Publisher

	// List returns the user's recent notifications.
	List(ctx context.Context, userID uint) ([]domain.Notification, error)

	// MarkRead marks one notification read, enforcing ownership.
	MarkRead(ctx context.Context, userID, id uint) (*domain.Notification, error)
}

type service struct {
	repo   repository.Repository
	hub    *notification.Hub
	logger *zap.Logger
}

// New creates the notification service.
func New(repo repository.Repository, hub *notification.Hub, logger *zap.Logger) Service {
	return &service{repo: repo, hub: hub, logger: logger}
}

func (s *service) Publish(ctx context.Context, userID uint, kind domain.Kind, payload map[string]interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to encode notification payload", zap.Error(err))
		return
	}

	n := &domain.Notification{
		UserID:  userID,
		Kind:    kind,
		Payload: raw,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("failed to persist notification",
			zap.Uint("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return
	}

	s.hub.Send(userID, n)
}

func (s *service) List(ctx context.Context, userID uint) ([]domain.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return notifications, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id uint) (*domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("notification not found")
		}
		return nil, apperr.Internal(err)
	}
	if !n.BelongsTo(userID) {
		return nil, apperr.Forbidden("notification belongs to another user")
	}
	n.Read = true
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, apperr.Internal(err)
	}
	return n, nil
}
