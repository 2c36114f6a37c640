package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

// Service carries the admin-scoped user operations. Users are never hard
// deleted, only deactivated.
type Service interface {
	// Create provisions a user row. Child accounts must reference an
	// existing guardian with role USER.
	Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	List(ctx context.Context) ([]domain.User, error)
	Deactivate(ctx context.Context, publicID uuid.UUID) (*domain.User, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.Logger
}

// New creates the user admin service.
func New(repo repository.Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		Email:      req.Email,
		FullName:   req.FullName,
		Role:       role,
		GuardianID: req.GuardianID,
		Active:     true,
	}
	if req.ExternalSubjectID != "" {
		subject, err := uuid.Parse(req.ExternalSubjectID)
		if err != nil {
			return nil, apperr.Validation("external_subject_id is not a uuid")
		}
		user.ExternalSubjectID = &subject
	}
	if err := user.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	// Child accounts hang off a real guardian, and guardianship is a
	// plain-user concern: admins and other children cannot hold it.
	if role == domain.RoleUserChild {
		guardian, err := s.repo.FindByID(ctx, *req.GuardianID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("guardian does not exist")
			}
			return nil, apperr.Internal(err)
		}
		if guardian.Role != domain.RoleUser {
			return nil, apperr.Validation("guardian must have role USER")
		}
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Validation("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("email is already registered")
		}
		return nil, apperr.Internal(err)
	}
	s.logger.Info("user created",
		zap.String("public_id", user.PublicID.String()),
		zap.String("role", string(role)),
	)
	return user, nil
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *service) Deactivate(ctx context.Context, publicID uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	user.Active = false
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger.Info("user deactivated", zap.String("public_id", publicID.String()))
	return user, nil
}
