package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

// Service is the read-only category registry.
type Service interface {
	// ListPredefined returns the seeded categories (public surface).
	ListPredefined(ctx context.Context) ([]domain.Category, error)

	// ListByType filters the predefined set by type, including BOTH.
	ListByType(ctx context.Context, rawType string) ([]domain.Category, error)

	// Get returns one category.
	Get(ctx context.Context, id uint) (*domain.Category, error)
}

type service struct {
	repo repository.Repository
}

// New creates the category registry.
func New(repo repository.Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListPredefined(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListPredefined(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *service) ListByType(ctx context.Context, rawType string) ([]domain.Category, error) {
	t := domain.Type(rawType)
	if !t.IsValid() || t == domain.TypeBoth {
		return nil, apperr.Validationf("invalid category type %q", rawType)
	}
	// The public route has no principal; user id 0 matches no owned rows,
	// so only predefined categories come back.
	categories, err := s.repo.ListAvailableByType(ctx, 0, t)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *service) Get(ctx context.Context, id uint) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}
