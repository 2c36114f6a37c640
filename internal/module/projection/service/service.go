package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	txdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/domain"
	txdto "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/dto"
	txservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/service"
	categoryrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// Service stores recurring templates and materializes ledger entries from
// them on demand. There is no timer here: execution is user-triggered.
type Service interface {
	Create(ctx context.Context, userID uint, req dto.CreateProjectionRequest) (*domain.Projection, error)
	List(ctx context.Context, userID uint) ([]domain.Projection, error)
	Get(ctx context.Context, userID, id uint) (*domain.Projection, error)
	Update(ctx context.Context, userID, id uint, req dto.UpdateProjectionRequest) (*domain.Projection, error)
	Delete(ctx context.Context, userID, id uint) error

	// Execute materializes one entry for today and advances the
	// last-executed marker.
	Execute(ctx context.Context, userID, id uint) (*txdto.TransactionResponse, error)
}

type service struct {
	repo         repository.Repository
	categoryRepo categoryrepository.Repository
	ledger       txservice.Service
	db           *database.DB
	logger       *zap.Logger
}

// New creates the projection service.
func New(
	repo repository.Repository,
	categoryRepo categoryrepository.Repository,
	ledger txservice.Service,
	db *database.DB,
	logger *zap.Logger,
) Service {
	return &service{
		repo:         repo,
		categoryRepo: categoryRepo,
		ledger:       ledger,
		db:           db,
		logger:       logger,
	}
}

func (s *service) Create(ctx context.Context, userID uint, req dto.CreateProjectionRequest) (*domain.Projection, error) {
	projection, err := s.buildProjection(userID, req.Name, req.Amount, req.Type, req.CategoryID, req.Frequency, req.StartDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, projection); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, projection); err != nil {
		return nil, apperr.Internal(err)
	}
	return projection, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]domain.Projection, error) {
	projections, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return projections, nil
}

func (s *service) Get(ctx context.Context, userID, id uint) (*domain.Projection, error) {
	return s.loadOwned(ctx, userID, id)
}

func (s *service) Update(ctx context.Context, userID, id uint, req dto.UpdateProjectionRequest) (*domain.Projection, error) {
	projection, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	next, err := s.buildProjection(userID, req.Name, req.Amount, req.Type, req.CategoryID, req.Frequency, req.StartDate)
	if err != nil {
		return nil, err
	}
	projection.Name = next.Name
	projection.Amount = next.Amount
	projection.Type = next.Type
	projection.CategoryID = next.CategoryID
	projection.Frequency = next.Frequency
	projection.StartDate = next.StartDate
	if req.Active != nil {
		projection.Active = *req.Active
	}
	if err := s.checkCategory(ctx, userID, projection); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, projection); err != nil {
		return nil, apperr.Internal(err)
	}
	return projection, nil
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	projection, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, projection.ID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) Execute(ctx context.Context, userID, id uint) (*txdto.TransactionResponse, error) {
	var entry *txdto.TransactionResponse
	err := s.db.WithinTx(ctx, func(ctx context.Context) error {
		projection, err := s.loadOwned(ctx, userID, id)
		if err != nil {
			return err
		}
		if !projection.Active {
			return apperr.StateConflict("projection is inactive")
		}

		today := period.Date(time.Now())
		entry, err = s.ledger.Materialize(ctx, userID, projection.CategoryID, projection.Amount,
			txdomain.Type(projection.Type), projection.Name, today, projection.ID)
		if err != nil {
			return err
		}

		projection.MarkExecuted(today)
		if err := s.repo.Update(ctx, projection); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) buildProjection(userID uint, name string, amount float64, rawType string, categoryID uint, rawFreq, rawStart string) (*domain.Projection, error) {
	freq, err := period.Parse(rawFreq)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	start, err := time.Parse("2006-01-02", rawStart)
	if err != nil {
		return nil, apperr.Validation("invalid start_date, expected YYYY-MM-DD")
	}

	projection := &domain.Projection{
		UserID:     userID,
		Name:       name,
		Amount:     amount,
		Type:       domain.Type(rawType),
		CategoryID: categoryID,
		Frequency:  freq,
		StartDate:  period.Date(start),
		Active:     true,
	}
	if err := projection.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return projection, nil
}

func (s *service) checkCategory(ctx context.Context, userID uint, projection *domain.Projection) error {
	category, err := s.categoryRepo.FindByID(ctx, projection.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Internal(err)
	}
	if !category.VisibleTo(userID) {
		return apperr.Forbidden("category belongs to another user")
	}
	if !category.PermitsEntryType(string(projection.Type)) {
		return apperr.Validationf("category %q does not accept %s entries", category.Name, projection.Type)
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, userID, id uint) (*domain.Projection, error) {
	projection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("projection not found")
		}
		return nil, apperr.Internal(err)
	}
	if !projection.BelongsTo(userID) {
		return nil, apperr.Forbidden("projection belongs to another user")
	}
	return projection, nil
}
