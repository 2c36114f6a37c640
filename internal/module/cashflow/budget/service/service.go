package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/repository"
	txrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/repository"
	categorydomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
	categoryrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	notificationdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
	notificationservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// DefaultNearLimitThreshold is the consumed/cap ratio used by the
// near-limit query when the caller does not provide one.
const DefaultNearLimitThreshold = 0.8

// Adjustment reports what a consumption delta did to the matched budget.
type Adjustment struct {
	Budget     *domain.Budget
	BecameOver bool
}

// Service is the budget engine: window CRUD, the live consumed counter and
// the ACTIVE / OVER / INACTIVE state machine.
type Service interface {
	Create(ctx context.Context, userID uint, req dto.CreateBudgetRequest) (*domain.Budget, error)
	List(ctx context.Context, userID uint) ([]domain.Budget, error)
	Get(ctx context.Context, userID uint, publicID uuid.UUID) (*domain.Budget, error)
	Update(ctx context.Context, userID uint, publicID uuid.UUID, req dto.UpdateBudgetRequest) (*domain.Budget, error)
	Delete(ctx context.Context, userID uint, publicID uuid.UUID) error
	Deactivate(ctx context.Context, userID uint, publicID uuid.UUID) (*domain.Budget, error)
	ListCurrent(ctx context.Context, userID uint) ([]domain.Budget, error)
	ListNearLimit(ctx context.Context, userID uint, threshold float64) ([]domain.Budget, error)

	// SyncConsumption recomputes every non-INACTIVE budget's consumed
	// amount from the ledger and resettles state. Idempotent.
	SyncConsumption(ctx context.Context, userID uint) ([]domain.Budget, error)

	// AdjustConsumption applies a consumption delta to the single active
	// budget for (user, category); no-op when none exists. It must run
	// inside the caller's transaction so a rollback leaves no
	// divergence. The returned adjustment is nil on no-op.
	AdjustConsumption(ctx context.Context, userID, categoryID uint, delta float64) (*Adjustment, error)

	// ProcessExpiredAt handles one renewal pass over budgets expired at
	// the given date. Row failures are isolated.
	ProcessExpiredAt(ctx context.Context, date time.Time, perRowTimeout time.Duration) ProcessReport
}

// ProcessReport summarizes one renewal pass.
type ProcessReport struct {
	Processed   int
	Renewed     int
	Deactivated int
	Failed      int
}

type service struct {
	repo         repository.Repository
	txRepo       txrepository.Repository
	categoryRepo categoryrepository.Repository
	db           *database.DB
	publisher    notificationservice.Publisher
	logger       *zap.Logger
}

// New creates the budget engine.
func New(
	repo repository.Repository,
	txRepo txrepository.Repository,
	categoryRepo categoryrepository.Repository,
	db *database.DB,
	publisher notificationservice.Publisher,
	logger *zap.Logger,
) Service {
	return &service{
		repo:         repo,
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		db:           db,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *service) Create(ctx context.Context, userID uint, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	freq, err := period.Parse(req.Frequency)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, apperr.Validation("invalid start_date, expected YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, apperr.Validation("invalid end_date, expected YYYY-MM-DD")
	}

	category, err := s.loadCategory(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Type == categorydomain.TypeIncome {
		return nil, apperr.Validation("budgets only apply to expense categories")
	}

	budget := &domain.Budget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		CapAmount:  req.CapAmount,
		StartDate:  start,
		EndDate:    end,
		Frequency:  freq,
		State:      domain.StateActive,
		AutoRenew:  req.AutoRenew,
	}
	if err := budget.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		// The partial unique index is the last line of defense; this
		// check produces the friendlier conflict message.
		if _, err := s.repo.FindActiveByUserAndCategoryForUpdate(ctx, userID, req.CategoryID); err == nil {
			return apperr.StateConflict("an active budget already exists for this category")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal(err)
		}

		// Entries already in the window count against the fresh budget.
		consumed, err := s.txRepo.SumExpensesInWindow(ctx, userID, req.CategoryID, start, end)
		if err != nil {
			return apperr.Internal(err)
		}
		budget.ConsumedAmount = consumed
		budget.RecalculateState()

		if err := s.repo.Create(ctx, budget); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.StateConflict("an active budget already exists for this category")
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if budget.State == domain.StateOver {
		s.publishOver(ctx, budget)
	}
	return budget, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]domain.Budget, error) {
	budgets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return budgets, nil
}

func (s *service) Get(ctx context.Context, userID uint, publicID uuid.UUID) (*domain.Budget, error) {
	budget, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("budget not found")
		}
		return nil, apperr.Internal(err)
	}
	if !budget.BelongsTo(userID) {
		return nil, apperr.Forbidden("budget belongs to another user")
	}
	return budget, nil
}

func (s *service) Update(ctx context.Context, userID uint, publicID uuid.UUID, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	freq, err := period.Parse(req.Frequency)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, apperr.Validation("invalid start_date, expected YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, apperr.Validation("invalid end_date, expected YYYY-MM-DD")
	}

	var budget *domain.Budget
	var becameOver bool
	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		budget, err = s.lockedByPublicID(ctx, userID, publicID)
		if err != nil {
			return err
		}
		if budget.State == domain.StateInactive {
			return apperr.StateConflict("inactive budgets cannot be updated")
		}
		wasOver := budget.State == domain.StateOver

		budget.CapAmount = req.CapAmount
		budget.StartDate = start
		budget.EndDate = end
		budget.Frequency = freq
		if req.AutoRenew != nil {
			budget.AutoRenew = *req.AutoRenew
		}
		if err := budget.Validate(); err != nil {
			return apperr.Validation(err.Error())
		}

		// A cap or window change can flip the state either way.
		budget.RecalculateState()
		becameOver = !wasOver && budget.State == domain.StateOver
		if err := s.repo.Update(ctx, budget); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if becameOver {
		s.publishOver(ctx, budget)
	}
	return budget, nil
}

func (s *service) Delete(ctx context.Context, userID uint, publicID uuid.UUID) error {
	return s.db.WithinTx(ctx, func(ctx context.Context) error {
		budget, err := s.lockedByPublicID(ctx, userID, publicID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, budget.ID); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *service) Deactivate(ctx context.Context, userID uint, publicID uuid.UUID) (*domain.Budget, error) {
	var budget *domain.Budget
	err := s.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		budget, err = s.lockedByPublicID(ctx, userID, publicID)
		if err != nil {
			return err
		}
		budget.Deactivate()
		if err := s.repo.Update(ctx, budget); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *service) ListCurrent(ctx context.Context, userID uint) ([]domain.Budget, error) {
	budgets, err := s.repo.ListCurrent(ctx, userID, period.Date(time.Now()))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return budgets, nil
}

func (s *service) ListNearLimit(ctx context.Context, userID uint, threshold float64) ([]domain.Budget, error) {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultNearLimitThreshold
	}
	budgets, err := s.repo.ListNearLimit(ctx, userID, threshold)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return budgets, nil
}

func (s *service) SyncConsumption(ctx context.Context, userID uint) ([]domain.Budget, error) {
	var synced []domain.Budget
	err := s.db.WithinTx(ctx, func(ctx context.Context) error {
		budgets, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return apperr.Internal(err)
		}
		for i := range budgets {
			budget := &budgets[i]
			if budget.State == domain.StateInactive {
				synced = append(synced, *budget)
				continue
			}
			locked, err := s.repo.FindByIDForUpdate(ctx, budget.ID)
			if err != nil {
				return apperr.Internal(err)
			}
			consumed, err := s.txRepo.SumExpensesInWindow(ctx, userID, locked.CategoryID, locked.StartDate, locked.EndDate)
			if err != nil {
				return apperr.Internal(err)
			}
			locked.ConsumedAmount = consumed
			locked.RecalculateState()
			if err := s.repo.Update(ctx, locked); err != nil {
				return apperr.Internal(err)
			}
			synced = append(synced, *locked)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return synced, nil
}

func (s *service) AdjustConsumption(ctx context.Context, userID, categoryID uint, delta float64) (*Adjustment, error) {
	budget, err := s.repo.FindActiveByUserAndCategoryForUpdate(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}

	wasOver := budget.State == domain.StateOver
	budget.Consume(delta)
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, apperr.Internal(err)
	}
	return &Adjustment{
		Budget:     budget,
		BecameOver: !wasOver && budget.State == domain.StateOver,
	}, nil
}

// PublishOverEvent raises the BUDGET_OVER notification for an adjustment
// that crossed the cap. Callers invoke it after their transaction commits.
func (s *service) publishOver(ctx context.Context, budget *domain.Budget) {
	s.publisher.Publish(ctx, budget.UserID, notificationdomain.KindBudgetOver, map[string]interface{}{
		"budget_id":   budget.PublicID.String(),
		"category_id": budget.CategoryID,
		"cap":         budget.CapAmount,
		"consumed":    budget.ConsumedAmount,
	})
}

// PublishAdjustment exposes the over-cap notification to the ledger, which
// owns the transaction the adjustment ran in.
func PublishAdjustment(ctx context.Context, publisher notificationservice.Publisher, adj *Adjustment) {
	if adj == nil || !adj.BecameOver {
		return
	}
	publisher.Publish(ctx, adj.Budget.UserID, notificationdomain.KindBudgetOver, map[string]interface{}{
		"budget_id":   adj.Budget.PublicID.String(),
		"category_id": adj.Budget.CategoryID,
		"cap":         adj.Budget.CapAmount,
		"consumed":    adj.Budget.ConsumedAmount,
	})
}

func (s *service) lockedByPublicID(ctx context.Context, userID uint, publicID uuid.UUID) (*domain.Budget, error) {
	budget, err := s.repo.FindByPublicIDForUpdate(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("budget not found")
		}
		return nil, apperr.Internal(err)
	}
	if !budget.BelongsTo(userID) {
		return nil, apperr.Forbidden("budget belongs to another user")
	}
	return budget, nil
}

func (s *service) loadCategory(ctx context.Context, userID, categoryID uint) (*categorydomain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Internal(err)
	}
	if !category.VisibleTo(userID) {
		return nil, apperr.Forbidden("category belongs to another user")
	}
	return category, nil
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
