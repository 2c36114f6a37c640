package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/cache"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	budgetservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/repository"
	categorydomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
	categoryrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/repository"
	notificationservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// Service is the ledger: entry CRUD plus balance and summary aggregates.
// Every EXPENSE mutation settles the matching budget's consumed counter in
// the same transaction.
type Service interface {
	Create(ctx context.Context, userID uint, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	Get(ctx context.Context, userID, id uint) (*dto.TransactionResponse, error)
	List(ctx context.Context, userID uint, filter repository.Filter) ([]dto.TransactionResponse, error)
	Update(ctx context.Context, userID, id uint, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, userID, id uint) error
	Balance(ctx context.Context, userID uint) (float64, error)
	Summary(ctx context.Context, userID uint) (*dto.SummaryResponse, error)

	// Materialize creates the entry a projection execution produces,
	// stamped with the source projection id.
	Materialize(ctx context.Context, userID, categoryID uint, amount float64, txType domain.Type, description string, day time.Time, projectionID uint) (*dto.TransactionResponse, error)
}

type service struct {
	repo         repository.Repository
	categoryRepo categoryrepository.Repository
	budgets      budgetservice.Service
	db           *database.DB
	cache        *cache.Cache
	summaryTTL   time.Duration
	publisher    notificationservice.Publisher
	logger       *zap.Logger
}

// New creates the ledger service.
func New(
	repo repository.Repository,
	categoryRepo categoryrepository.Repository,
	budgets budgetservice.Service,
	db *database.DB,
	c *cache.Cache,
	summaryTTL time.Duration,
	publisher notificationservice.Publisher,
	logger *zap.Logger,
) Service {
	return &service{
		repo:         repo,
		categoryRepo: categoryRepo,
		budgets:      budgets,
		db:           db,
		cache:        c,
		summaryTTL:   summaryTTL,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *service) Create(ctx context.Context, userID uint, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	entry, category, err := s.buildEntry(ctx, userID, req.CategoryID, req.Amount, req.Type, req.Description, req.Date)
	if err != nil {
		return nil, err
	}

	var adj *budgetservice.Adjustment
	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entry); err != nil {
			return apperr.Internal(err)
		}
		if entry.IsExpense() {
			adj, err = s.budgets.AdjustConsumption(ctx, userID, entry.CategoryID, entry.Amount)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, adj)
	return toResponse(entry, category), nil
}

func (s *service) Materialize(ctx context.Context, userID, categoryID uint, amount float64, txType domain.Type, description string, day time.Time, projectionID uint) (*dto.TransactionResponse, error) {
	category, err := s.loadCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.PermitsEntryType(string(txType)) {
		return nil, apperr.Validationf("category %q does not accept %s entries", category.Name, txType)
	}

	entry := &domain.Transaction{
		UserID:       userID,
		CategoryID:   categoryID,
		Amount:       amount,
		Type:         txType,
		Description:  description,
		Date:         period.Date(day),
		ProjectionID: &projectionID,
	}
	if err := entry.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	var adj *budgetservice.Adjustment
	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entry); err != nil {
			return apperr.Internal(err)
		}
		if entry.IsExpense() {
			adj, err = s.budgets.AdjustConsumption(ctx, userID, categoryID, amount)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, adj)
	return toResponse(entry, category), nil
}

func (s *service) Get(ctx context.Context, userID, id uint) (*dto.TransactionResponse, error) {
	entry, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByID(ctx, entry.CategoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return toResponse(entry, category), nil
}

func (s *service) List(ctx context.Context, userID uint, filter repository.Filter) ([]dto.TransactionResponse, error) {
	entries, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	// Single category pass instead of one lookup per row.
	categories, err := s.categoryRepo.ListAvailable(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byID := make(map[uint]*categorydomain.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	responses := make([]dto.TransactionResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toResponse(&entries[i], byID[entries[i].CategoryID]))
	}
	return responses, nil
}

func (s *service) Update(ctx context.Context, userID, id uint, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	newType := domain.Type(req.Type)
	if !newType.IsValid() {
		return nil, apperr.Validationf("invalid transaction type %q", req.Type)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperr.Validation("invalid date, expected YYYY-MM-DD")
	}
	category, err := s.loadCategory(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.PermitsEntryType(req.Type) {
		return nil, apperr.Validationf("category %q does not accept %s entries", category.Name, req.Type)
	}

	var entry *domain.Transaction
	var adjustments []*budgetservice.Adjustment
	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		entry, err = s.loadOwnedForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}

		// Capture the persisted values before mutating; the budget
		// deltas depend on them.
		oldAmount := entry.Amount
		oldCategoryID := entry.CategoryID
		wasExpense := entry.IsExpense()

		entry.CategoryID = req.CategoryID
		entry.Amount = req.Amount
		entry.Type = newType
		entry.Description = req.Description
		entry.Date = period.Date(date)
		if err := entry.Validate(); err != nil {
			return apperr.Validation(err.Error())
		}
		if err := s.repo.Update(ctx, entry); err != nil {
			return apperr.Internal(err)
		}

		// Back out the old consumption, then apply the new. Covers
		// amount edits, category moves and INCOME/EXPENSE flips.
		if wasExpense {
			adj, err := s.budgets.AdjustConsumption(ctx, userID, oldCategoryID, -oldAmount)
			if err != nil {
				return err
			}
			adjustments = append(adjustments, adj)
		}
		if entry.IsExpense() {
			adj, err := s.budgets.AdjustConsumption(ctx, userID, entry.CategoryID, entry.Amount)
			if err != nil {
				return err
			}
			adjustments = append(adjustments, adj)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, adjustments...)
	return toResponse(entry, category), nil
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	err := s.db.WithinTx(ctx, func(ctx context.Context) error {
		// Read first, settle the budget, delete last.
		entry, err := s.loadOwnedForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}
		if entry.IsExpense() {
			if _, err := s.budgets.AdjustConsumption(ctx, userID, entry.CategoryID, -entry.Amount); err != nil {
				return err
			}
		}
		if err := s.repo.Delete(ctx, entry.ID); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, userID)
	return nil
}

func (s *service) Balance(ctx context.Context, userID uint) (float64, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return 0, err
	}
	return summary.Balance, nil
}

func (s *service) Summary(ctx context.Context, userID uint) (*dto.SummaryResponse, error) {
	if s.cache != nil {
		var cached dto.SummaryResponse
		if err := s.cache.Get(ctx, cache.SummaryKey(userID), &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.repo.Summarize(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	resp := &dto.SummaryResponse{
		TotalIncome:  summary.TotalIncome,
		TotalExpense: summary.TotalExpense,
		Balance:      summary.Balance,
		Count:        summary.Count,
	}
	if s.cache != nil {
		s.cache.Set(ctx, cache.SummaryKey(userID), resp, s.summaryTTL)
	}
	return resp, nil
}

// afterMutation runs the post-commit effects: summary cache invalidation
// and any over-cap notifications collected during the transaction.
func (s *service) afterMutation(ctx context.Context, userID uint, adjustments ...*budgetservice.Adjustment) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.SummaryKey(userID))
	}
	for _, adj := range adjustments {
		budgetservice.PublishAdjustment(ctx, s.publisher, adj)
	}
}

func (s *service) buildEntry(ctx context.Context, userID, categoryID uint, amount float64, rawType, description, rawDate string) (*domain.Transaction, *categorydomain.Category, error) {
	txType := domain.Type(rawType)
	if !txType.IsValid() {
		return nil, nil, apperr.Validationf("invalid transaction type %q", rawType)
	}
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return nil, nil, apperr.Validation("invalid date, expected YYYY-MM-DD")
	}

	category, err := s.loadCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if !category.PermitsEntryType(rawType) {
		return nil, nil, apperr.Validationf("category %q does not accept %s entries", category.Name, rawType)
	}

	entry := &domain.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		Date:        period.Date(date),
	}
	if err := entry.Validate(); err != nil {
		return nil, nil, apperr.Validation(err.Error())
	}
	return entry, category, nil
}

func (s *service) loadOwned(ctx context.Context, userID, id uint) (*domain.Transaction, error) {
	entry, err := s.repo.FindByID(ctx, id)
	return checkOwned(entry, err, userID)
}

// loadOwnedForUpdate takes a row lock on the entry. Update and Delete
// read through it: the loaded amount and category feed the budget
// consumption delta, so a concurrent mutation of the same entry must
// not see the pre-image.
func (s *service) loadOwnedForUpdate(ctx context.Context, userID, id uint) (*domain.Transaction, error) {
	entry, err := s.repo.FindByIDForUpdate(ctx, id)
	return checkOwned(entry, err, userID)
}

func checkOwned(entry *domain.Transaction, err error, userID uint) (*domain.Transaction, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Internal(err)
	}
	if !entry.BelongsTo(userID) {
		return nil, apperr.Forbidden("transaction belongs to another user")
	}
	return entry, nil
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

func toResponse(entry *domain.Transaction, category *categorydomain.Category) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:           entry.ID,
		CategoryID:   entry.CategoryID,
		Amount:       entry.Amount,
		Type:         string(entry.Type),
		Description:  entry.Description,
		Date:         entry.Date.Format("2006-01-02"),
		ProjectionID: entry.ProjectionID,
		CreatedAt:    entry.CreatedAt,
	}
	if category != nil {
		resp.CategoryName = category.Name
		resp.CategoryIcon = category.Icon
	}
	return resp
}
