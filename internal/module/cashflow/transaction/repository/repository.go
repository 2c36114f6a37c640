package repository

import (
	"context"
	"time"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/domain"
)

// Filter narrows ListByUser. Zero values mean "no filter".
type Filter struct {
	Type       domain.Type
	CategoryID uint
	From       time.Time
	To         time.Time
}

// Summary aggregates a user's ledger.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	Balance      float64
	Count        int64
}

// Repository defines the interface for ledger entry data access.
type Repository interface {
	// Create persists a new entry.
	Create(ctx context.Context, tx *domain.Transaction) error

	// FindByID retrieves an entry by id, regardless of owner. Services
	// distinguish FORBIDDEN from NOT_FOUND on the loaded row.
	FindByID(ctx context.Context, id uint) (*domain.Transaction, error)

	// FindByIDForUpdate is FindByID with a row-level write lock. Mutations
	// whose loaded amount/category feed a budget-consumption delta must
	// read through this inside their transaction.
	FindByIDForUpdate(ctx context.Context, id uint) (*domain.Transaction, error)

	// ListByUser retrieves a user's entries, optionally filtered.
	ListByUser(ctx context.Context, userID uint, filter Filter) ([]domain.Transaction, error)

	// Update persists changes to an existing entry.
	Update(ctx context.Context, tx *domain.Transaction) error

	// Delete removes an entry.
	Delete(ctx context.Context, id uint) error

	// Summarize aggregates income, expense, balance and count for a user.
	Summarize(ctx context.Context, userID uint) (*Summary, error)

	// SumExpensesInWindow totals EXPENSE amounts for a user and category
	// with dates inside [start, end]. The budget engine seeds and
	// resynchronizes consumed amounts from this.
	SumExpensesInWindow(ctx context.Context, userID, categoryID uint, start, end time.Time) (float64, error)
}
