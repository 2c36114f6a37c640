package repository

import (
	"context"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/domain"
)

// Repository defines the interface for savings data access: goals and the
// installments and contributions they own.
type Repository interface {
	// CreateGoal persists a new goal.
	CreateGoal(ctx context.Context, goal *domain.SavingsGoal) error

	// FindGoalByID retrieves a goal by id, regardless of owner.
	FindGoalByID(ctx context.Context, id uint) (*domain.SavingsGoal, error)

	// FindGoalByIDForUpdate is FindGoalByID with a row write lock;
	// callers must be inside a transaction.
	FindGoalByIDForUpdate(ctx context.Context, id uint) (*domain.SavingsGoal, error)

	// ListGoalsByUser retrieves all goals for a user.
	ListGoalsByUser(ctx context.Context, userID uint) ([]domain.SavingsGoal, error)

	// GoalNameExists reports whether the user already has a goal with
	// the name, excluding the given goal id (0 for creation).
	GoalNameExists(ctx context.Context, userID uint, name string, excludeID uint) (bool, error)

	// UpdateGoal persists changes to an existing goal.
	UpdateGoal(ctx context.Context, goal *domain.SavingsGoal) error

	// DeleteGoalCascade removes a goal with its contributions and
	// installments.
	DeleteGoalCascade(ctx context.Context, goalID uint) error

	// CreateInstallments persists a goal's generated plan.
	CreateInstallments(ctx context.Context, installments []domain.Installment) error

	// ListInstallments retrieves a goal's plan in sequence order.
	ListInstallments(ctx context.Context, goalID uint) ([]domain.Installment, error)

	// ListPendingInstallments retrieves the PENDING steps in sequence
	// order.
	ListPendingInstallments(ctx context.Context, goalID uint) ([]domain.Installment, error)

	// FindInstallmentByID retrieves one installment.
	FindInstallmentByID(ctx context.Context, id uint) (*domain.Installment, error)

	// UpdateInstallment persists changes to one installment.
	UpdateInstallment(ctx context.Context, installment *domain.Installment) error

	// CreateContribution persists a new contribution.
	CreateContribution(ctx context.Context, contribution *domain.Contribution) error

	// FindContributionByID retrieves a contribution by id, regardless of
	// owner.
	FindContributionByID(ctx context.Context, id uint) (*domain.Contribution, error)

	// ListContributions retrieves a goal's contributions, newest first.
	ListContributions(ctx context.Context, goalID uint) ([]domain.Contribution, error)

	// UpdateContribution persists changes to a contribution.
	UpdateContribution(ctx context.Context, contribution *domain.Contribution) error

	// DeleteContribution removes a contribution.
	DeleteContribution(ctx context.Context, id uint) error
}
