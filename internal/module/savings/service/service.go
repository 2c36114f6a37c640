package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/infrastructure/database"
	notificationdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/domain"
	notificationservice "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// Service is the savings engine: goals, installment plans and the
// contributions that move them.
type Service interface {
	CreateGoal(ctx context.Context, userID uint, req dto.CreateGoalRequest) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, userID uint) ([]domain.SavingsGoal, error)
	GetGoal(ctx context.Context, userID, goalID uint) (*domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, userID, goalID uint, req dto.UpdateGoalRequest) (*domain.SavingsGoal, error)
	DeleteGoal(ctx context.Context, userID, goalID uint) error

	ListInstallments(ctx context.Context, userID, goalID uint) ([]domain.Installment, error)
	ListContributions(ctx context.Context, userID, goalID uint) ([]domain.Contribution, error)

	Contribute(ctx context.Context, userID uint, req dto.ContributeRequest) (*domain.Contribution, error)
	UpdateContribution(ctx context.Context, userID, contributionID uint, req dto.UpdateContributionRequest) (*domain.Contribution, error)
	DeleteContribution(ctx context.Context, userID, contributionID uint) error
}

type service struct {
	repo      repository.Repository
	db        *database.DB
	publisher notificationservice.Publisher
	logger    *zap.Logger
}

// New creates the savings engine.
func New(repo repository.Repository, db *database.DB, publisher notificationservice.Publisher, logger *zap.Logger) Service {
	return &service{repo: repo, db: db, publisher: publisher, logger: logger}
}

func (s *service) CreateGoal(ctx context.Context, userID uint, req dto.CreateGoalRequest) (*domain.SavingsGoal, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperr.Validation("invalid start_date, expected YYYY-MM-DD")
	}

	goal := &domain.SavingsGoal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		StartDate:    period.Date(start),
		Icon:         req.Icon,
		Color:        req.Color,
		State:        domain.GoalActive,
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return nil, apperr.Validation("invalid deadline, expected YYYY-MM-DD")
		}
		d := period.Date(deadline)
		goal.Deadline = &d
	}
	if req.Frequency != "" {
		freq, err := period.Parse(req.Frequency)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		goal.Frequency = &freq
	}
	if err := goal.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.GoalNameExists(ctx, userID, req.Name, 0)
		if err != nil {
			return apperr.Internal(err)
		}
		if exists {
			return apperr.Validationf("a goal named %q already exists", req.Name)
		}
		if err := s.repo.CreateGoal(ctx, goal); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Validationf("a goal named %q already exists", req.Name)
			}
			return apperr.Internal(err)
		}

		// Frequency plus deadline means a dated plan, generated
		// atomically with the goal.
		if goal.HasPlan() {
			dates := goal.PlanDates()
			if len(dates) == 0 {
				return apperr.Validation("frequency produces no installments before the deadline")
			}
			amount := domain.InstallmentAmount(goal.TargetAmount, len(dates))
			installments := make([]domain.Installment, 0, len(dates))
			for i, date := range dates {
				installments = append(installments, domain.Installment{
					GoalID:         goal.ID,
					Sequence:       i + 1,
					ScheduledDate:  date,
					ExpectedAmount: amount,
					State:          domain.InstallmentPending,
				})
			}
			if err := s.repo.CreateInstallments(ctx, installments); err != nil {
				return apperr.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *service) ListGoals(ctx context.Context, userID uint) ([]domain.SavingsGoal, error) {
	goals, err := s.repo.ListGoalsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return goals, nil
}

func (s *service) GetGoal(ctx context.Context, userID, goalID uint) (*domain.SavingsGoal, error) {
	return s.loadOwnedGoal(ctx, userID, goalID, false)
}

func (s *service) UpdateGoal(ctx context.Context, userID, goalID uint, req dto.UpdateGoalRequest) (*domain.SavingsGoal, error) {
	var goal *domain.SavingsGoal
	err := s.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		goal, err = s.loadOwnedGoal(ctx, userID, goalID, true)
		if err != nil {
			return err
		}

		exists, err := s.repo.GoalNameExists(ctx, userID, req.Name, goalID)
		if err != nil {
			return apperr.Internal(err)
		}
		if exists {
			return apperr.Validationf("a goal named %q already exists", req.Name)
		}

		goal.Name = req.Name
		goal.TargetAmount = req.TargetAmount
		goal.Icon = req.Icon
		goal.Color = req.Color
		if req.State != "" {
			next := domain.GoalState(req.State)
			if !next.IsValid() {
				return apperr.Validationf("invalid goal state %q", req.State)
			}
			goal.State = next
		}
		if err := goal.Validate(); err != nil {
			return apperr.Validation(err.Error())
		}

		// Target edits can complete or reopen the goal.
		goal.ApplyProgress(0)
		if err := s.repo.UpdateGoal(ctx, goal); err != nil {
			return apperr.Internal(err)
		}
		return s.rebalancePendingInstallments(ctx, goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *service) DeleteGoal(ctx context.Context, userID, goalID uint) error {
	return s.db.WithinTx(ctx, func(ctx context.Context) error {
		goal, err := s.loadOwnedGoal(ctx, userID, goalID, true)
		if err != nil {
			return err
		}
		if err := s.repo.DeleteGoalCascade(ctx, goal.ID); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *service) ListInstallments(ctx context.Context, userID, goalID uint) ([]domain.Installment, error) {
	if _, err := s.loadOwnedGoal(ctx, userID, goalID, false); err != nil {
		return nil, err
	}
	installments, err := s.repo.ListInstallments(ctx, goalID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return installments, nil
}

func (s *service) ListContributions(ctx context.Context, userID, goalID uint) ([]domain.Contribution, error) {
	if _, err := s.loadOwnedGoal(ctx, userID, goalID, false); err != nil {
		return nil, err
	}
	contributions, err := s.repo.ListContributions(ctx, goalID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return contributions, nil
}

func (s *service) Contribute(ctx context.Context, userID uint, req dto.ContributeRequest) (*domain.Contribution, error) {
	contribution := &domain.Contribution{
		GoalID:        req.GoalID,
		UserID:        userID,
		Amount:        req.Amount,
		Description:   req.Description,
		InstallmentID: req.InstallmentID,
	}
	if err := contribution.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	var completed *domain.SavingsGoal
	err := s.db.WithinTx(ctx, func(ctx context.Context) error {
		goal, err := s.loadOwnedGoal(ctx, userID, req.GoalID, true)
		if err != nil {
			return err
		}
		if !goal.AcceptsContributions() {
			return apperr.StateConflict("goal no longer accepts contributions")
		}

		if err := s.repo.CreateContribution(ctx, contribution); err != nil {
			return apperr.Internal(err)
		}

		if req.InstallmentID != nil {
			installment, err := s.repo.FindInstallmentByID(ctx, *req.InstallmentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("installment not found")
				}
				return apperr.Internal(err)
			}
			if installment.GoalID != goal.ID {
				return apperr.Validation("installment does not belong to this goal")
			}
			if installment.State == domain.InstallmentPaid {
				return apperr.StateConflict("installment is already paid")
			}
			// The installment records what was actually paid.
			installment.MarkPaid(contribution.ID, contribution.Amount)
			if err := s.repo.UpdateInstallment(ctx, installment); err != nil {
				return apperr.Internal(err)
			}
		}

		wasCompleted := goal.State == domain.GoalCompleted
		goal.ApplyProgress(contribution.Amount)
		if err := s.repo.UpdateGoal(ctx, goal); err != nil {
			return apperr.Internal(err)
		}
		if err := s.rebalancePendingInstallments(ctx, goal); err != nil {
			return err
		}

		if !wasCompleted && goal.State == domain.GoalCompleted {
			completed = goal
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed != nil {
		s.publisher.Publish(ctx, userID, notificationdomain.KindGoalCompleted, map[string]interface{}{
			"goal_id": completed.ID,
			"name":    completed.Name,
			"target":  completed.TargetAmount,
			"accrued": completed.AccruedAmount,
		})
	}
	return contribution, nil
}

func (s *service) UpdateContribution(ctx context.Context, userID, contributionID uint, req dto.UpdateContributionRequest) (*domain.Contribution, error) {
	var contribution *domain.Contribution
	err := s.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		contribution, err = s.loadOwnedContribution(ctx, userID, contributionID)
		if err != nil {
			return err
		}
		goal, err := s.loadOwnedGoal(ctx, userID, contribution.GoalID, true)
		if err != nil {
			return err
		}

		delta := req.Amount - contribution.Amount
		contribution.Amount = req.Amount
		contribution.Description = req.Description
		if err := contribution.Validate(); err != nil {
			return apperr.Validation(err.Error())
		}
		if err := s.repo.UpdateContribution(ctx, contribution); err != nil {
			return apperr.Internal(err)
		}

		// A linked installment keeps recording the paid amount.
		if contribution.InstallmentID != nil {
			installment, err := s.repo.FindInstallmentByID(ctx, *contribution.InstallmentID)
			if err == nil && installment.State == domain.InstallmentPaid {
				installment.ExpectedAmount = req.Amount
				if err := s.repo.UpdateInstallment(ctx, installment); err != nil {
					return apperr.Internal(err)
				}
			}
		}

		goal.ApplyProgress(delta)
		if err := s.repo.UpdateGoal(ctx, goal); err != nil {
			return apperr.Internal(err)
		}
		return s.rebalancePendingInstallments(ctx, goal)
	})
	if err != nil {
		return nil, err
	}
	return contribution, nil
}

func (s *service) DeleteContribution(ctx context.Context, userID, contributionID uint) error {
	return s.db.WithinTx(ctx, func(ctx context.Context) error {
		contribution, err := s.loadOwnedContribution(ctx, userID, contributionID)
		if err != nil {
			return err
		}
		goal, err := s.loadOwnedGoal(ctx, userID, contribution.GoalID, true)
		if err != nil {
			return err
		}

		if contribution.InstallmentID != nil {
			installment, err := s.repo.FindInstallmentByID(ctx, *contribution.InstallmentID)
			if err == nil && installment.State == domain.InstallmentPaid {
				installment.Unpay()
				if err := s.repo.UpdateInstallment(ctx, installment); err != nil {
					return apperr.Internal(err)
				}
			}
		}

		goal.ApplyProgress(-contribution.Amount)
		if err := s.repo.UpdateGoal(ctx, goal); err != nil {
			return apperr.Internal(err)
		}
		if err := s.rebalancePendingInstallments(ctx, goal); err != nil {
			return err
		}
		if err := s.repo.DeleteContribution(ctx, contribution.ID); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

// rebalancePendingInstallments spreads the remaining target over the
// PENDING steps with ceiling rounding, so the plan keeps covering the
// target after every contribution event.
func (s *service) rebalancePendingInstallments(ctx context.Context, goal *domain.SavingsGoal) error {
	pending, err := s.repo.ListPendingInstallments(ctx, goal.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	if len(pending) == 0 {
		return nil
	}

	amount := domain.InstallmentAmount(goal.Remaining(), len(pending))
	for i := range pending {
		pending[i].ExpectedAmount = amount
		if err := s.repo.UpdateInstallment(ctx, &pending[i]); err != nil {
			return apperr.Internal(err)
		}
	}
	return nil
}

func (s *service) loadOwnedGoal(ctx context.Context, userID, goalID uint, forUpdate bool) (*domain.SavingsGoal, error) {
	var goal *domain.SavingsGoal
	var err error
	if forUpdate {
		goal, err = s.repo.FindGoalByIDForUpdate(ctx, goalID)
	} else {
		goal, err = s.repo.FindGoalByID(ctx, goalID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("goal not found")
		}
		return nil, apperr.Internal(err)
	}
	if !goal.BelongsTo(userID) {
		return nil, apperr.Forbidden("goal belongs to another user")
	}
	return goal, nil
}

func (s *service) loadOwnedContribution(ctx context.Context, userID, id uint) (*domain.Contribution, error) {
	contribution, err := s.repo.FindContributionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("contribution not found")
		}
		return nil, apperr.Internal(err)
	}
	if !contribution.BelongsTo(userID) {
		return nil, apperr.Forbidden("contribution belongs to another user")
	}
	return contribution, nil
}
