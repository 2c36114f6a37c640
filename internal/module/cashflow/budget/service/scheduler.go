package service

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// ProcessExpiredAt rolls expired auto-renewable budgets into their next
// window and deactivates the rest. Each row runs in its own transaction
// with its own timeout, so one stuck or conflicting row cannot abort the
// pass.
func (s *service) ProcessExpiredAt(ctx context.Context, date time.Time, perRowTimeout time.Duration) ProcessReport {
	var report ProcessReport

	pending, err := s.repo.ListPendingProcessing(ctx, period.Date(date))
	if err != nil {
		s.logger.Error("renewal pass failed to load pending budgets", zap.Error(err))
		return report
	}

	for _, row := range pending {
		report.Processed++

		rowCtx := ctx
		cancel := context.CancelFunc(func() {})
		if perRowTimeout > 0 {
			rowCtx, cancel = context.WithTimeout(ctx, perRowTimeout)
		}

		renewed, err := s.processOne(rowCtx, row.ID, date)
		cancel()

		switch {
		case err != nil:
			report.Failed++
			s.logger.Warn("renewal failed for budget, continuing",
				zap.String("budget_id", row.PublicID.String()),
				zap.Error(err),
			)
		case renewed:
			report.Renewed++
		default:
			report.Deactivated++
		}
	}

	s.logger.Info("renewal pass complete",
		zap.Int("processed", report.Processed),
		zap.Int("renewed", report.Renewed),
		zap.Int("deactivated", report.Deactivated),
		zap.Int("failed", report.Failed),
	)
	return report
}

func (s *service) processOne(ctx context.Context, budgetID uint, date time.Time) (renewed bool, err error) {
	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		budget, err := s.repo.FindByIDForUpdate(ctx, budgetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // deleted since the pass started
			}
			return apperr.Internal(err)
		}
		// A request may have processed or deactivated the row already.
		if budget.State == domain.StateInactive || !period.Date(budget.EndDate).Before(period.Date(date)) {
			return nil
		}

		if budget.AutoRenew {
			next := budget.Renewed()
			if err := s.repo.Create(ctx, next); err != nil {
				// A concurrently created ACTIVE budget for the same
				// (user, category) wins; this row stays for the next
				// pass and the uniqueness invariant holds.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.StateConflict("active budget already exists for the renewal window")
				}
				return apperr.Internal(err)
			}
			renewed = true
		}

		budget.Deactivate()
		if err := s.repo.Update(ctx, budget); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	return renewed, err
}

// RenewalScheduler drives the daily renewal pass. One cron fire is one
// pass over the pending set.
type RenewalScheduler struct {
	cron   *cron.Cron
	svc    Service
	cfg    config.SchedulerConfig
	logger *zap.Logger
}

// NewRenewalScheduler creates the scheduler; Start registers the cron
// entry.
func NewRenewalScheduler(svc Service, cfg config.SchedulerConfig, logger *zap.Logger) *RenewalScheduler {
	return &RenewalScheduler{
		cron:   cron.New(),
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// Start schedules the pass and launches the cron loop.
func (r *RenewalScheduler) Start() error {
	_, err := r.cron.AddFunc(r.cfg.CronSpec, func() {
		r.RunOnce(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("budget renewal scheduler started", zap.String("cron", r.cfg.CronSpec))
	return nil
}

// RunOnce executes one pass. Exposed so ops and tests can trigger it
// directly.
func (r *RenewalScheduler) RunOnce(ctx context.Context, now time.Time) ProcessReport {
	return r.svc.ProcessExpiredAt(ctx, now, r.cfg.PerRowTimeout)
}

// Stop halts the cron loop and waits for a running pass to finish.
func (r *RenewalScheduler) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
}
