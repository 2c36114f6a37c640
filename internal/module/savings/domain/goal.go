package domain

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// GoalState is the savings goal lifecycle state.
type GoalState string

const (
	GoalActive    GoalState = "ACTIVE"
	GoalCompleted GoalState = "COMPLETED"
	GoalPaused    GoalState = "PAUSED"
	GoalCancelled GoalState = "CANCELLED"
)

// IsValid reports whether s is a known goal state.
func (s GoalState) IsValid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalPaused, GoalCancelled:
		return true
	}
	return false
}

// SavingsGoal is a savings target with an optional dated installment plan
// and a running accrued amount. Name is unique per owner.
type SavingsGoal struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index;column:user_id" json:"user_id"`

	Name          string  `gorm:"type:varchar(100);not null;column:name" json:"name"`
	TargetAmount  float64 `gorm:"type:decimal(15,2);not null;column:target_amount" json:"target_amount"`
	AccruedAmount float64 `gorm:"type:decimal(15,2);not null;default:0;column:accrued_amount" json:"accrued_amount"`

	StartDate time.Time         `gorm:"type:date;not null;column:start_date" json:"start_date"`
	Deadline  *time.Time        `gorm:"type:date;column:deadline" json:"deadline,omitempty"`
	Frequency *period.Frequency `gorm:"type:varchar(20);column:frequency" json:"frequency,omitempty"`

	Icon  string    `gorm:"type:varchar(50);column:icon" json:"icon"`
	Color string    `gorm:"type:varchar(20);column:color" json:"color"`
	State GoalState `gorm:"type:varchar(10);not null;default:'ACTIVE';column:state" json:"state"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for SavingsGoal.
func (SavingsGoal) TableName() string {
	return "savings_goals"
}

// Validate checks the invariants that must hold before persisting.
func (g *SavingsGoal) Validate() error {
	if g.UserID == 0 {
		return errors.New("user_id is required")
	}
	if g.Name == "" {
		return errors.New("name is required")
	}
	if g.TargetAmount <= 0 {
		return errors.New("target amount must be positive")
	}
	if g.AccruedAmount < 0 {
		return errors.New("accrued amount cannot be negative")
	}
	if g.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if g.Deadline != nil && g.Deadline.Before(g.StartDate) {
		return errors.New("deadline cannot precede start date")
	}
	if g.Frequency != nil && !g.Frequency.IsValid() {
		return errors.New("invalid frequency")
	}
	if !g.State.IsValid() {
		return errors.New("invalid state")
	}
	return nil
}

// AcceptsContributions reports whether money may still be added.
func (g *SavingsGoal) AcceptsContributions() bool {
	return g.State == GoalActive || g.State == GoalPaused
}

// ApplyProgress adjusts the accrued amount by delta and resettles the
// state: COMPLETED iff accrued >= target, and a contribution to a PAUSED
// goal reactivates it. Negative deltas never push accrued below zero.
func (g *SavingsGoal) ApplyProgress(delta float64) {
	g.AccruedAmount += delta
	if g.AccruedAmount < 0 {
		g.AccruedAmount = 0
	}
	switch {
	case g.AccruedAmount >= g.TargetAmount:
		g.State = GoalCompleted
	case g.State == GoalCompleted:
		g.State = GoalActive
	case delta > 0 && g.State == GoalPaused:
		g.State = GoalActive
	}
}

// Remaining is the amount still needed to reach the target.
func (g *SavingsGoal) Remaining() float64 {
	return math.Max(0, g.TargetAmount-g.AccruedAmount)
}

// HasPlan reports whether an installment plan can be generated.
func (g *SavingsGoal) HasPlan() bool {
	return g.Frequency != nil && g.Deadline != nil
}

// PlanDates enumerates the scheduled installment dates from the start by
// the configured frequency, up to and including the deadline.
func (g *SavingsGoal) PlanDates() []time.Time {
	if !g.HasPlan() {
		return nil
	}
	return g.Frequency.Schedule(period.Date(g.StartDate), period.Date(*g.Deadline))
}

// InstallmentAmount divides the target over n installments with ceiling
// rounding, so the plan collectively covers the target.
func InstallmentAmount(target float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Ceil(target / float64(n))
}

// BelongsTo checks if the goal belongs to the given user.
func (g *SavingsGoal) BelongsTo(userID uint) bool {
	return g.UserID == userID
}
