package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newGoal() *SavingsGoal {
	return &SavingsGoal{
		UserID:       1,
		Name:         "Trip",
		TargetAmount: 1200000,
		StartDate:    day(2026, time.January, 1),
		State:        GoalActive,
	}
}

func TestApplyProgress(t *testing.T) {
	g := newGoal()

	g.ApplyProgress(150000)
	assert.Equal(t, 150000.0, g.AccruedAmount)
	assert.Equal(t, GoalActive, g.State)

	g.ApplyProgress(1050000)
	assert.Equal(t, GoalCompleted, g.State)

	// Backing money out reopens the goal.
	g.ApplyProgress(-100)
	assert.Equal(t, GoalActive, g.State)
}

func TestApplyProgressReactivatesPaused(t *testing.T) {
	g := newGoal()
	g.State = GoalPaused
	g.ApplyProgress(1000)
	assert.Equal(t, GoalActive, g.State)

	g.State = GoalPaused
	g.ApplyProgress(-500)
	assert.Equal(t, GoalPaused, g.State)
}

func TestApplyProgressClampsAtZero(t *testing.T) {
	g := newGoal()
	g.ApplyProgress(-9999)
	assert.Equal(t, 0.0, g.AccruedAmount)
}

func TestAcceptsContributions(t *testing.T) {
	g := newGoal()
	assert.True(t, g.AcceptsContributions())
	g.State = GoalPaused
	assert.True(t, g.AcceptsContributions())
	g.State = GoalCompleted
	assert.False(t, g.AcceptsContributions())
	g.State = GoalCancelled
	assert.False(t, g.AcceptsContributions())
}

func TestPlanDates(t *testing.T) {
	g := newGoal()
	assert.Nil(t, g.PlanDates())

	freq := period.Monthly
	deadline := day(2026, time.June, 1)
	g.Frequency = &freq
	g.Deadline = &deadline

	dates := g.PlanDates()
	require.Len(t, dates, 6)
	assert.Equal(t, day(2026, time.January, 1), dates[0])
	assert.Equal(t, day(2026, time.June, 1), dates[5])
}

func TestInstallmentAmount(t *testing.T) {
	assert.Equal(t, 200000.0, InstallmentAmount(1200000, 6))
	// Ceiling rounding so the plan covers the target.
	assert.Equal(t, 210000.0, InstallmentAmount(1050000, 5))
	assert.Equal(t, 334.0, InstallmentAmount(1000, 3))
	assert.Equal(t, 0.0, InstallmentAmount(1000, 0))
}

func TestMarkPaidAndUnpay(t *testing.T) {
	inst := &Installment{GoalID: 1, Sequence: 1, ExpectedAmount: 200000, State: InstallmentPending}

	inst.MarkPaid(42, 180000)
	assert.Equal(t, InstallmentPaid, inst.State)
	assert.Equal(t, 180000.0, inst.ExpectedAmount)
	require.NotNil(t, inst.ContributionID)
	assert.Equal(t, uint(42), *inst.ContributionID)

	inst.Unpay()
	assert.Equal(t, InstallmentPending, inst.State)
	assert.Nil(t, inst.ContributionID)
}
