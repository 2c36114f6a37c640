package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newBudget() *Budget {
	return &Budget{
		UserID:     1,
		CategoryID: 2,
		CapAmount:  500000,
		StartDate:  day(2026, time.January, 1),
		EndDate:    day(2026, time.January, 31),
		Frequency:  period.Monthly,
		State:      StateActive,
	}
}

func TestConsumeCrossesCap(t *testing.T) {
	b := newBudget()

	b.Consume(120000)
	b.Consume(80000)
	assert.Equal(t, 200000.0, b.ConsumedAmount)
	assert.Equal(t, StateActive, b.State)

	b.Consume(350000)
	assert.Equal(t, 550000.0, b.ConsumedAmount)
	assert.Equal(t, StateOver, b.State)

	// Removing spend drops back below the cap and reopens the budget.
	b.Consume(-120000)
	assert.Equal(t, 430000.0, b.ConsumedAmount)
	assert.Equal(t, StateActive, b.State)
}

func TestConsumeExactCapIsOver(t *testing.T) {
	b := newBudget()
	b.Consume(500000)
	assert.Equal(t, StateOver, b.State)
}

func TestConsumeClampsAtZero(t *testing.T) {
	b := newBudget()
	b.Consume(100)
	b.Consume(-5000)
	assert.Equal(t, 0.0, b.ConsumedAmount)
	assert.Equal(t, StateActive, b.State)
}

func TestInactiveIsTerminal(t *testing.T) {
	b := newBudget()
	b.Deactivate()

	b.Consume(999999)
	assert.Equal(t, 0.0, b.ConsumedAmount)
	assert.Equal(t, StateInactive, b.State)

	b.RecalculateState()
	assert.Equal(t, StateInactive, b.State)
}

func TestNearLimit(t *testing.T) {
	b := newBudget()
	b.ConsumedAmount = 400000
	assert.True(t, b.NearLimit(0.8))
	assert.False(t, b.NearLimit(0.9))
}

func TestContains(t *testing.T) {
	b := newBudget()
	assert.True(t, b.Contains(day(2026, time.January, 1)))
	assert.True(t, b.Contains(day(2026, time.January, 31)))
	assert.False(t, b.Contains(day(2026, time.February, 1)))
	assert.False(t, b.Contains(day(2025, time.December, 31)))
}

func TestRenewed(t *testing.T) {
	b := newBudget()
	b.AutoRenew = true
	b.ConsumedAmount = 450000
	b.State = StateActive

	next := b.Renewed()
	assert.Equal(t, day(2026, time.February, 1), next.StartDate)
	assert.Equal(t, day(2026, time.February, 28), next.EndDate)
	assert.Equal(t, 0.0, next.ConsumedAmount)
	assert.Equal(t, StateActive, next.State)
	assert.Equal(t, b.CapAmount, next.CapAmount)
	assert.Equal(t, b.CategoryID, next.CategoryID)
	assert.True(t, next.AutoRenew)
	assert.NotEqual(t, b.PublicID, next.PublicID)
}

func TestValidate(t *testing.T) {
	b := newBudget()
	assert.NoError(t, b.Validate())

	bad := newBudget()
	bad.EndDate = bad.StartDate
	assert.Error(t, bad.Validate())

	bad = newBudget()
	bad.CapAmount = 0
	assert.Error(t, bad.Validate())
}
