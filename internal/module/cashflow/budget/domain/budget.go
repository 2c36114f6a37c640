package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// State is the budget lifecycle state.
type State string

const (
	StateActive   State = "ACTIVE"
	StateInactive State = "INACTIVE"
	StateOver     State = "OVER"
)

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	switch s {
	case StateActive, StateInactive, StateOver:
		return true
	}
	return false
}

// Budget caps EXPENSE entries of one category over a date window and keeps
// a live consumed counter. At most one ACTIVE budget exists per
// (user, category); renewal closes the expired row and opens a fresh one.
type Budget struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:public_id" json:"public_id"`
	UserID   uint      `gorm:"not null;index;column:user_id" json:"user_id"`

	CategoryID     uint    `gorm:"not null;index;column:category_id" json:"category_id"`
	CapAmount      float64 `gorm:"type:decimal(15,2);not null;column:cap_amount" json:"cap_amount"`
	ConsumedAmount float64 `gorm:"type:decimal(15,2);not null;default:0;column:consumed_amount" json:"consumed_amount"`

	// Window bounds, both inclusive.
	StartDate time.Time `gorm:"type:date;not null;column:start_date" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;column:end_date" json:"end_date"`

	Frequency period.Frequency `gorm:"type:varchar(20);not null;column:frequency" json:"frequency"`
	State     State            `gorm:"type:varchar(10);not null;default:'ACTIVE';column:state" json:"state"`
	AutoRenew bool             `gorm:"not null;default:false;column:auto_renew" json:"auto_renew"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Budget.
func (Budget) TableName() string {
	return "budgets"
}

// BeforeCreate assigns the public uuid.
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.PublicID == uuid.Nil {
		b.PublicID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// Validate checks the invariants that must hold before persisting.
func (b *Budget) Validate() error {
	if b.UserID == 0 {
		return errors.New("user_id is required")
	}
	if b.CategoryID == 0 {
		return errors.New("category_id is required")
	}
	if b.CapAmount <= 0 {
		return errors.New("cap amount must be positive")
	}
	if b.ConsumedAmount < 0 {
		return errors.New("consumed amount cannot be negative")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return errors.New("window bounds are required")
	}
	if !b.EndDate.After(b.StartDate) {
		return errors.New("end date must be after start date")
	}
	if !b.Frequency.IsValid() {
		return errors.New("invalid frequency")
	}
	if !b.State.IsValid() {
		return errors.New("invalid state")
	}
	return nil
}

// Consume applies a consumption delta and resettles the state. Negative
// deltas never push consumed below zero. INACTIVE rows are terminal and
// ignore deltas.
func (b *Budget) Consume(delta float64) {
	if b.State == StateInactive {
		return
	}
	b.ConsumedAmount += delta
	if b.ConsumedAmount < 0 {
		b.ConsumedAmount = 0
	}
	b.RecalculateState()
}

// RecalculateState settles ACTIVE vs OVER from the consumed counter:
// OVER iff consumed >= cap. INACTIVE is never left by recalculation.
func (b *Budget) RecalculateState() {
	if b.State == StateInactive {
		return
	}
	if b.ConsumedAmount >= b.CapAmount {
		b.State = StateOver
	} else {
		b.State = StateActive
	}
}

// Deactivate moves the row to its terminal state.
func (b *Budget) Deactivate() {
	b.State = StateInactive
}

// IsOver reports whether the cap has been reached.
func (b *Budget) IsOver() bool {
	return b.ConsumedAmount >= b.CapAmount
}

// NearLimit reports whether consumption has reached the given fraction of
// the cap.
func (b *Budget) NearLimit(threshold float64) bool {
	if b.CapAmount <= 0 {
		return false
	}
	return b.ConsumedAmount/b.CapAmount >= threshold
}

// Contains reports whether the calendar day falls inside the window,
// bounds inclusive.
func (b *Budget) Contains(day time.Time) bool {
	d := period.Date(day)
	return !d.Before(period.Date(b.StartDate)) && !d.After(period.Date(b.EndDate))
}

// NextWindow computes the renewal window that follows this one.
func (b *Budget) NextWindow() (time.Time, time.Time) {
	return b.Frequency.NextWindow(period.Date(b.EndDate))
}

// Renewed builds the replacement row the scheduler inserts when this
// budget expires with auto-renew on: same owner, category, cap, frequency
// and flag, fresh window, zero consumption, new public uuid.
func (b *Budget) Renewed() *Budget {
	start, end := b.NextWindow()
	return &Budget{
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		CapAmount:  b.CapAmount,
		StartDate:  start,
		EndDate:    end,
		Frequency:  b.Frequency,
		State:      StateActive,
		AutoRenew:  b.AutoRenew,
	}
}

// BelongsTo checks if the budget belongs to the given user.
func (b *Budget) BelongsTo(userID uint) bool {
	return b.UserID == userID
}
