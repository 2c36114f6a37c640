package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/period"
)

// Type mirrors the entry type the projection materializes.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// IsValid reports whether t is a known projection type.
func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Projection is a template for a recurring income or expense. Execution is
// user-triggered: it materializes one ledger entry and advances the
// last-executed marker.
type Projection struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index;column:user_id" json:"user_id"`

	Name       string  `gorm:"type:varchar(100);not null;column:name" json:"name"`
	Amount     float64 `gorm:"type:decimal(15,2);not null;column:amount" json:"amount"`
	Type       Type    `gorm:"type:varchar(10);not null;column:type" json:"type"`
	CategoryID uint    `gorm:"not null;index;column:category_id" json:"category_id"`

	Frequency    period.Frequency `gorm:"type:varchar(20);not null;column:frequency" json:"frequency"`
	StartDate    time.Time        `gorm:"type:date;not null;column:start_date" json:"start_date"`
	LastExecuted *time.Time       `gorm:"type:date;column:last_executed" json:"last_executed,omitempty"`
	Active       bool             `gorm:"not null;default:true;column:active" json:"active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Projection.
func (Projection) TableName() string {
	return "projections"
}

// Validate checks the invariants that must hold before persisting.
func (p *Projection) Validate() error {
	if p.UserID == 0 {
		return errors.New("user_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !p.Type.IsValid() {
		return errors.New("invalid projection type")
	}
	if p.CategoryID == 0 {
		return errors.New("category_id is required")
	}
	if !p.Frequency.IsValid() {
		return errors.New("invalid frequency")
	}
	if p.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	return nil
}

// MarkExecuted advances the last-executed marker.
func (p *Projection) MarkExecuted(day time.Time) {
	d := period.Date(day)
	p.LastExecuted = &d
}

// BelongsTo checks if the projection belongs to the given user.
func (p *Projection) BelongsTo(userID uint) bool {
	return p.UserID == userID
}
