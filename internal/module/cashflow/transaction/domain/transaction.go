package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Type distinguishes income from expense entries.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// IsValid reports whether t is a known entry type.
func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger entry: one income or expense on one
// calendar day.
type Transaction struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserID     uint    `gorm:"not null;index;column:user_id" json:"user_id"`
	CategoryID uint    `gorm:"not null;index;column:category_id" json:"category_id"`
	Amount     float64 `gorm:"type:decimal(15,2);not null;column:amount" json:"amount"`
	Type       Type    `gorm:"type:varchar(10);not null;column:type" json:"type"`
	Description string `gorm:"type:varchar(255);column:description" json:"description"`

	// Calendar day the entry applies to; budget windows compare at day
	// precision.
	Date time.Time `gorm:"type:date;not null;index;column:date" json:"date"`

	// Set when a projection execution materialized this entry.
	ProjectionID *uint `gorm:"index;column:projection_id" json:"projection_id,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Transaction.
func (Transaction) TableName() string {
	return "transactions"
}

// Validate checks the invariants that must hold before persisting.
func (t *Transaction) Validate() error {
	if t.UserID == 0 {
		return errors.New("user_id is required")
	}
	if t.CategoryID == 0 {
		return errors.New("category_id is required")
	}
	if t.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !t.Type.IsValid() {
		return errors.New("invalid transaction type")
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// IsExpense reports whether the entry consumes budget.
func (t *Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// BelongsTo checks if the entry belongs to the given user.
func (t *Transaction) BelongsTo(userID uint) bool {
	return t.UserID == userID
}
