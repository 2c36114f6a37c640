package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Contribution is money added to a goal; it may resolve one installment.
type Contribution struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	GoalID uint `gorm:"not null;index;column:goal_id" json:"goal_id"`
	UserID uint `gorm:"not null;index;column:user_id" json:"user_id"`

	Amount      float64 `gorm:"type:decimal(15,2);not null;column:amount" json:"amount"`
	Description string  `gorm:"type:varchar(255);column:description" json:"description"`

	// Installment targeted by the caller, if any.
	InstallmentID *uint `gorm:"column:installment_id" json:"installment_id,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Contribution.
func (Contribution) TableName() string {
	return "contributions"
}

// Validate checks the invariants that must hold before persisting.
func (c *Contribution) Validate() error {
	if c.GoalID == 0 {
		return errors.New("goal_id is required")
	}
	if c.UserID == 0 {
		return errors.New("user_id is required")
	}
	if c.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

// BelongsTo checks if the contribution belongs to the given user.
func (c *Contribution) BelongsTo(userID uint) bool {
	return c.UserID == userID
}
