package domain

import (
	"time"

	"gorm.io/gorm"
)

// InstallmentState is the lifecycle state of one plan step.
type InstallmentState string

const (
	InstallmentPending   InstallmentState = "PENDING"
	InstallmentPaid      InstallmentState = "PAID"
	InstallmentOverdue   InstallmentState = "OVERDUE"
	InstallmentCancelled InstallmentState = "CANCELLED"
)

// Installment is one scheduled step of a goal's payment plan. Steps form a
// contiguous sequence 1..N per goal.
type Installment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	GoalID uint `gorm:"not null;index;column:goal_id" json:"goal_id"`

	Sequence       int       `gorm:"not null;column:sequence" json:"sequence"`
	ScheduledDate  time.Time `gorm:"type:date;not null;column:scheduled_date" json:"scheduled_date"`
	ExpectedAmount float64   `gorm:"type:decimal(15,2);not null;column:expected_amount" json:"expected_amount"`

	State InstallmentState `gorm:"type:varchar(10);not null;default:'PENDING';column:state" json:"state"`

	// Set iff state is PAID.
	ContributionID *uint `gorm:"column:contribution_id" json:"contribution_id,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Installment.
func (Installment) TableName() string {
	return "installments"
}

// MarkPaid settles the step with the amount actually contributed.
func (i *Installment) MarkPaid(contributionID uint, paidAmount float64) {
	i.State = InstallmentPaid
	i.ExpectedAmount = paidAmount
	i.ContributionID = &contributionID
}

// Unpay reverts a paid step back to PENDING when its contribution is
// deleted.
func (i *Installment) Unpay() {
	i.State = InstallmentPending
	i.ContributionID = nil
}
