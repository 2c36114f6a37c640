package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Kind identifies a notification event.
type Kind string

const (
	KindBudgetOver    Kind = "BUDGET_OVER"
	KindGoalCompleted Kind = "GOAL_COMPLETED"
)

// Notification is a persisted event raised by the financial engine and
// delivered to the owner over the websocket stream.
type Notification struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index;column:user_id" json:"user_id"`

	Kind    Kind           `gorm:"type:varchar(30);not null;column:kind" json:"kind"`
	Payload datatypes.JSON `gorm:"type:jsonb;column:payload" json:"payload"`
	Read    bool           `gorm:"not null;default:false;column:read" json:"read"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Notification.
func (Notification) TableName() string {
	return "notifications"
}

// BelongsTo checks if the notification belongs to the given user.
func (n *Notification) BelongsTo(userID uint) bool {
	return n.UserID == userID
}
