package domain

import (
	"time"

	"gorm.io/gorm"
)

// Type constrains which entry types a category accepts.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
	TypeBoth    Type = "BOTH"
)

// IsValid reports whether t is a known category type.
func (t Type) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeBoth:
		return true
	}
	return false
}

// Category classifies ledger entries. Predefined rows are seeded and have
// no owner; user rows belong to exactly one user.
type Category struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"type:varchar(100);not null;column:name" json:"name"`
	Icon       string `gorm:"type:varchar(50);column:icon" json:"icon"`
	Type       Type   `gorm:"type:varchar(10);not null;column:type" json:"type"`
	Predefined bool   `gorm:"not null;default:false;column:predefined" json:"predefined"`
	UserID     *uint  `gorm:"index;column:user_id" json:"user_id,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Category.
func (Category) TableName() string {
	return "categories"
}

// PermitsEntryType is the single source of truth for entry/category
// compatibility: BOTH accepts either entry type, otherwise they must match.
func (c *Category) PermitsEntryType(entryType string) bool {
	if c.Type == TypeBoth {
		return entryType == string(TypeIncome) || entryType == string(TypeExpense)
	}
	return string(c.Type) == entryType
}

// VisibleTo reports whether the category may be used by the given user:
// predefined, or owned by that user.
func (c *Category) VisibleTo(userID uint) bool {
	if c.Predefined {
		return true
	}
	return c.UserID != nil && *c.UserID == userID
}
