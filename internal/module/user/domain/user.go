package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role classifies a user account.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
	RoleUserChild Role = "USER_CHILD"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleUserChild:
		return true
	}
	return false
}

// User is the internal account record. The identity provider owns
// credentials; ExternalSubjectID links its subject to this row. Downstream
// components only ever see the internal numeric ID.
type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:public_id" json:"public_id"`

	// Nullable for legacy accounts created before the identity provider
	// migration.
	ExternalSubjectID *uuid.UUID `gorm:"type:uuid;uniqueIndex;column:external_subject_id" json:"-"`

	Email    string `gorm:"type:varchar(255);uniqueIndex;not null;column:email" json:"email"`
	FullName string `gorm:"type:varchar(255);column:full_name" json:"full_name"`

	// Only set for legacy password accounts.
	PasswordHash *string `gorm:"type:varchar(255);column:password_hash" json:"-"`

	Role       Role  `gorm:"type:varchar(20);not null;default:'USER';column:role" json:"role"`
	GuardianID *uint `gorm:"column:guardian_id" json:"guardian_id,omitempty"`
	Active     bool  `gorm:"not null;default:true;column:active" json:"active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the public uuid.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.PublicID == uuid.Nil {
		u.PublicID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// Validate checks the invariants that must hold before persisting.
// A USER_CHILD must have a guardian; any other role must not.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !u.Role.IsValid() {
		return errors.New("invalid role")
	}
	if u.Role == RoleUserChild && u.GuardianID == nil {
		return errors.New("child account requires a guardian")
	}
	if u.Role != RoleUserChild && u.GuardianID != nil {
		return errors.New("guardian is only valid for child accounts")
	}
	return nil
}

// IsAdmin reports whether the user may use admin-scoped routes.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
