package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles assignable to users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user. PasswordHash is nil for accounts
// created through an external identity provider only.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName     string    `json:"first_name" gorm:"size:255"`
	LastName      string    `json:"last_name" gorm:"size:255"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  *string   `json:"-" gorm:"size:255"` // Never expose in JSON
	Role          string    `json:"role" gorm:"size:50;default:'user';not null"`
	Image         string    `json:"image,omitempty" gorm:"size:512"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Accounts []Account `json:"accounts,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPassword reports whether the user can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Sanitized returns a copy of the user with secret material stripped.
func (u *User) Sanitized() *User {
	out := *u
	out.PasswordHash = nil
	return &out
}
