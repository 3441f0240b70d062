package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account links an external identity provider account to a local user.
type Account struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID            uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Provider          string    `json:"provider" gorm:"size:64;not null;uniqueIndex:idx_provider_account"`
	ProviderAccountID string    `json:"provider_account_id" gorm:"size:255;not null;uniqueIndex:idx_provider_account"`
	Type              string    `json:"type" gorm:"size:32;default:'oauth'"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
