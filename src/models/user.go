package models

import (
	"time"

	"github.com/google/uuid"
)

type UserPreferences struct {
	Currency string `json:"currency" validate:"omitempty,currency"`
	Theme    string `json:"theme" validate:"omitempty,oneof=light dark"`
	Language string `json:"language" validate:"omitempty,max=10"`
}

type User struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash []byte          `json:"-"`
	Preferences  UserPreferences `json:"preferences"`
	Avatar       *string         `json:"avatar"`
	IsVerified   bool            `json:"isVerified"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
