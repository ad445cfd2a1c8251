package models

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name        string           `json:"name" validate:"omitempty,min=2,max=50"`
	Avatar      *string          `json:"avatar" validate:"omitempty,max=500"`
	Preferences *UserPreferences `json:"preferences"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,strongpassword"`
}

// TransactionRequest is the body for both create and update. Enum defaults
// (paymentMethod=cash, currency=USD, exchangeRate=1) are applied after
// validation, so the omitempty branches accept an absent field.
type TransactionRequest struct {
	Type               string     `json:"type" validate:"required,oneof=income expense"`
	Amount             float64    `json:"amount" validate:"required,gt=0,maxamount"`
	Category           string     `json:"category" validate:"required,max=50"`
	Subcategory        string     `json:"subcategory" validate:"omitempty,max=50"`
	Description        string     `json:"description" validate:"omitempty,max=200"`
	Date               *time.Time `json:"date"`
	PaymentMethod      string     `json:"paymentMethod" validate:"omitempty,oneof=cash card bank_transfer digital_wallet check other"`
	Tags               []string   `json:"tags" validate:"omitempty,dive,max=30"`
	Location           string     `json:"location" validate:"omitempty,max=100"`
	IsRecurring        bool       `json:"isRecurring"`
	RecurringFrequency string     `json:"recurringFrequency" validate:"required_if=IsRecurring true,omitempty,oneof=daily weekly monthly yearly"`
	NextOccurrence     *time.Time `json:"nextOccurrence" validate:"required_if=IsRecurring true"`
	Currency           string     `json:"currency" validate:"omitempty,currency"`
	ExchangeRate       float64    `json:"exchangeRate" validate:"omitempty,gt=0"`
	Notes              string     `json:"notes" validate:"omitempty,max=500"`
}

// BulkDeleteRequest ids are plain strings; entries that do not parse as ids
// are skipped rather than rejected, so a stale id in the client's selection
// cannot fail the whole batch.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}
