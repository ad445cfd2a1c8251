package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
	PaymentCheck         PaymentMethod = "check"
	PaymentOther         PaymentMethod = "other"
)

type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "daily"
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

// SupportedCurrencies are the codes accepted on create/update. USD is the default.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD"}

const MaxAmount = 1_000_000

type Transaction struct {
	ID                 uuid.UUID           `json:"id"`
	UserID             uuid.UUID           `json:"userId"`
	Type               TransactionType     `json:"type"`
	Amount             float64             `json:"amount"`
	Category           string              `json:"category"`
	Subcategory        *string             `json:"subcategory"`
	Description        *string             `json:"description"`
	Date               time.Time           `json:"date"`
	PaymentMethod      PaymentMethod       `json:"paymentMethod"`
	Tags               []string            `json:"tags"`
	Location           *string             `json:"location"`
	IsRecurring        bool                `json:"isRecurring"`
	RecurringFrequency *RecurringFrequency `json:"recurringFrequency"`
	NextOccurrence     *time.Time          `json:"nextOccurrence"`
	Currency           string              `json:"currency"`
	ExchangeRate       float64             `json:"exchangeRate"`
	Notes              *string             `json:"notes"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}
