package util

import (
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransactionRequest() models.TransactionRequest {
	return models.TransactionRequest{
		Type:     "expense",
		Amount:   50,
		Category: "Food",
	}
}

func fieldNames(errs []FieldError) []string {
	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Field
	}
	return names
}

func TestValidateTransactionRequest(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		desc       string
		mutate     func(*models.TransactionRequest)
		wantFields []string
	}{
		{
			desc:   "valid minimal request",
			mutate: func(r *models.TransactionRequest) {},
		},
		{
			desc:       "missing type",
			mutate:     func(r *models.TransactionRequest) { r.Type = "" },
			wantFields: []string{"type"},
		},
		{
			desc:       "unknown type",
			mutate:     func(r *models.TransactionRequest) { r.Type = "transfer" },
			wantFields: []string{"type"},
		},
		{
			desc:       "zero amount",
			mutate:     func(r *models.TransactionRequest) { r.Amount = 0 },
			wantFields: []string{"amount"},
		},
		{
			desc:       "amount above cap",
			mutate:     func(r *models.TransactionRequest) { r.Amount = 1_000_001 },
			wantFields: []string{"amount"},
		},
		{
			desc:       "negative amount",
			mutate:     func(r *models.TransactionRequest) { r.Amount = -5 },
			wantFields: []string{"amount"},
		},
		{
			desc:       "category too long",
			mutate:     func(r *models.TransactionRequest) { r.Category = string(make([]byte, 51)) },
			wantFields: []string{"category"},
		},
		{
			desc:       "unknown payment method",
			mutate:     func(r *models.TransactionRequest) { r.PaymentMethod = "crypto" },
			wantFields: []string{"paymentMethod"},
		},
		{
			desc:       "recurring without frequency and next occurrence",
			mutate:     func(r *models.TransactionRequest) { r.IsRecurring = true },
			wantFields: []string{"recurringFrequency", "nextOccurrence"},
		},
		{
			desc: "recurring fully specified",
			mutate: func(r *models.TransactionRequest) {
				r.IsRecurring = true
				r.RecurringFrequency = "monthly"
				r.NextOccurrence = &now
			},
		},
		{
			desc:       "unsupported currency",
			mutate:     func(r *models.TransactionRequest) { r.Currency = "XYZ" },
			wantFields: []string{"currency"},
		},
		{
			desc:       "tag too long",
			mutate:     func(r *models.TransactionRequest) { r.Tags = []string{"ok", string(make([]byte, 31))} },
			wantFields: []string{"tags[1]"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			req := validTransactionRequest()
			tc.mutate(&req)

			errs := ValidateStruct(req)
			if tc.wantFields == nil {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			assert.ElementsMatch(t, tc.wantFields, fieldNames(errs))
		})
	}
}

func TestCurrencyRuleFollowsSupportedList(t *testing.T) {
	for _, code := range models.SupportedCurrencies {
		req := validTransactionRequest()
		req.Currency = code
		assert.Nil(t, ValidateStruct(req), code)
	}
}

func TestAmountCapMessageUsesMaxAmount(t *testing.T) {
	req := validTransactionRequest()
	req.Amount = models.MaxAmount + 1

	errs := ValidateStruct(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "amount", errs[0].Field)
	assert.Equal(t, "must be at most 1000000", errs[0].Message)
}

func TestValidateRegisterRequest(t *testing.T) {
	req := models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "Str0ng!pass"}
	assert.Nil(t, ValidateStruct(req))

	req.Email = "not-an-email"
	errs := ValidateStruct(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "must be a valid email address", errs[0].Message)
}

func TestStrongPasswordRule(t *testing.T) {
	testCases := []struct {
		password string
		valid    bool
	}{
		{"Str0ng!pass", true},
		{"short1!", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigits!!", false},
		{"NoSpecial123", false},
	}

	for _, tc := range testCases {
		t.Run(tc.password, func(t *testing.T) {
			req := models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: tc.password}
			errs := ValidateStruct(req)
			if tc.valid {
				assert.Nil(t, errs)
			} else {
				require.Len(t, errs, 1)
				assert.Equal(t, "password", errs[0].Field)
			}
		})
	}
}
