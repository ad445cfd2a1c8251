package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// transactionFromRequest maps a validated request onto the model, filling the
// documented defaults: date=now, paymentMethod=cash, currency=USD,
// exchangeRate=1.
func transactionFromRequest(userID uuid.UUID, req models.TransactionRequest) *models.Transaction {
	t := &models.Transaction{
		UserID:        userID,
		Type:          models.TransactionType(req.Type),
		Amount:        req.Amount,
		Category:      strings.TrimSpace(req.Category),
		Subcategory:   optString(req.Subcategory),
		Description:   optString(req.Description),
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
		Tags:          []string{},
		Location:      optString(req.Location),
		IsRecurring:   req.IsRecurring,
		Currency:      "USD",
		ExchangeRate:  1,
		Notes:         optString(req.Notes),
	}
	if req.Date != nil {
		t.Date = *req.Date
	}
	if req.PaymentMethod != "" {
		t.PaymentMethod = models.PaymentMethod(req.PaymentMethod)
	}
	if len(req.Tags) > 0 {
		t.Tags = req.Tags
	}
	if req.Currency != "" {
		t.Currency = req.Currency
	}
	if req.ExchangeRate != 0 {
		t.ExchangeRate = req.ExchangeRate
	}
	if req.IsRecurring {
		freq := models.RecurringFrequency(req.RecurringFrequency)
		t.RecurringFrequency = &freq
		t.NextOccurrence = req.NextOccurrence
	}
	return t
}

// transactionForUpdate is full replacement except for date: an omitted date
// keeps the stored occurrence date instead of resetting it to now.
func transactionForUpdate(existing *models.Transaction, req models.TransactionRequest) *models.Transaction {
	t := transactionFromRequest(existing.UserID, req)
	t.ID = existing.ID
	if req.Date == nil {
		t.Date = existing.Date
	}
	return t
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if errs := util.ValidateStruct(req); errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		created, err := db.CreateTransaction(r.Context(), pool, transactionFromRequest(userID, req))
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to create transaction")
			return
		}

		log.Printf("INFO: Created transaction %s for user %s, category %s", created.ID, userID, created.Category)
		util.WriteData(w, http.StatusCreated, created)
	}
}

// parseListParams turns the list query string into a filter and page options.
// Malformed dates and numbers come back as field errors; an out-of-vocabulary
// type is dropped silently per the API contract.
func parseListParams(r *http.Request) (db.TransactionFilter, db.ListOptions, []util.FieldError) {
	q := r.URL.Query()
	var errs []util.FieldError

	filter := db.TransactionFilter{
		Type:     q.Get("type"),
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	opts := db.ListOptions{
		Page:      1,
		Limit:     10,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, util.FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			opts.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, util.FieldError{Field: "limit", Message: "must be a positive integer"})
		} else {
			opts.Limit = n
		}
	}

	startDate, endDate, dateErrs := parseDateRange(r)
	filter.StartDate = startDate
	filter.EndDate = endDate
	errs = append(errs, dateErrs...)

	return filter, opts, errs
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		filter, opts, errs := parseListParams(r)
		if errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		transactions, total, err := db.ListTransactions(r.Context(), pool, userID, filter, opts)
		if err != nil {
			log.Printf("ERROR: Failed to list transactions for user %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to get transactions")
			return
		}
		if transactions == nil {
			transactions = []models.Transaction{}
		}

		page, limit := opts.Page, opts.Limit
		if limit > 100 {
			limit = 100
		}
		util.WriteList(w, transactions, util.NewPagination(page, limit, total))
	}
}

func GetTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			util.WriteError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		transaction, err := db.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if err != nil {
			if errors.Is(err, db.ErrTransactionNotFound) {
				util.WriteError(w, http.StatusNotFound, "transaction not found")
				return
			}
			log.Printf("ERROR: Failed to get transaction %s for user %s: %v", transactionID, userID, err)
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		util.WriteData(w, http.StatusOK, transaction)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			util.WriteError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if errs := util.ValidateStruct(req); errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		existing, err := db.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if err != nil {
			if errors.Is(err, db.ErrTransactionNotFound) {
				util.WriteError(w, http.StatusNotFound, "transaction not found")
				return
			}
			log.Printf("ERROR: Failed to load transaction %s for update - user %s: %v", transactionID, userID, err)
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		updated, err := db.UpdateTransaction(r.Context(), pool, transactionForUpdate(existing, req))
		if err != nil {
			if errors.Is(err, db.ErrTransactionNotFound) {
				util.WriteError(w, http.StatusNotFound, "transaction not found")
				return
			}
			log.Printf("ERROR: Failed to update transaction %s for user %s: %v", transactionID, userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to update transaction")
			return
		}

		log.Printf("INFO: Updated transaction %s for user %s", updated.ID, userID)
		util.WriteData(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			util.WriteError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		if err := db.DeleteTransaction(r.Context(), pool, userID, transactionID); err != nil {
			if errors.Is(err, db.ErrTransactionNotFound) {
				util.WriteError(w, http.StatusNotFound, "transaction not found")
				return
			}
			log.Printf("ERROR: Failed to delete transaction %s for user %s: %v", transactionID, userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to delete transaction")
			return
		}

		log.Printf("INFO: Deleted transaction %s for user %s", transactionID, userID)
		util.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "transaction deleted",
		})
	}
}

func BulkDeleteTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		var req models.BulkDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode bulk delete request body for user %s: %v", userID, err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if errs := util.ValidateStruct(req); errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		ids := make([]uuid.UUID, 0, len(req.IDs))
		for _, raw := range req.IDs {
			if id, err := uuid.Parse(raw); err == nil {
				ids = append(ids, id)
			}
		}

		var deleted int64
		if len(ids) > 0 {
			var err error
			deleted, err = db.BulkDeleteTransactions(r.Context(), pool, userID, ids)
			if err != nil {
				log.Printf("ERROR: Failed to bulk delete transactions for user %s: %v", userID, err)
				util.WriteError(w, http.StatusInternalServerError, "failed to delete transactions")
				return
			}
		}

		log.Printf("INFO: Bulk deleted %d transactions for user %s", deleted, userID)
		util.WriteJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"deletedCount": deleted,
		})
	}
}
