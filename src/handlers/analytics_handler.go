package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// parseDateRange reads the optional startDate/endDate query params. Malformed
// values are validation errors rather than silently matching nothing.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, []util.FieldError) {
	q := r.URL.Query()
	var start, end *time.Time
	var errs []util.FieldError

	if v := q.Get("startDate"); v != "" {
		t, err := util.ParseDate(v)
		if err != nil {
			errs = append(errs, util.FieldError{Field: "startDate", Message: "must be a valid date"})
		} else {
			start = &t
		}
	}
	if v := q.Get("endDate"); v != "" {
		t, err := util.ParseEndDate(v)
		if err != nil {
			errs = append(errs, util.FieldError{Field: "endDate", Message: "must be a valid date"})
		} else {
			end = &t
		}
	}
	return start, end, errs
}

func GetSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		start, end, errs := parseDateRange(r)
		if errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		groups, err := db.GetTransactionSummary(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to get summary for user %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to get summary")
			return
		}

		util.WriteData(w, http.StatusOK, models.BuildSummary(groups))
	}
}

func GetCategoryBreakdown(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		txType := models.TransactionType(chi.URLParam(r, "type"))
		if !txType.Valid() {
			util.WriteValidationErrors(w, []util.FieldError{
				{Field: "type", Message: "must be one of: income expense"},
			})
			return
		}

		start, end, errs := parseDateRange(r)
		if errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		groups, err := db.GetCategoryBreakdown(r.Context(), pool, userID, txType, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to get category breakdown for user %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to get category breakdown")
			return
		}
		if groups == nil {
			groups = []models.CategoryAggregate{}
		}

		util.WriteData(w, http.StatusOK, groups)
	}
}

func GetMonthlyTrend(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		months := 12
		if v := r.URL.Query().Get("months"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 60 {
				util.WriteValidationErrors(w, []util.FieldError{
					{Field: "months", Message: "must be an integer between 1 and 60"},
				})
				return
			}
			months = n
		}

		groups, err := db.GetMonthlyTrend(r.Context(), pool, userID, months)
		if err != nil {
			log.Printf("ERROR: Failed to get monthly trend for user %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to get trends")
			return
		}
		if groups == nil {
			groups = []models.MonthlyAggregate{}
		}

		util.WriteData(w, http.StatusOK, groups)
	}
}
