package util

import (
	"encoding/json"
	"net/http"
	"time"
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, map[string]any{"success": true, "data": data})
}

func WriteList(w http.ResponseWriter, data any, pagination Pagination) {
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": data, "pagination": pagination})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"success": false, "message": message})
}

func WriteValidationErrors(w http.ResponseWriter, errs []FieldError) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "validation failed",
		"errors":  errs,
	})
}

// ParseDate accepts the two formats clients send: bare dates and RFC3339
// timestamps.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// ParseEndDate pushes a bare date to the end of that day, so an inclusive
// upper bound keeps same-day transactions with a later time component.
func ParseEndDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return time.Parse(time.RFC3339, value)
}
