package db

import (
	"fmt"
	"strings"
	"time"

	"fintrack-server/src/models"

	"github.com/google/uuid"
)

// TransactionFilter carries the optional list/aggregate filters. The owning
// user is deliberately not part of the filter: every query takes the user id
// as a separate mandatory argument and always constrains on it, so an
// unscoped query cannot be expressed.
type TransactionFilter struct {
	Type      string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

// whereClause builds "WHERE user_id = $1 AND ..." plus its argument list. All
// supplied filters combine with AND; absent ones impose no constraint. A type
// value outside income/expense is ignored rather than matching nothing.
func (f TransactionFilter) whereClause(userID uuid.UUID) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}

	add := func(format string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if f.Type == string(models.TypeIncome) || f.Type == string(models.TypeExpense) {
		add("type = $%d", f.Type)
	}
	if f.Category != "" {
		add("category ILIKE $%d", "%"+f.Category+"%")
	}
	if f.StartDate != nil {
		add("date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= $%d", *f.EndDate)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(description ILIKE $%d OR category ILIKE $%d OR notes ILIKE $%d)", n, n, n))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// sortColumns whitelists sortable fields; anything else falls back to date.
var sortColumns = map[string]string{
	"date":      "date",
	"amount":    "amount",
	"category":  "category",
	"createdAt": "created_at",
}

func (o ListOptions) normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if _, ok := sortColumns[o.SortBy]; !ok {
		o.SortBy = "date"
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	return o
}

// orderClause always appends id as the final sort key so ties cannot shuffle
// rows between pages.
func (o ListOptions) orderClause() string {
	dir := "DESC"
	if o.SortOrder == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", sortColumns[o.SortBy], dir)
}

func (o ListOptions) offset() int {
	return (o.Page - 1) * o.Limit
}
