package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack-server/src/db"
	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const transactionColumns = `id, user_id, type, amount, category, subcategory, description, date,
	payment_method, tags, location, is_recurring, recurring_frequency, next_occurrence,
	currency, exchange_rate, notes, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Subcategory, &t.Description, &t.Date,
		&t.PaymentMethod, &t.Tags, &t.Location, &t.IsRecurring, &t.RecurringFrequency, &t.NextOccurrence,
		&t.Currency, &t.ExchangeRate, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTransaction(ctx context.Context, q db.Querier, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, amount, category, subcategory, description, date,
			payment_method, tags, location, is_recurring, recurring_frequency, next_occurrence,
			currency, exchange_rate, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + transactionColumns
	created, err := scanTransaction(q.QueryRow(ctx, query,
		t.UserID, t.Type, t.Amount, t.Category, t.Subcategory, t.Description, t.Date,
		t.PaymentMethod, t.Tags, t.Location, t.IsRecurring, t.RecurringFrequency, t.NextOccurrence,
		t.Currency, t.ExchangeRate, t.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	db.ClearAnalyticsCache(t.UserID)
	return created, nil
}

func GetTransactionByID(ctx context.Context, q db.Querier, userID, transactionID uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	t, err := scanTransaction(q.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return t, nil
}

// ListTransactions returns one page of the user's transactions matching the
// filter, plus the total match count for pagination.
func ListTransactions(ctx context.Context, q db.Querier, userID uuid.UUID, filter TransactionFilter, opts ListOptions) ([]models.Transaction, int64, error) {
	where, args := filter.whereClause(userID)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query error: %w", err)
	}

	opts = opts.normalize()
	query := fmt.Sprintf(`SELECT %s FROM transactions %s %s LIMIT $%d OFFSET $%d`,
		transactionColumns, where, opts.orderClause(), len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list query error: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, total, rows.Err()
}

func UpdateTransaction(ctx context.Context, q db.Querier, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, subcategory = $4, description = $5, date = $6,
			payment_method = $7, tags = $8, location = $9, is_recurring = $10,
			recurring_frequency = $11, next_occurrence = $12, currency = $13, exchange_rate = $14,
			notes = $15, updated_at = NOW()
		WHERE id = $16 AND user_id = $17
		RETURNING ` + transactionColumns
	updated, err := scanTransaction(q.QueryRow(ctx, query,
		t.Type, t.Amount, t.Category, t.Subcategory, t.Description, t.Date,
		t.PaymentMethod, t.Tags, t.Location, t.IsRecurring,
		t.RecurringFrequency, t.NextOccurrence, t.Currency, t.ExchangeRate,
		t.Notes, t.ID, t.UserID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	db.ClearAnalyticsCache(t.UserID)
	return updated, nil
}

func DeleteTransaction(ctx context.Context, q db.Querier, userID, transactionID uuid.UUID) error {
	cmd, err := q.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, transactionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	db.ClearAnalyticsCache(userID)
	return nil
}

// BulkDeleteTransactions deletes the subset of ids owned by the user and
// reports how many rows actually went away. Unknown or unowned ids are
// silently skipped.
func BulkDeleteTransactions(ctx context.Context, q db.Querier, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	cmd, err := q.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}
	if cmd.RowsAffected() > 0 {
		db.ClearAnalyticsCache(userID)
	}
	return cmd.RowsAffected(), nil
}

func rangeKey(start, end *time.Time) string {
	key := "-"
	if start != nil {
		key = start.UTC().Format(time.RFC3339)
	}
	key += ":"
	if end != nil {
		key += end.UTC().Format(time.RFC3339)
	} else {
		key += "-"
	}
	return key
}

// GetTransactionSummary groups the user's transactions by type within the
// optional date range. At most two groups come back; absent types simply do
// not appear.
func GetTransactionSummary(ctx context.Context, q db.Querier, userID uuid.UUID, start, end *time.Time) ([]models.TypeAggregate, error) {
	cacheKey := fmt.Sprintf("summary:%s:%s", userID, rangeKey(start, end))
	if v, ok := db.GetAnalyticsCache(cacheKey); ok {
		if groups, ok := v.([]models.TypeAggregate); ok {
			return groups, nil
		}
	}

	filter := TransactionFilter{StartDate: start, EndDate: end}
	where, args := filter.whereClause(userID)
	query := `
		SELECT type, COALESCE(SUM(amount), 0), COUNT(*), COALESCE(AVG(amount), 0)
		FROM transactions ` + where + `
		GROUP BY type`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summary query error: %w", err)
	}
	defer rows.Close()

	var groups []models.TypeAggregate
	for rows.Next() {
		var g models.TypeAggregate
		if err := rows.Scan(&g.Type, &g.Total, &g.Count, &g.Avg); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetAnalyticsCache(userID, cacheKey, groups)
	return groups, nil
}

// GetCategoryBreakdown groups one transaction type by category, largest total
// first. The type must be validated by the caller before it gets here.
func GetCategoryBreakdown(ctx context.Context, q db.Querier, userID uuid.UUID, txType models.TransactionType, start, end *time.Time) ([]models.CategoryAggregate, error) {
	cacheKey := fmt.Sprintf("categories:%s:%s:%s", userID, txType, rangeKey(start, end))
	if v, ok := db.GetAnalyticsCache(cacheKey); ok {
		if groups, ok := v.([]models.CategoryAggregate); ok {
			return groups, nil
		}
	}

	filter := TransactionFilter{Type: string(txType), StartDate: start, EndDate: end}
	where, args := filter.whereClause(userID)
	query := `
		SELECT category, COALESCE(SUM(amount), 0) AS total, COUNT(*), COALESCE(AVG(amount), 0)
		FROM transactions ` + where + `
		GROUP BY category
		ORDER BY total DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category breakdown query error: %w", err)
	}
	defer rows.Close()

	var groups []models.CategoryAggregate
	for rows.Next() {
		var g models.CategoryAggregate
		if err := rows.Scan(&g.Category, &g.Total, &g.Count, &g.AvgAmount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetAnalyticsCache(userID, cacheKey, groups)
	return groups, nil
}

// GetMonthlyTrend groups the user's last N months of transactions by
// (year, month, type), ascending. Amounts are summed at face value; no
// currency conversion is applied.
func GetMonthlyTrend(ctx context.Context, q db.Querier, userID uuid.UUID, months int) ([]models.MonthlyAggregate, error) {
	// The cutoff tracks the clock, so the key carries the current month and
	// an entry cached before a month boundary cannot be served after it.
	now := time.Now()
	cacheKey := fmt.Sprintf("trends:%s:%d:%s", userID, months, now.Format("2006-01"))
	if v, ok := db.GetAnalyticsCache(cacheKey); ok {
		if groups, ok := v.([]models.MonthlyAggregate); ok {
			return groups, nil
		}
	}

	cutoff := now.AddDate(0, -months, 0)
	query := `
		SELECT EXTRACT(YEAR FROM date)::int AS year, EXTRACT(MONTH FROM date)::int AS month,
			type, COALESCE(SUM(amount), 0), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND date >= $2
		GROUP BY year, month, type
		ORDER BY year, month, type`

	rows, err := q.Query(ctx, query, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("trend query error: %w", err)
	}
	defer rows.Close()

	var groups []models.MonthlyAggregate
	for rows.Next() {
		var g models.MonthlyAggregate
		if err := rows.Scan(&g.Year, &g.Month, &g.Type, &g.Total, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetAnalyticsCache(userID, cacheKey, groups)
	return groups, nil
}
