package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fintrack-server/src/db"
	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionRowColumns = []string{
	"id", "user_id", "type", "amount", "category", "subcategory", "description", "date",
	"payment_method", "tags", "location", "is_recurring", "recurring_frequency", "next_occurrence",
	"currency", "exchange_rate", "notes", "created_at", "updated_at",
}

func transactionRowValues(id, userID uuid.UUID, txType models.TransactionType, amount float64, category string, date time.Time) []any {
	now := time.Now()
	return []any{
		id, userID, txType, amount, category, (*string)(nil), (*string)(nil), date,
		models.PaymentCash, []string{}, (*string)(nil), false, (*models.RecurringFrequency)(nil), (*time.Time)(nil),
		"USD", 1.0, (*string)(nil), now, now,
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestGetTransactionByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	userID, txID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM transactions WHERE id = \$1 AND user_id = \$2`).
		WithArgs(txID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := GetTransactionByID(context.Background(), mock, userID, txID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsPagination(t *testing.T) {
	mock := newMockPool(t)
	userID := uuid.New()
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transactions WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	rows := pgxmock.NewRows(transactionRowColumns).
		AddRow(transactionRowValues(uuid.New(), userID, models.TypeExpense, 50, "Food", date)...).
		AddRow(transactionRowValues(uuid.New(), userID, models.TypeIncome, 1000, "Salary", date)...)
	mock.ExpectQuery(`SELECT .+ FROM transactions WHERE user_id = \$1 ORDER BY date DESC, id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs(userID, 10, 10).
		WillReturnRows(rows)

	transactions, total, err := ListTransactions(context.Background(), mock, userID,
		TransactionFilter{}, ListOptions{Page: 2, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, transactions, 2)
	assert.Equal(t, "Food", transactions[0].Category)
	assert.Equal(t, models.TypeExpense, transactions[0].Type)
	assert.Equal(t, userID, transactions[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsAppliesFilterArgs(t *testing.T) {
	mock := newMockPool(t)
	userID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transactions WHERE user_id = \$1 AND type = \$2 AND date >= \$3`).
		WithArgs(userID, "expense", start).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	mock.ExpectQuery(`SELECT .+ FROM transactions WHERE user_id = \$1 AND type = \$2 AND date >= \$3 ORDER BY`).
		WithArgs(userID, "expense", start, 10, 0).
		WillReturnRows(pgxmock.NewRows(transactionRowColumns))

	transactions, total, err := ListTransactions(context.Background(), mock, userID,
		TransactionFilter{Type: "expense", StartDate: &start}, ListOptions{})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, transactions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransactionNotOwned(t *testing.T) {
	mock := newMockPool(t)

	// pgxmock/v3 requires explicit argument matchers; v4 matched any args
	// when WithArgs was omitted. The UPDATE statement binds 17 parameters.
	updateArgs := make([]any, 17)
	for i := range updateArgs {
		updateArgs[i] = pgxmock.AnyArg()
	}
	mock.ExpectQuery(`UPDATE transactions`).
		WithArgs(updateArgs...).
		WillReturnError(pgx.ErrNoRows)

	tx := &models.Transaction{ID: uuid.New(), UserID: uuid.New(), Type: models.TypeExpense, Amount: 10, Category: "Food"}
	_, err := UpdateTransaction(context.Background(), mock, tx)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTransactionNotFound(t *testing.T) {
	mock := newMockPool(t)
	userID, txID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM transactions WHERE id = \$1 AND user_id = \$2`).
		WithArgs(txID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := DeleteTransaction(context.Background(), mock, userID, txID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkDeleteCountsOnlyOwnedRows(t *testing.T) {
	mock := newMockPool(t)
	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	// One of the three ids is unknown; only two rows go away.
	mock.ExpectExec(`DELETE FROM transactions WHERE user_id = \$1 AND id = ANY\(\$2\)`).
		WithArgs(userID, ids).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	deleted, err := BulkDeleteTransactions(context.Background(), mock, userID, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionSummaryGroupsByType(t *testing.T) {
	mock := newMockPool(t)
	userID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT type, COALESCE\(SUM\(amount\), 0\), COUNT\(\*\), COALESCE\(AVG\(amount\), 0\)`).
		WithArgs(userID, start, end).
		WillReturnRows(pgxmock.NewRows([]string{"type", "sum", "count", "avg"}).
			AddRow(models.TypeIncome, 1000.0, int64(1), 1000.0).
			AddRow(models.TypeExpense, 50.0, int64(1), 50.0))

	groups, err := GetTransactionSummary(context.Background(), mock, userID, &start, &end)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	summary := models.BuildSummary(groups)
	assert.Equal(t, models.Summary{
		Income:            1000,
		Expense:           50,
		Balance:           950,
		IncomeCount:       1,
		ExpenseCount:      1,
		TotalTransactions: 2,
	}, summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategoryBreakdownSortedByTotal(t *testing.T) {
	mock := newMockPool(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT category, COALESCE\(SUM\(amount\), 0\) AS total, COUNT\(\*\), COALESCE\(AVG\(amount\), 0\)[\s\S]+ORDER BY total DESC`).
		WithArgs(userID, "expense").
		WillReturnRows(pgxmock.NewRows([]string{"category", "total", "count", "avg"}).
			AddRow("Rent", 1200.0, int64(1), 1200.0).
			AddRow("Food", 300.0, int64(6), 50.0))

	groups, err := GetCategoryBreakdown(context.Background(), mock, userID, models.TypeExpense, nil, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Rent", groups[0].Category)
	assert.Equal(t, 1200.0, groups[0].Total)
	assert.Equal(t, int64(6), groups[1].Count)
	assert.Equal(t, 50.0, groups[1].AvgAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMonthlyTrendUsesCutoff(t *testing.T) {
	mock := newMockPool(t)
	userID := uuid.New()

	mock.ExpectQuery(`WHERE user_id = \$1 AND date >= \$2[\s\S]+ORDER BY year, month, type`).
		WithArgs(userID, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"year", "month", "type", "sum", "count"}).
			AddRow(2024, 1, models.TypeExpense, 50.0, int64(1)).
			AddRow(2024, 1, models.TypeIncome, 1000.0, int64(1)))

	groups, err := GetMonthlyTrend(context.Background(), mock, userID, 6)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 2024, groups[0].Year)
	assert.Equal(t, 1, groups[0].Month)
	assert.Equal(t, models.TypeExpense, groups[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMonthlyTrendCacheKeyCarriesCurrentMonth(t *testing.T) {
	db.InitCache()
	defer func() { db.Cache = nil }()
	mock := newMockPool(t)
	userID := uuid.New()

	// An entry cached under a previous month's key must not satisfy a read
	// after the boundary; the query has to run again.
	staleKey := fmt.Sprintf("trends:%s:%d:2020-01", userID, 6)
	db.SetAnalyticsCache(userID, staleKey, []models.MonthlyAggregate{{Year: 2019, Month: 7, Type: models.TypeExpense, Total: 10, Count: 1}})
	db.Cache.Wait()

	mock.ExpectQuery(`WHERE user_id = \$1 AND date >= \$2`).
		WithArgs(userID, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"year", "month", "type", "sum", "count"}).
			AddRow(2025, 8, models.TypeIncome, 1000.0, int64(1)))

	groups, err := GetMonthlyTrend(context.Background(), mock, userID, 6)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2025, groups[0].Year)
	assert.NoError(t, mock.ExpectationsWereMet())

	db.Cache.Wait()
	freshKey := fmt.Sprintf("trends:%s:%d:%s", userID, 6, time.Now().Format("2006-01"))
	_, ok := db.GetAnalyticsCache(freshKey)
	assert.True(t, ok)
}
