package models

// TypeAggregate is one group of the by-type summary query.
type TypeAggregate struct {
	Type  TransactionType `json:"type"`
	Total float64         `json:"total"`
	Count int64           `json:"count"`
	Avg   float64         `json:"avgAmount"`
}

// CategoryAggregate is one group of the category breakdown query.
type CategoryAggregate struct {
	Category  string  `json:"category"`
	Total     float64 `json:"total"`
	Count     int64   `json:"count"`
	AvgAmount float64 `json:"avgAmount"`
}

// MonthlyAggregate is one (year, month, type) group of the trend query.
type MonthlyAggregate struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Type  TransactionType `json:"type"`
	Total float64         `json:"total"`
	Count int64           `json:"count"`
}

type Summary struct {
	Income            float64 `json:"income"`
	Expense           float64 `json:"expense"`
	Balance           float64 `json:"balance"`
	IncomeCount       int64   `json:"incomeCount"`
	ExpenseCount      int64   `json:"expenseCount"`
	TotalTransactions int64   `json:"totalTransactions"`
}

// BuildSummary reshapes the by-type groups into the fixed summary object.
// Missing groups (a user with no income in range, for example) leave their
// fields at zero.
func BuildSummary(groups []TypeAggregate) Summary {
	var s Summary
	for _, g := range groups {
		switch g.Type {
		case TypeIncome:
			s.Income = g.Total
			s.IncomeCount = g.Count
		case TypeExpense:
			s.Expense = g.Total
			s.ExpenseCount = g.Count
		}
	}
	s.Balance = s.Income - s.Expense
	s.TotalTransactions = s.IncomeCount + s.ExpenseCount
	return s
}
