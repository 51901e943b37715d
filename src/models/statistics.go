package models

import "github.com/shopspring/decimal"

// CategoryTotals splits a category's filtered activity by transaction type.
type CategoryTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// StatisticsSummary holds windowed totals plus a per-category breakdown.
// The breakdown is keyed by category id.
type StatisticsSummary struct {
	TotalIncome       decimal.Decimal           `json:"total_income"`
	TotalExpense      decimal.Decimal           `json:"total_expense"`
	Balance           decimal.Decimal           `json:"balance"`
	TransactionCount  int64                     `json:"transaction_count"`
	CategoryBreakdown map[string]CategoryTotals `json:"category_breakdown"`
}
