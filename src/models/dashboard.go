package models

import "github.com/shopspring/decimal"

// TrendPoint is one calendar-month accumulator in the dashboard's six-month
// series.
type TrendPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// DashboardSnapshot is the derived dashboard state for one user. Totals run
// over the user's entire history, not just the trend window.
type DashboardSnapshot struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	// AccountsBalance is currently identical to NetIncome; there is no
	// separate account ledger yet.
	AccountsBalance    decimal.Decimal `json:"accounts_balance"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
	MonthlyTrend       []TrendPoint    `json:"monthly_trend"`
}
