package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod is descriptive only; a budget never auto-generates recurring
// instances.
type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "MONTHLY"
	PeriodYearly  BudgetPeriod = "YEARLY"
)

func (p BudgetPeriod) Valid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

// Budget caps spending for one (user, category) pair over a closed date
// interval. For a given pair, no two budgets may have overlapping intervals.
type Budget struct {
	ID         uuid.UUID       `json:"id"`
	UserID     int64           `json:"user_id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Period     BudgetPeriod    `json:"period"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BudgetProgress is a budget plus its derived spend figures. Remaining goes
// negative on overspend; that is reported, not rejected.
type BudgetProgress struct {
	Budget
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}
