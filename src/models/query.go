package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Sort is a validated {field, direction} pair. Fields are checked against a
// per-entity allow-list before anything reaches the query layer; unknown
// fields are rejected rather than passed through.
type Sort struct {
	Field     string
	Direction SortDirection
}

// ParseSort accepts the client-facing "field" / "-field" form and validates
// the field name against allowed. An empty raw value yields fallback.
func ParseSort(raw string, allowed []string, fallback Sort) (Sort, error) {
	if raw == "" {
		return fallback, nil
	}
	s := Sort{Field: raw, Direction: SortAsc}
	if strings.HasPrefix(raw, "-") {
		s.Field = raw[1:]
		s.Direction = SortDesc
	}
	for _, f := range allowed {
		if s.Field == f {
			return s, nil
		}
	}
	return Sort{}, fmt.Errorf("unknown sort field %q", s.Field)
}

// Page bounds a list query. A non-positive Limit means the query is unpaged.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Pagination is the list-response metadata envelope.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPagination(page Page, total int64) Pagination {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
	}
	return Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page.Page < totalPages,
		HasPrev:    page.Page > 1,
	}
}

// TransactionFilter narrows a transaction query. Nil fields are not applied.
// Date bounds are inclusive; either may be open.
type TransactionFilter struct {
	UserID     int64
	Type       *TransactionType
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Search     string
}

// BudgetFilter narrows a budget query. ActiveOn selects budgets whose
// interval contains the given instant.
type BudgetFilter struct {
	UserID     int64
	CategoryID *uuid.UUID
	Period     *BudgetPeriod
	ActiveOn   *time.Time
}
