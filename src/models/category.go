package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies both transactions and categories. A category's
// type is fixed at creation; transactions must match their category's type.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category is shared reference data, visible to every user. (name, type)
// pairs are unique.
type Category struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
