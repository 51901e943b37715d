package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

// The store interfaces below are the services' only view of persistence.
// Lookup methods return (nil, nil) when no row matches; absence is a domain
// concern the services translate into typed errors, not a store failure.

type CategoryStore interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// GetCategoryByNameAndType resolves the (name, type) uniqueness pair,
	// optionally excluding one category (the one being updated).
	GetCategoryByNameAndType(ctx context.Context, name string, t models.TransactionType, excludeID *uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, t *models.TransactionType) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	// CountCategoryRefs counts transactions plus budgets referencing the
	// category. Deletion is forbidden while the count is non-zero.
	CountCategoryRefs(ctx context.Context, id uuid.UUID) (int64, error)
}

type TransactionStore interface {
	GetTransactionByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Transaction, error)
	// ListTransactions returns category-joined rows. A non-positive
	// page.Limit disables pagination.
	ListTransactions(ctx context.Context, f models.TransactionFilter, sort models.Sort, page models.Page) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, f models.TransactionFilter) (int64, error)
	// SumAmount aggregates amount over the filtered set, returning exact
	// zero when nothing matches.
	SumAmount(ctx context.Context, f models.TransactionFilter) (decimal.Decimal, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID int64, id uuid.UUID) error
}

type BudgetStore interface {
	GetBudgetByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error)
	ListBudgets(ctx context.Context, f models.BudgetFilter, sort models.Sort, page models.Page) ([]models.Budget, error)
	CountBudgets(ctx context.Context, f models.BudgetFilter) (int64, error)
	// FindOverlappingBudget returns any budget for (userID, categoryID)
	// whose closed interval intersects [start, end], excluding excludeID
	// when non-nil.
	FindOverlappingBudget(ctx context.Context, userID int64, categoryID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*models.Budget, error)
	CreateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID int64, id uuid.UUID) error
}
