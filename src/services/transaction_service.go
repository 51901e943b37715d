package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

// transactionSortFields is the allow-list for client-supplied sort values on
// transaction listings.
var transactionSortFields = []string{"date", "amount", "description", "createdAt"}

var defaultTransactionSort = models.Sort{Field: "createdAt", Direction: models.SortDesc}

// TransactionService owns the ledger write paths and the windowed
// aggregations derived from it.
type TransactionService struct {
	store      TransactionStore
	categories *CategoryService
}

func NewTransactionService(store TransactionStore, categories *CategoryService) *TransactionService {
	return &TransactionService{store: store, categories: categories}
}

type CreateTransactionInput struct {
	Amount      decimal.Decimal        `json:"amount"`
	Type        models.TransactionType `json:"type"`
	CategoryID  uuid.UUID              `json:"category_id"`
	Description string                 `json:"description"`
	Date        time.Time              `json:"date"`
}

type UpdateTransactionInput struct {
	Amount      *decimal.Decimal        `json:"amount"`
	Type        *models.TransactionType `json:"type"`
	CategoryID  *uuid.UUID              `json:"category_id"`
	Description *string                 `json:"description"`
	Date        *time.Time              `json:"date"`
}

type ListTransactionsInput struct {
	Filter models.TransactionFilter
	Sort   string
	Page   models.Page
}

func (s *TransactionService) Create(ctx context.Context, userID int64, input CreateTransactionInput) (*models.Transaction, error) {
	if !input.Type.Valid() {
		return nil, InvalidError("invalid transaction type")
	}
	if err := util.ValidateAmount(input.Amount); err != nil {
		return nil, InvalidError(err.Error())
	}
	if input.Date.IsZero() {
		return nil, InvalidError("transaction date is required")
	}

	category, err := s.categories.Validate(ctx, input.Type, input.CategoryID)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateTransaction(ctx, &models.Transaction{
		UserID:      userID,
		Amount:      input.Amount,
		Type:        input.Type,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Date:        input.Date,
	})
	if err != nil {
		return nil, err
	}
	created.Category = category
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, userID int64, id uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.store.GetTransactionByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, NotFoundError("transaction not found")
	}
	return transaction, nil
}

// List runs the filtered page query and the matching count concurrently;
// neither depends on the other's result.
func (s *TransactionService) List(ctx context.Context, userID int64, input ListTransactionsInput) ([]models.Transaction, models.Pagination, error) {
	sort, err := models.ParseSort(input.Sort, transactionSortFields, defaultTransactionSort)
	if err != nil {
		return nil, models.Pagination{}, InvalidError(err.Error())
	}
	filter := input.Filter
	filter.UserID = userID
	page := normalizePage(input.Page)

	var (
		transactions []models.Transaction
		total        int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListTransactions(gctx, filter, sort, page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountTransactions(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, models.Pagination{}, err
	}
	return transactions, models.NewPagination(page, total), nil
}

func (s *TransactionService) Update(ctx context.Context, userID int64, id uuid.UUID, input UpdateTransactionInput) (*models.Transaction, error) {
	transaction, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// Type/category consistency is re-checked whenever either side of the
	// pairing changes. The effective values are the updated ones where
	// supplied, the stored ones otherwise.
	if input.Type != nil && !input.Type.Valid() {
		return nil, InvalidError("invalid transaction type")
	}
	if input.CategoryID != nil || input.Type != nil {
		effectiveType := transaction.Type
		if input.Type != nil {
			effectiveType = *input.Type
		}
		effectiveCategory := transaction.CategoryID
		if input.CategoryID != nil {
			effectiveCategory = *input.CategoryID
		}
		if _, err := s.categories.Validate(ctx, effectiveType, effectiveCategory); err != nil {
			return nil, err
		}
		transaction.Type = effectiveType
		transaction.CategoryID = effectiveCategory
	}

	if input.Amount != nil {
		if err := util.ValidateAmount(*input.Amount); err != nil {
			return nil, InvalidError(err.Error())
		}
		transaction.Amount = *input.Amount
	}
	if input.Description != nil {
		transaction.Description = *input.Description
	}
	if input.Date != nil {
		transaction.Date = *input.Date
	}

	return s.store.UpdateTransaction(ctx, transaction)
}

func (s *TransactionService) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, userID, id)
}

// Statistics computes windowed totals and the per-category breakdown. The
// optional bounds are inclusive and independently open. The four sub-queries
// are independent and issued concurrently.
func (s *TransactionService) Statistics(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.StatisticsSummary, error) {
	base := models.TransactionFilter{UserID: userID, StartDate: startDate, EndDate: endDate}

	incomeType := models.TypeIncome
	expenseType := models.TypeExpense
	incomeFilter := base
	incomeFilter.Type = &incomeType
	expenseFilter := base
	expenseFilter.Type = &expenseType

	var (
		totalIncome  decimal.Decimal
		totalExpense decimal.Decimal
		count        int64
		transactions []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalIncome, err = s.store.SumAmount(gctx, incomeFilter)
		return err
	})
	g.Go(func() error {
		var err error
		totalExpense, err = s.store.SumAmount(gctx, expenseFilter)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.store.CountTransactions(gctx, base)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListTransactions(gctx, base, defaultTransactionSort, models.Page{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown := make(map[string]models.CategoryTotals)
	for _, t := range transactions {
		key := t.CategoryID.String()
		totals := breakdown[key]
		if t.Type == models.TypeIncome {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
		breakdown[key] = totals
	}

	return &models.StatisticsSummary{
		TotalIncome:       totalIncome,
		TotalExpense:      totalExpense,
		Balance:           totalIncome.Sub(totalExpense),
		TransactionCount:  count,
		CategoryBreakdown: breakdown,
	}, nil
}

func normalizePage(p models.Page) models.Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	return p
}
