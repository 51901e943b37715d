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

var budgetSortFields = []string{"startDate", "endDate", "amount", "createdAt"}

var defaultBudgetSort = models.Sort{Field: "createdAt", Direction: models.SortDesc}

// BudgetService enforces the budget interval invariants and derives spend
// progress from the ledger.
type BudgetService struct {
	store      BudgetStore
	ledger     TransactionStore
	categories *CategoryService
}

func NewBudgetService(store BudgetStore, ledger TransactionStore, categories *CategoryService) *BudgetService {
	return &BudgetService{store: store, ledger: ledger, categories: categories}
}

type CreateBudgetInput struct {
	CategoryID uuid.UUID           `json:"category_id"`
	Amount     decimal.Decimal     `json:"amount"`
	Period     models.BudgetPeriod `json:"period"`
	StartDate  time.Time           `json:"start_date"`
	EndDate    time.Time           `json:"end_date"`
}

type UpdateBudgetInput struct {
	CategoryID *uuid.UUID           `json:"category_id"`
	Amount     *decimal.Decimal     `json:"amount"`
	Period     *models.BudgetPeriod `json:"period"`
	StartDate  *time.Time           `json:"start_date"`
	EndDate    *time.Time           `json:"end_date"`
}

type ListBudgetsInput struct {
	Filter models.BudgetFilter
	Sort   string
	Page   models.Page
}

func (s *BudgetService) Create(ctx context.Context, userID int64, input CreateBudgetInput) (*models.BudgetProgress, error) {
	if !input.Period.Valid() {
		return nil, InvalidError("invalid budget period")
	}
	if err := util.ValidateAmount(input.Amount); err != nil {
		return nil, InvalidError(err.Error())
	}
	category, err := s.categories.Get(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRangeAndOverlap(ctx, userID, input.CategoryID, input.StartDate, input.EndDate, nil); err != nil {
		return nil, err
	}

	// The overlap check above is a friendly-error fast path; the store's
	// exclusion constraint is the authoritative guard against the
	// check-then-insert race and also surfaces as Conflict.
	created, err := s.store.CreateBudget(ctx, &models.Budget{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Period:     input.Period,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	})
	if err != nil {
		return nil, err
	}
	created.Category = category
	return s.Progress(ctx, created)
}

func (s *BudgetService) Get(ctx context.Context, userID int64, id uuid.UUID) (*models.BudgetProgress, error) {
	budget, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.Progress(ctx, budget)
}

// List returns the filtered page with progress computed independently per
// budget. Any aggregator failure aborts the whole response.
func (s *BudgetService) List(ctx context.Context, userID int64, input ListBudgetsInput) ([]models.BudgetProgress, models.Pagination, error) {
	sort, err := models.ParseSort(input.Sort, budgetSortFields, defaultBudgetSort)
	if err != nil {
		return nil, models.Pagination{}, InvalidError(err.Error())
	}
	filter := input.Filter
	filter.UserID = userID
	page := normalizePage(input.Page)

	var (
		budgets []models.Budget
		total   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, filter, sort, page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountBudgets(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, models.Pagination{}, err
	}

	progress := make([]models.BudgetProgress, 0, len(budgets))
	for i := range budgets {
		p, err := s.Progress(ctx, &budgets[i])
		if err != nil {
			return nil, models.Pagination{}, err
		}
		progress = append(progress, *p)
	}
	return progress, models.NewPagination(page, total), nil
}

func (s *BudgetService) Update(ctx context.Context, userID int64, id uuid.UUID, input UpdateBudgetInput) (*models.BudgetProgress, error) {
	budget, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		budget.CategoryID = *input.CategoryID
	}
	if input.Amount != nil {
		if err := util.ValidateAmount(*input.Amount); err != nil {
			return nil, InvalidError(err.Error())
		}
		budget.Amount = *input.Amount
	}
	if input.Period != nil {
		if !input.Period.Valid() {
			return nil, InvalidError("invalid budget period")
		}
		budget.Period = *input.Period
	}
	if input.StartDate != nil {
		budget.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		budget.EndDate = *input.EndDate
	}

	// Overlap is re-checked against the effective values, excluding the
	// budget being updated from the comparison set.
	if err := s.checkRangeAndOverlap(ctx, userID, budget.CategoryID, budget.StartDate, budget.EndDate, &id); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateBudget(ctx, budget)
	if err != nil {
		return nil, err
	}
	return s.Progress(ctx, updated)
}

func (s *BudgetService) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteBudget(ctx, userID, id)
}

// Progress computes spent/remaining/percentage for one budget from the
// ledger. Spent sums EXPENSE transactions for the budget's category inside
// its closed interval.
func (s *BudgetService) Progress(ctx context.Context, budget *models.Budget) (*models.BudgetProgress, error) {
	expenseType := models.TypeExpense
	spent, err := s.ledger.SumAmount(ctx, models.TransactionFilter{
		UserID:     budget.UserID,
		Type:       &expenseType,
		CategoryID: &budget.CategoryID,
		StartDate:  &budget.StartDate,
		EndDate:    &budget.EndDate,
	})
	if err != nil {
		return nil, err
	}

	// Amount is validated positive on every write path, so the zero guard
	// is unreachable in practice; it pins the percentage to 0 instead of
	// dividing by zero if that ever changes.
	percentage := 0.0
	if !budget.Amount.IsZero() {
		percentage, _ = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Float64()
	}

	return &models.BudgetProgress{
		Budget:     *budget,
		Spent:      spent,
		Remaining:  budget.Amount.Sub(spent),
		Percentage: percentage,
	}, nil
}

func (s *BudgetService) getOwned(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.store.GetBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		// Covers both absence and ownership by another user; the two are
		// indistinguishable to the caller so existence never leaks.
		return nil, NotFoundError("budget not found")
	}
	return budget, nil
}

func (s *BudgetService) checkRangeAndOverlap(ctx context.Context, userID int64, categoryID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	if start.IsZero() || end.IsZero() {
		return InvalidError("start date and end date are required")
	}
	if !end.After(start) {
		return InvalidRangeError("end date must be after start date")
	}
	overlapping, err := s.store.FindOverlappingBudget(ctx, userID, categoryID, start, end, excludeID)
	if err != nil {
		return err
	}
	if overlapping != nil {
		return ConflictError("a budget already exists for this category in the specified period")
	}
	return nil
}
