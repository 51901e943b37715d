package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
	"fintrack-server/src/services"
)

type BudgetStore struct {
	pool *pgxpool.Pool
}

func NewBudgetStore(pool *pgxpool.Pool) *BudgetStore {
	return &BudgetStore{pool: pool}
}

var budgetSortColumns = map[string]string{
	"startDate": "b.start_date",
	"endDate":   "b.end_date",
	"amount":    "b.amount",
	"createdAt": "b.created_at",
}

const budgetSelect = `
	SELECT b.id, b.user_id, b.category_id, b.amount::text, b.period, b.start_date, b.end_date, b.created_at, b.updated_at,
	       c.id, c.name, c.type, c.icon, c.color, c.is_default, c.created_at, c.updated_at
	FROM budgets b
	JOIN categories c ON c.id = b.category_id
`

func budgetWhere(f models.BudgetFilter) (string, []interface{}) {
	conditions := []string{"b.user_id = $1"}
	args := []interface{}{f.UserID}

	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.CategoryID != nil {
		add("b.category_id = $%d", *f.CategoryID)
	}
	if f.Period != nil {
		add("b.period = $%d", *f.Period)
	}
	if f.ActiveOn != nil {
		add("b.start_date <= $%d", *f.ActiveOn)
		add("b.end_date >= $%d", *f.ActiveOn)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var (
		b         models.Budget
		c         models.Category
		amountStr string
	)
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &amountStr, &b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
		&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return nil, err
	}
	b.Amount = amount
	b.Category = &c
	return &b, nil
}

func (s *BudgetStore) GetBudgetByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	query := budgetSelect + ` WHERE b.id = $1 AND b.user_id = $2`
	return scanBudget(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *BudgetStore) ListBudgets(ctx context.Context, f models.BudgetFilter, sort models.Sort, page models.Page) ([]models.Budget, error) {
	where, args := budgetWhere(f)
	orderBy, err := orderByClause(sort, budgetSortColumns)
	if err != nil {
		return nil, err
	}
	query := budgetSelect + where + " " + orderBy + " " + limitOffsetClause(page)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *BudgetStore) CountBudgets(ctx context.Context, f models.BudgetFilter) (int64, error) {
	where, args := budgetWhere(f)
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM budgets b `+where, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindOverlappingBudget applies the closed-interval intersection test: two
// intervals overlap iff each one starts no later than the other ends.
func (s *BudgetStore) FindOverlappingBudget(ctx context.Context, userID int64, categoryID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*models.Budget, error) {
	query := budgetSelect + `
		WHERE b.user_id = $1 AND b.category_id = $2
		  AND b.start_date <= $3 AND $4 <= b.end_date
	`
	args := []interface{}{userID, categoryID, end, start}
	if excludeID != nil {
		query += ` AND b.id <> $5`
		args = append(args, *excludeID)
	}
	query += ` LIMIT 1`
	return scanBudget(s.pool.QueryRow(ctx, query, args...))
}

func (s *BudgetStore) CreateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	created := *b
	err := s.pool.QueryRow(ctx, query,
		b.UserID, b.CategoryID, b.Amount.StringFixed(2), b.Period, b.StartDate, b.EndDate,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return &created, nil
}

func (s *BudgetStore) UpdateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET category_id = $1, amount = $2, period = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`
	cmd, err := s.pool.Exec(ctx, query,
		b.CategoryID, b.Amount.StringFixed(2), b.Period, b.StartDate, b.EndDate, b.ID, b.UserID,
	)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, services.NotFoundError("budget not found")
	}
	return s.GetBudgetByID(ctx, b.UserID, b.ID)
}

func (s *BudgetStore) DeleteBudget(ctx context.Context, userID int64, id uuid.UUID) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return services.NotFoundError("budget not found")
	}
	return nil
}
