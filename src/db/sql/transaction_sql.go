package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
	"fintrack-server/src/services"
)

type TransactionStore struct {
	pool *pgxpool.Pool
}

func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

var transactionSortColumns = map[string]string{
	"date":        "t.date",
	"amount":      "t.amount",
	"description": "t.description",
	"createdAt":   "t.created_at",
}

const transactionSelect = `
	SELECT t.id, t.user_id, t.amount::text, t.type, t.category_id, t.description, t.date, t.created_at,
	       c.id, c.name, c.type, c.icon, c.color, c.is_default, c.created_at, c.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
`

// transactionWhere translates the typed filter into a WHERE clause. Only set
// fields contribute conditions; nothing client-supplied is interpolated.
func transactionWhere(f models.TransactionFilter) (string, []interface{}) {
	conditions := []string{"t.user_id = $1"}
	args := []interface{}{f.UserID}

	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.Type != nil {
		add("t.type = $%d", *f.Type)
	}
	if f.CategoryID != nil {
		add("t.category_id = $%d", *f.CategoryID)
	}
	if f.StartDate != nil {
		add("t.date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("t.date <= $%d", *f.EndDate)
	}
	if f.MinAmount != nil {
		add("t.amount >= $%d", f.MinAmount.StringFixed(2))
	}
	if f.MaxAmount != nil {
		add("t.amount <= $%d", f.MaxAmount.StringFixed(2))
	}
	if f.Search != "" {
		add("t.description ILIKE $%d", "%"+f.Search+"%")
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		t         models.Transaction
		c         models.Category
		amountStr string
	)
	err := row.Scan(
		&t.ID, &t.UserID, &amountStr, &t.Type, &t.CategoryID, &t.Description, &t.Date, &t.CreatedAt,
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
	t.Amount = amount
	t.Category = &c
	return &t, nil
}

func (s *TransactionStore) GetTransactionByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Transaction, error) {
	query := transactionSelect + ` WHERE t.id = $1 AND t.user_id = $2`
	return scanTransaction(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *TransactionStore) ListTransactions(ctx context.Context, f models.TransactionFilter, sort models.Sort, page models.Page) ([]models.Transaction, error) {
	where, args := transactionWhere(f)
	orderBy, err := orderByClause(sort, transactionSortColumns)
	if err != nil {
		return nil, err
	}
	query := transactionSelect + where + " " + orderBy + " " + limitOffsetClause(page)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (s *TransactionStore) CountTransactions(ctx context.Context, f models.TransactionFilter) (int64, error) {
	where, args := transactionWhere(f)
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t `+where, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SumAmount backs both the budget spend aggregator and the statistics
// totals. COALESCE keeps empty windows at exact zero instead of NULL.
func (s *TransactionStore) SumAmount(ctx context.Context, f models.TransactionFilter) (decimal.Decimal, error) {
	where, args := transactionWhere(f)
	var sumStr string
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(SUM(t.amount), 0)::text FROM transactions t `+where, args...).Scan(&sumStr)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return parseAmount(sumStr)
}

func (s *TransactionStore) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, amount, type, category_id, description, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	created := *t
	err := s.pool.QueryRow(ctx, query,
		t.UserID, t.Amount.StringFixed(2), t.Type, t.CategoryID, t.Description, t.Date,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return &created, nil
}

func (s *TransactionStore) UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, category_id = $3, description = $4, date = $5
		WHERE id = $6 AND user_id = $7
	`
	cmd, err := s.pool.Exec(ctx, query,
		t.Amount.StringFixed(2), t.Type, t.CategoryID, t.Description, t.Date, t.ID, t.UserID,
	)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, services.NotFoundError("transaction not found")
	}
	return s.GetTransactionByID(ctx, t.UserID, t.ID)
}

func (s *TransactionStore) DeleteTransaction(ctx context.Context, userID int64, id uuid.UUID) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return services.NotFoundError("transaction not found")
	}
	return nil
}
