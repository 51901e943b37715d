package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cache "fintrack-server/src/db"
	"fintrack-server/src/models"
)

type CategoryStore struct {
	pool *pgxpool.Pool
}

func NewCategoryStore(pool *pgxpool.Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

const categoryColumns = `id, name, type, icon, color, is_default, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	// Entries are cached by value and every hit returns a private copy, so
	// a caller mutating the result never alters what other readers see.
	cacheKey := "category:" + id.String()
	if cached, found := cache.GetCategoryCache(cacheKey); found {
		if c, ok := cached.(models.Category); ok {
			return &c, nil
		}
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if category != nil {
		cache.SetCategoryCache(cacheKey, *category)
	}
	return category, nil
}

func (s *CategoryStore) GetCategoryByNameAndType(ctx context.Context, name string, t models.TransactionType, excludeID *uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1 AND type = $2`
	args := []interface{}{name, t}
	if excludeID != nil {
		query += ` AND id <> $3`
		args = append(args, *excludeID)
	}
	return scanCategory(s.pool.QueryRow(ctx, query, args...))
}

func (s *CategoryStore) ListCategories(ctx context.Context, t *models.TransactionType) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	args := []interface{}{}
	if t != nil {
		query += ` WHERE type = $1`
		args = append(args, *t)
	}
	query += ` ORDER BY is_default DESC, name ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, type, icon, color, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns
	created, err := scanCategory(s.pool.QueryRow(ctx, query, c.Name, c.Type, c.Icon, c.Color, c.IsDefault))
	if err != nil {
		return nil, mapConstraintError(err)
	}
	cache.ClearAllCategoryCaches()
	return created, nil
}

func (s *CategoryStore) UpdateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, type = $2, icon = $3, color = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + categoryColumns
	updated, err := scanCategory(s.pool.QueryRow(ctx, query, c.Name, c.Type, c.Icon, c.Color, c.ID))
	if err != nil {
		return nil, mapConstraintError(err)
	}
	cache.ClearAllCategoryCaches()
	return updated, nil
}

func (s *CategoryStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	cache.ClearAllCategoryCaches()
	return nil
}

func (s *CategoryStore) CountCategoryRefs(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM transactions WHERE category_id = $1)
		     + (SELECT COUNT(*) FROM budgets WHERE category_id = $1)
	`
	var count int64
	if err := s.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
