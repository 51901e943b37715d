package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedCategory struct {
	Name  string
	Icon  string
	Color string
}

var defaultIncomeCategories = []seedCategory{
	{"Salary", "💰", "#10b981"},
	{"Freelance", "💼", "#3b82f6"},
	{"Investments", "📈", "#8b5cf6"},
	{"Gifts", "🎁", "#ec4899"},
	{"Other Income", "💵", "#6366f1"},
}

var defaultExpenseCategories = []seedCategory{
	{"Food & Dining", "🍽️", "#ef4444"},
	{"Transportation", "🚗", "#f59e0b"},
	{"Shopping", "🛍️", "#ec4899"},
	{"Entertainment", "🎬", "#8b5cf6"},
	{"Bills & Utilities", "💡", "#3b82f6"},
	{"Healthcare", "🏥", "#10b981"},
	{"Education", "📚", "#6366f1"},
	{"Travel", "✈️", "#06b6d4"},
	{"Groceries", "🛒", "#84cc16"},
	{"Rent", "🏠", "#f97316"},
	{"Other Expense", "📝", "#64748b"},
}

// SeedDefaultCategories upserts the built-in category set. Safe to run on
// every startup.
func SeedDefaultCategories(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		INSERT INTO categories (name, type, icon, color, is_default)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (name, type) DO UPDATE
		SET icon = EXCLUDED.icon, color = EXCLUDED.color, is_default = TRUE, updated_at = NOW()
	`
	for _, c := range defaultIncomeCategories {
		if _, err := pool.Exec(ctx, query, c.Name, "INCOME", c.Icon, c.Color); err != nil {
			return err
		}
	}
	for _, c := range defaultExpenseCategories {
		if _, err := pool.Exec(ctx, query, c.Name, "EXPENSE", c.Icon, c.Color); err != nil {
			return err
		}
	}
	log.Printf("INFO: Seeded %d default categories", len(defaultIncomeCategories)+len(defaultExpenseCategories))
	return nil
}
