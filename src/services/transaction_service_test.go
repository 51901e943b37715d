package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func newTransactionService(store *memStore) *TransactionService {
	return NewTransactionService(store, NewCategoryService(store))
}

func TestTransactionService_Create(t *testing.T) {
	store := newMemStore()
	svc := newTransactionService(store)
	ctx := context.Background()

	salary := store.addCategory("Salary", models.TypeIncome)
	groceries := store.addCategory("Groceries", models.TypeExpense)

	created, err := svc.Create(ctx, 1, CreateTransactionInput{
		Amount:      dec("3000.00"),
		Type:        models.TypeIncome,
		CategoryID:  salary.ID,
		Description: "March salary",
		Date:        date(2026, time.March, 1),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, int64(1), created.UserID)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Salary", created.Category.Name)

	tests := []struct {
		name  string
		input CreateTransactionInput
		kind  ErrorKind
	}{
		{
			name: "category type mismatch",
			input: CreateTransactionInput{
				Amount: dec("50.00"), Type: models.TypeExpense,
				CategoryID: salary.ID, Date: date(2026, time.March, 2),
			},
			kind: KindTypeMismatch,
		},
		{
			name: "unknown category",
			input: CreateTransactionInput{
				Amount: dec("50.00"), Type: models.TypeExpense,
				CategoryID: uuid.New(), Date: date(2026, time.March, 2),
			},
			kind: KindNotFound,
		},
		{
			name: "invalid type",
			input: CreateTransactionInput{
				Amount: dec("50.00"), Type: "TRANSFER",
				CategoryID: groceries.ID, Date: date(2026, time.March, 2),
			},
			kind: KindInvalid,
		},
		{
			name: "non-positive amount",
			input: CreateTransactionInput{
				Amount: dec("0"), Type: models.TypeExpense,
				CategoryID: groceries.ID, Date: date(2026, time.March, 2),
			},
			kind: KindInvalid,
		},
		{
			name: "sub-cent precision",
			input: CreateTransactionInput{
				Amount: dec("10.005"), Type: models.TypeExpense,
				CategoryID: groceries.ID, Date: date(2026, time.March, 2),
			},
			kind: KindInvalid,
		},
		{
			name: "missing date",
			input: CreateTransactionInput{
				Amount: dec("50.00"), Type: models.TypeExpense,
				CategoryID: groceries.ID,
			},
			kind: KindInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(store.transactions)
			_, err := svc.Create(ctx, 1, tt.input)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
			assert.Equal(t, before, len(store.transactions), "rejected create must persist nothing")
		})
	}
}

func TestTransactionService_Get_OwnershipDoesNotLeak(t *testing.T) {
	store := newMemStore()
	svc := newTransactionService(store)
	ctx := context.Background()

	groceries := store.addCategory("Groceries", models.TypeExpense)
	created, err := svc.Create(ctx, 1, CreateTransactionInput{
		Amount: dec("25.00"), Type: models.TypeExpense,
		CategoryID: groceries.ID, Date: date(2026, time.March, 1),
	})
	require.NoError(t, err)

	// Another user probing the same id gets the same answer as a missing id.
	_, err = svc.Get(ctx, 2, created.ID)
	assert.True(t, IsKind(err, KindNotFound))

	got, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestTransactionService_Update_TypeCategoryConsistency(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memStore, *TransactionService, *models.Category, *models.Category, *models.Transaction) {
		store := newMemStore()
		svc := newTransactionService(store)
		salary := store.addCategory("Salary", models.TypeIncome)
		groceries := store.addCategory("Groceries", models.TypeExpense)
		created, err := svc.Create(ctx, 1, CreateTransactionInput{
			Amount: dec("40.00"), Type: models.TypeExpense,
			CategoryID: groceries.ID, Date: date(2026, time.March, 1),
		})
		require.NoError(t, err)
		return store, svc, salary, groceries, created
	}

	t.Run("type change alone is checked against the stored category", func(t *testing.T) {
		_, svc, _, _, created := setup(t)
		income := models.TypeIncome
		_, err := svc.Update(ctx, 1, created.ID, UpdateTransactionInput{Type: &income})
		assert.True(t, IsKind(err, KindTypeMismatch))
	})

	t.Run("category change alone is checked against the stored type", func(t *testing.T) {
		_, svc, salary, _, created := setup(t)
		_, err := svc.Update(ctx, 1, created.ID, UpdateTransactionInput{CategoryID: &salary.ID})
		assert.True(t, IsKind(err, KindTypeMismatch))
	})

	t.Run("changing both to a consistent pair succeeds", func(t *testing.T) {
		_, svc, salary, _, created := setup(t)
		income := models.TypeIncome
		updated, err := svc.Update(ctx, 1, created.ID, UpdateTransactionInput{
			Type: &income, CategoryID: &salary.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.TypeIncome, updated.Type)
		assert.Equal(t, salary.ID, updated.CategoryID)
	})

	t.Run("amount and description update without re-validation", func(t *testing.T) {
		_, svc, _, groceries, created := setup(t)
		amount := dec("55.50")
		desc := "weekly shop"
		updated, err := svc.Update(ctx, 1, created.ID, UpdateTransactionInput{
			Amount: &amount, Description: &desc,
		})
		require.NoError(t, err)
		assert.True(t, updated.Amount.Equal(dec("55.50")))
		assert.Equal(t, "weekly shop", updated.Description)
		assert.Equal(t, groceries.ID, updated.CategoryID)
	})

	t.Run("rejected update leaves the stored row untouched", func(t *testing.T) {
		store, svc, salary, groceries, created := setup(t)
		_, err := svc.Update(ctx, 1, created.ID, UpdateTransactionInput{CategoryID: &salary.ID})
		require.Error(t, err)
		stored := store.transactions[created.ID]
		assert.Equal(t, groceries.ID, stored.CategoryID)
		assert.Equal(t, models.TypeExpense, stored.Type)
	})
}

func TestTransactionService_List(t *testing.T) {
	store := newMemStore()
	svc := newTransactionService(store)
	ctx := context.Background()

	groceries := store.addCategory("Groceries", models.TypeExpense)
	for day := 1; day <= 25; day++ {
		_, err := svc.Create(ctx, 1, CreateTransactionInput{
			Amount: dec("10.00"), Type: models.TypeExpense,
			CategoryID: groceries.ID, Date: date(2026, time.March, day),
		})
		require.NoError(t, err)
	}

	t.Run("defaults paginate at 20 per page", func(t *testing.T) {
		transactions, pagination, err := svc.List(ctx, 1, ListTransactionsInput{})
		require.NoError(t, err)
		assert.Len(t, transactions, 20)
		assert.Equal(t, int64(25), pagination.Total)
		assert.Equal(t, 2, pagination.TotalPages)
		assert.True(t, pagination.HasNext)
		assert.False(t, pagination.HasPrev)
	})

	t.Run("second page holds the remainder", func(t *testing.T) {
		transactions, pagination, err := svc.List(ctx, 1, ListTransactionsInput{
			Page: models.Page{Page: 2, Limit: 20},
		})
		require.NoError(t, err)
		assert.Len(t, transactions, 5)
		assert.False(t, pagination.HasNext)
		assert.True(t, pagination.HasPrev)
	})

	t.Run("date sort ascending", func(t *testing.T) {
		transactions, _, err := svc.List(ctx, 1, ListTransactionsInput{
			Sort: "date", Page: models.Page{Page: 1, Limit: 5},
		})
		require.NoError(t, err)
		require.Len(t, transactions, 5)
		assert.Equal(t, date(2026, time.March, 1), transactions[0].Date)
		assert.Equal(t, date(2026, time.March, 5), transactions[4].Date)
	})

	t.Run("unknown sort field is rejected", func(t *testing.T) {
		_, _, err := svc.List(ctx, 1, ListTransactionsInput{Sort: "user_id"})
		assert.True(t, IsKind(err, KindInvalid))
	})

	t.Run("other users see nothing", func(t *testing.T) {
		transactions, pagination, err := svc.List(ctx, 2, ListTransactionsInput{})
		require.NoError(t, err)
		assert.Empty(t, transactions)
		assert.Equal(t, int64(0), pagination.Total)
	})
}

func TestTransactionService_Statistics(t *testing.T) {
	store := newMemStore()
	svc := newTransactionService(store)
	ctx := context.Background()

	salary := store.addCategory("Salary", models.TypeIncome)
	groceries := store.addCategory("Groceries", models.TypeExpense)
	rent := store.addCategory("Rent", models.TypeExpense)

	add := func(amount string, typ models.TransactionType, cat uuid.UUID, d time.Time) {
		_, err := svc.Create(ctx, 1, CreateTransactionInput{
			Amount: dec(amount), Type: typ, CategoryID: cat, Date: d,
		})
		require.NoError(t, err)
	}

	// March
	add("3000.00", models.TypeIncome, salary.ID, date(2026, time.March, 1))
	add("500.00", models.TypeIncome, salary.ID, date(2026, time.March, 15))
	add("120.50", models.TypeExpense, groceries.ID, date(2026, time.March, 5))
	add("80.25", models.TypeExpense, groceries.ID, date(2026, time.March, 12))
	add("45.00", models.TypeExpense, groceries.ID, date(2026, time.March, 20))
	add("900.00", models.TypeExpense, rent.ID, date(2026, time.March, 1))
	// April
	add("3000.00", models.TypeIncome, salary.ID, date(2026, time.April, 1))
	add("200.00", models.TypeExpense, groceries.ID, date(2026, time.April, 3))

	t.Run("unbounded window covers everything", func(t *testing.T) {
		stats, err := svc.Statistics(ctx, 1, nil, nil)
		require.NoError(t, err)
		assert.True(t, stats.TotalIncome.Equal(dec("6500.00")), "income %s", stats.TotalIncome)
		assert.True(t, stats.TotalExpense.Equal(dec("1345.75")), "expense %s", stats.TotalExpense)
		assert.True(t, stats.Balance.Equal(dec("5154.25")))
		assert.Equal(t, int64(8), stats.TransactionCount)
	})

	t.Run("bounded window with per-category breakdown", func(t *testing.T) {
		start := date(2026, time.March, 1)
		end := date(2026, time.March, 31)
		stats, err := svc.Statistics(ctx, 1, &start, &end)
		require.NoError(t, err)

		assert.True(t, stats.TotalIncome.Equal(dec("3500.00")))
		assert.True(t, stats.TotalExpense.Equal(dec("1145.75")))
		assert.True(t, stats.Balance.Equal(dec("2354.25")))
		assert.Equal(t, int64(6), stats.TransactionCount)

		require.Len(t, stats.CategoryBreakdown, 3)
		assert.True(t, stats.CategoryBreakdown[salary.ID.String()].Income.Equal(dec("3500.00")))
		assert.True(t, stats.CategoryBreakdown[groceries.ID.String()].Expense.Equal(dec("245.75")))
		assert.True(t, stats.CategoryBreakdown[rent.ID.String()].Expense.Equal(dec("900.00")))

		// The breakdown partitions the totals exactly.
		income, expense := dec("0"), dec("0")
		for _, totals := range stats.CategoryBreakdown {
			income = income.Add(totals.Income)
			expense = expense.Add(totals.Expense)
		}
		assert.True(t, income.Equal(stats.TotalIncome))
		assert.True(t, expense.Equal(stats.TotalExpense))
	})

	t.Run("empty window yields exact zeros", func(t *testing.T) {
		start := date(2025, time.January, 1)
		end := date(2025, time.December, 31)
		stats, err := svc.Statistics(ctx, 1, &start, &end)
		require.NoError(t, err)
		assert.True(t, stats.TotalIncome.IsZero())
		assert.True(t, stats.TotalExpense.IsZero())
		assert.Equal(t, int64(0), stats.TransactionCount)
		assert.Empty(t, stats.CategoryBreakdown)
	})
}

func TestTransactionService_Delete(t *testing.T) {
	store := newMemStore()
	svc := newTransactionService(store)
	ctx := context.Background()

	groceries := store.addCategory("Groceries", models.TypeExpense)
	created, err := svc.Create(ctx, 1, CreateTransactionInput{
		Amount: dec("10.00"), Type: models.TypeExpense,
		CategoryID: groceries.ID, Date: date(2026, time.March, 1),
	})
	require.NoError(t, err)

	assert.True(t, IsKind(svc.Delete(ctx, 2, created.ID), KindNotFound))
	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	_, err = svc.Get(ctx, 1, created.ID)
	assert.True(t, IsKind(err, KindNotFound))
}
