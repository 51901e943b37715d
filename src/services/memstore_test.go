package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

// memStore is an in-memory implementation of the three store interfaces,
// shared by the service tests.
type memStore struct {
	categories   map[uuid.UUID]*models.Category
	transactions map[uuid.UUID]*models.Transaction
	budgets      map[uuid.UUID]*models.Budget
	seq          int
}

func newMemStore() *memStore {
	return &memStore{
		categories:   make(map[uuid.UUID]*models.Category),
		transactions: make(map[uuid.UUID]*models.Transaction),
		budgets:      make(map[uuid.UUID]*models.Budget),
	}
}

func (m *memStore) addCategory(name string, t models.TransactionType) *models.Category {
	c := &models.Category{
		ID:        uuid.New(),
		Name:      name,
		Type:      t,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.categories[c.ID] = c
	return c
}

// CategoryStore

func (m *memStore) GetCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *memStore) GetCategoryByNameAndType(_ context.Context, name string, t models.TransactionType, excludeID *uuid.UUID) (*models.Category, error) {
	for _, c := range m.categories {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if c.Name == name && c.Type == t {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListCategories(_ context.Context, t *models.TransactionType) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.categories {
		if t == nil || c.Type == *t {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CreateCategory(_ context.Context, c *models.Category) (*models.Category, error) {
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.categories[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *memStore) UpdateCategory(_ context.Context, c *models.Category) (*models.Category, error) {
	updated := *c
	updated.UpdatedAt = time.Now()
	m.categories[updated.ID] = &updated
	copied := updated
	return &copied, nil
}

func (m *memStore) DeleteCategory(_ context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

func (m *memStore) CountCategoryRefs(_ context.Context, id uuid.UUID) (int64, error) {
	var count int64
	for _, t := range m.transactions {
		if t.CategoryID == id {
			count++
		}
	}
	for _, b := range m.budgets {
		if b.CategoryID == id {
			count++
		}
	}
	return count, nil
}

// TransactionStore

func matchTransaction(f models.TransactionFilter, t *models.Transaction) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (m *memStore) GetTransactionByID(_ context.Context, userID int64, id uuid.UUID) (*models.Transaction, error) {
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	copied := *t
	copied.Category = m.categories[t.CategoryID]
	return &copied, nil
}

func (m *memStore) ListTransactions(_ context.Context, f models.TransactionFilter, s models.Sort, page models.Page) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range m.transactions {
		if matchTransaction(f, t) {
			copied := *t
			copied.Category = m.categories[t.CategoryID]
			out = append(out, copied)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch s.Field {
		case "amount":
			less = out[i].Amount.LessThan(out[j].Amount)
		case "createdAt":
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		default: // date
			less = out[i].Date.Before(out[j].Date)
		}
		if s.Direction == models.SortDesc {
			return !less
		}
		return less
	})

	if page.Limit > 0 {
		offset := page.Offset()
		if offset >= len(out) {
			return nil, nil
		}
		end := offset + page.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, nil
}

func (m *memStore) CountTransactions(_ context.Context, f models.TransactionFilter) (int64, error) {
	var count int64
	for _, t := range m.transactions {
		if matchTransaction(f, t) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) SumAmount(_ context.Context, f models.TransactionFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range m.transactions {
		if matchTransaction(f, t) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (m *memStore) CreateTransaction(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	created := *t
	created.ID = uuid.New()
	m.seq++
	created.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	m.transactions[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	existing, ok := m.transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return nil, NotFoundError("transaction not found")
	}
	updated := *t
	m.transactions[updated.ID] = &updated
	copied := updated
	copied.Category = m.categories[updated.CategoryID]
	return &copied, nil
}

func (m *memStore) DeleteTransaction(_ context.Context, userID int64, id uuid.UUID) error {
	delete(m.transactions, id)
	return nil
}

// BudgetStore

func matchBudget(f models.BudgetFilter, b *models.Budget) bool {
	if b.UserID != f.UserID {
		return false
	}
	if f.CategoryID != nil && b.CategoryID != *f.CategoryID {
		return false
	}
	if f.Period != nil && b.Period != *f.Period {
		return false
	}
	if f.ActiveOn != nil && (b.StartDate.After(*f.ActiveOn) || b.EndDate.Before(*f.ActiveOn)) {
		return false
	}
	return true
}

func (m *memStore) GetBudgetByID(_ context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	copied := *b
	copied.Category = m.categories[b.CategoryID]
	return &copied, nil
}

func (m *memStore) ListBudgets(_ context.Context, f models.BudgetFilter, s models.Sort, page models.Page) ([]models.Budget, error) {
	var out []models.Budget
	for _, b := range m.budgets {
		if matchBudget(f, b) {
			copied := *b
			copied.Category = m.categories[b.CategoryID]
			out = append(out, copied)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		less := out[i].CreatedAt.Before(out[j].CreatedAt)
		if s.Field == "startDate" {
			less = out[i].StartDate.Before(out[j].StartDate)
		}
		if s.Direction == models.SortDesc {
			return !less
		}
		return less
	})

	if page.Limit > 0 {
		offset := page.Offset()
		if offset >= len(out) {
			return nil, nil
		}
		end := offset + page.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, nil
}

func (m *memStore) CountBudgets(_ context.Context, f models.BudgetFilter) (int64, error) {
	var count int64
	for _, b := range m.budgets {
		if matchBudget(f, b) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) FindOverlappingBudget(_ context.Context, userID int64, categoryID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*models.Budget, error) {
	for _, b := range m.budgets {
		if b.UserID != userID || b.CategoryID != categoryID {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		// closed intervals: s1 <= e2 && s2 <= e1
		if !b.StartDate.After(end) && !start.After(b.EndDate) {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateBudget(_ context.Context, b *models.Budget) (*models.Budget, error) {
	created := *b
	created.ID = uuid.New()
	m.seq++
	created.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	created.UpdatedAt = created.CreatedAt
	m.budgets[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *memStore) UpdateBudget(_ context.Context, b *models.Budget) (*models.Budget, error) {
	existing, ok := m.budgets[b.ID]
	if !ok || existing.UserID != b.UserID {
		return nil, NotFoundError("budget not found")
	}
	updated := *b
	updated.UpdatedAt = time.Now()
	m.budgets[updated.ID] = &updated
	copied := updated
	copied.Category = m.categories[updated.CategoryID]
	return &copied, nil
}

func (m *memStore) DeleteBudget(_ context.Context, userID int64, id uuid.UUID) error {
	delete(m.budgets, id)
	return nil
}

// date builds a UTC calendar date, the granularity every ledger test works
// at.
func date(y int, mth time.Month, d int) time.Time {
	return time.Date(y, mth, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
