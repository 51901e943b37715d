package services

import (
	"context"
	"time"

	"fintrack-server/src/models"
)

// trendMonths is the fixed width of the dashboard's monthly series.
const trendMonths = 6

// DashboardService derives the per-user dashboard snapshot from the full
// transaction history.
type DashboardService struct {
	ledger TransactionStore
	now    func() time.Time
}

func NewDashboardService(ledger TransactionStore) *DashboardService {
	return &DashboardService{ledger: ledger, now: time.Now}
}

// Snapshot loads the user's entire ledger sorted by date descending and
// computes unbounded totals, the five most recent entries, and the six-month
// trend. Cost scales with total history length; there is no cap.
func (s *DashboardService) Snapshot(ctx context.Context, userID int64) (*models.DashboardSnapshot, error) {
	transactions, err := s.ledger.ListTransactions(ctx,
		models.TransactionFilter{UserID: userID},
		models.Sort{Field: "date", Direction: models.SortDesc},
		models.Page{})
	if err != nil {
		return nil, err
	}

	snapshot := &models.DashboardSnapshot{
		MonthlyTrend: make([]models.TrendPoint, trendMonths),
	}

	// Bucket i covers the calendar month (current − 5 + i); buckets stay in
	// chronological order, oldest first.
	buckets := make(map[string]*models.TrendPoint, trendMonths)
	start := firstOfMonth(s.now()).AddDate(0, -(trendMonths - 1), 0)
	for i := range snapshot.MonthlyTrend {
		month := start.AddDate(0, i, 0)
		snapshot.MonthlyTrend[i].Month = month.Format("Jan")
		buckets[monthKey(month)] = &snapshot.MonthlyTrend[i]
	}

	for _, t := range transactions {
		switch t.Type {
		case models.TypeIncome:
			snapshot.TotalIncome = snapshot.TotalIncome.Add(t.Amount)
		case models.TypeExpense:
			snapshot.TotalExpenses = snapshot.TotalExpenses.Add(t.Amount)
		}

		// Transactions outside the six-month span still count toward the
		// unbounded totals above; only the trend ignores them.
		if bucket, ok := buckets[monthKey(t.Date)]; ok {
			if t.Type == models.TypeIncome {
				bucket.Income = bucket.Income.Add(t.Amount)
			} else {
				bucket.Expenses = bucket.Expenses.Add(t.Amount)
			}
		}
	}

	snapshot.NetIncome = snapshot.TotalIncome.Sub(snapshot.TotalExpenses)
	snapshot.AccountsBalance = snapshot.NetIncome

	recent := transactions
	if len(recent) > 5 {
		recent = recent[:5]
	}
	snapshot.RecentTransactions = recent

	return snapshot, nil
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// firstOfMonth anchors in UTC because transaction dates are UTC midnights;
// the process-local zone must not shift the window at month boundaries.
func firstOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
