package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/config"
	sqlstore "fintrack-server/src/db/sql"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"
	"fintrack-server/src/services"
)

func NewRouter(pool *pgxpool.Pool, cfg config.Config) *chi.Mux {
	categoryStore := sqlstore.NewCategoryStore(pool)
	transactionStore := sqlstore.NewTransactionStore(pool)
	budgetStore := sqlstore.NewBudgetStore(pool)

	categories := services.NewCategoryService(categoryStore)
	transactions := services.NewTransactionService(transactionStore, categories)
	budgets := services.NewBudgetService(budgetStore, transactionStore, categories)
	dashboard := services.NewDashboardService(transactionStore)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))

		// Protected routes. The demo guard runs after auth so the
		// super-admin bypass can read its claim.
		r.With(middleware.JWTAuthMiddleware, middleware.DemoModeMiddleware(cfg.DemoMode)).Group(func(r chi.Router) {
			// User
			r.Get("/user", handlers.GetUser(pool))
			r.Put("/user", handlers.UpdateUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))

			// Categories (shared reference data, read-only for regular users)
			r.Get("/categories", handlers.ListCategories(categories))
			r.Get("/categories/{category_id}", handlers.GetCategory(categories))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(transactions))
			r.Get("/transactions", handlers.ListTransactions(transactions))
			r.Get("/transactions/statistics", handlers.GetStatistics(transactions))
			r.Get("/transactions/{transaction_id}", handlers.GetTransaction(transactions))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(transactions))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(transactions))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(budgets))
			r.Get("/budgets", handlers.ListBudgets(budgets))
			r.Get("/budgets/{budget_id}", handlers.GetBudget(budgets))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(budgets))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(budgets))

			// Dashboard
			r.Get("/dashboard", handlers.GetDashboard(dashboard))
		})

		// Admin routes
		r.With(middleware.JWTAuthMiddleware, middleware.SuperAdminMiddleware).Group(func(r chi.Router) {
			r.Post("/admin/categories", handlers.CreateCategory(categories))
			r.Put("/admin/categories/{category_id}", handlers.UpdateCategory(categories))
			r.Delete("/admin/categories/{category_id}", handlers.DeleteCategory(categories))
		})
	})

	return r
}
