package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
	"fintrack-server/src/services"
)

type createBudgetRequest struct {
	CategoryID uuid.UUID           `json:"category_id"`
	Amount     decimal.Decimal     `json:"amount"`
	Period     models.BudgetPeriod `json:"period"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
}

type updateBudgetRequest struct {
	CategoryID *uuid.UUID           `json:"category_id"`
	Amount     *decimal.Decimal     `json:"amount"`
	Period     *models.BudgetPeriod `json:"period"`
	StartDate  *string              `json:"start_date"`
	EndDate    *string              `json:"end_date"`
}

func CreateBudget(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req createBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		startDate, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		endDate, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		budget, err := svc.Create(r.Context(), userID, services.CreateBudgetInput{
			CategoryID: req.CategoryID,
			Amount:     req.Amount,
			Period:     req.Period,
			StartDate:  startDate,
			EndDate:    endDate,
		})
		if err != nil {
			handleError(w, err, "Failed to create budget")
			return
		}
		log.Printf("INFO: Created budget %s for user %d, category %s", budget.ID, userID, budget.CategoryID)
		writeJSON(w, http.StatusCreated, budget, "Budget created successfully")
	}
}

func ListBudgets(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		q := r.URL.Query()

		page, err := parsePage(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var filter models.BudgetFilter
		if filter.CategoryID, err = parseUUIDParam(q, "category_id"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if raw := q.Get("period"); raw != "" {
			period := models.BudgetPeriod(raw)
			if !period.Valid() {
				http.Error(w, "invalid period", http.StatusBadRequest)
				return
			}
			filter.Period = &period
		}
		if raw := q.Get("active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "invalid active flag", http.StatusBadRequest)
				return
			}
			if active {
				now := time.Now().UTC()
				filter.ActiveOn = &now
			}
		}

		budgets, pagination, err := svc.List(r.Context(), userID, services.ListBudgetsInput{
			Filter: filter,
			Sort:   q.Get("sort"),
			Page:   page,
		})
		if err != nil {
			handleError(w, err, "Failed to list budgets")
			return
		}
		writePage(w, budgets, pagination, "Budgets retrieved successfully")
	}
}

func GetBudget(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := uuid.Parse(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		budget, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			handleError(w, err, "Failed to get budget")
			return
		}
		writeJSON(w, http.StatusOK, budget, "Budget retrieved successfully")
	}
}

func UpdateBudget(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := uuid.Parse(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		var req updateBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		input := services.UpdateBudgetInput{
			CategoryID: req.CategoryID,
			Amount:     req.Amount,
			Period:     req.Period,
		}
		if req.StartDate != nil {
			startDate, err := time.Parse(dateLayout, *req.StartDate)
			if err != nil {
				http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			input.StartDate = &startDate
		}
		if req.EndDate != nil {
			endDate, err := time.Parse(dateLayout, *req.EndDate)
			if err != nil {
				http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			input.EndDate = &endDate
		}

		budget, err := svc.Update(r.Context(), userID, id, input)
		if err != nil {
			handleError(w, err, "Failed to update budget")
			return
		}
		log.Printf("INFO: Updated budget %s for user %d", id, userID)
		writeJSON(w, http.StatusOK, budget, "Budget updated successfully")
	}
}

func DeleteBudget(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := uuid.Parse(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		if err := svc.Delete(r.Context(), userID, id); err != nil {
			handleError(w, err, "Failed to delete budget")
			return
		}
		log.Printf("INFO: Deleted budget %s for user %d", id, userID)
		writeJSON(w, http.StatusOK, nil, "Budget deleted successfully")
	}
}
