package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
	"fintrack-server/src/services"
)

// createTransactionRequest is the wire shape; dates arrive as YYYY-MM-DD
// strings and amounts as fixed-point decimal strings.
type createTransactionRequest struct {
	Amount      decimal.Decimal        `json:"amount"`
	Type        models.TransactionType `json:"type"`
	CategoryID  uuid.UUID              `json:"category_id"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
}

type updateTransactionRequest struct {
	Amount      *decimal.Decimal        `json:"amount"`
	Type        *models.TransactionType `json:"type"`
	CategoryID  *uuid.UUID              `json:"category_id"`
	Description *string                 `json:"description"`
	Date        *string                 `json:"date"`
}

func CreateTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req createTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		transaction, err := svc.Create(r.Context(), userID, services.CreateTransactionInput{
			Amount:      req.Amount,
			Type:        req.Type,
			CategoryID:  req.CategoryID,
			Description: req.Description,
			Date:        date,
		})
		if err != nil {
			handleError(w, err, "Failed to create transaction")
			return
		}
		log.Printf("INFO: Created transaction %s for user %d", transaction.ID, userID)
		writeJSON(w, http.StatusCreated, transaction, "Transaction created successfully")
	}
}

func ListTransactions(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		q := r.URL.Query()

		page, err := parsePage(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter := models.TransactionFilter{Search: q.Get("search")}
		if filter.Type, err = parseTypeParam(q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if filter.CategoryID, err = parseUUIDParam(q, "category_id"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if filter.StartDate, err = parseDateParam(q, "start_date"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if filter.EndDate, err = parseDateParam(q, "end_date"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if filter.MinAmount, err = parseAmountParam(q, "min_amount"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if filter.MaxAmount, err = parseAmountParam(q, "max_amount"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		transactions, pagination, err := svc.List(r.Context(), userID, services.ListTransactionsInput{
			Filter: filter,
			Sort:   q.Get("sort"),
			Page:   page,
		})
		if err != nil {
			handleError(w, err, "Failed to list transactions")
			return
		}
		writePage(w, transactions, pagination, "Transactions retrieved successfully")
	}
}

func GetTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		transaction, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			handleError(w, err, "Failed to get transaction")
			return
		}
		writeJSON(w, http.StatusOK, transaction, "Transaction retrieved successfully")
	}
}

func UpdateTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		var req updateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		input := services.UpdateTransactionInput{
			Amount:      req.Amount,
			Type:        req.Type,
			CategoryID:  req.CategoryID,
			Description: req.Description,
		}
		if req.Date != nil {
			date, err := time.Parse(dateLayout, *req.Date)
			if err != nil {
				http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			input.Date = &date
		}

		transaction, err := svc.Update(r.Context(), userID, id, input)
		if err != nil {
			handleError(w, err, "Failed to update transaction")
			return
		}
		log.Printf("INFO: Updated transaction %s for user %d", id, userID)
		writeJSON(w, http.StatusOK, transaction, "Transaction updated successfully")
	}
}

func DeleteTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		id, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		if err := svc.Delete(r.Context(), userID, id); err != nil {
			handleError(w, err, "Failed to delete transaction")
			return
		}
		log.Printf("INFO: Deleted transaction %s for user %d", id, userID)
		writeJSON(w, http.StatusOK, nil, "Transaction deleted successfully")
	}
}

func GetStatistics(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		q := r.URL.Query()

		startDate, err := parseDateParam(q, "start_date")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		endDate, err := parseDateParam(q, "end_date")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		summary, err := svc.Statistics(r.Context(), userID, startDate, endDate)
		if err != nil {
			handleError(w, err, "Failed to compute statistics")
			return
		}
		writeJSON(w, http.StatusOK, summary, "Transaction statistics retrieved successfully")
	}
}
