package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fintrack-server/src/models"
	"fintrack-server/src/services"
)

// Every successful response carries the same envelope: the payload plus a
// human-readable confirmation message, and pagination metadata on list
// endpoints.
type envelope struct {
	Data       interface{}        `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Message    string             `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data, Message: message})
}

func writePage(w http.ResponseWriter, data interface{}, pagination models.Pagination, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Data: data, Pagination: &pagination, Message: message})
}

// writeServiceError maps domain error kinds to status codes. The services
// never produce status codes themselves.
func writeServiceError(w http.ResponseWriter, err error) {
	kind, ok := services.KindOf(err)
	if !ok {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	switch kind {
	case services.KindNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case services.KindConflict:
		http.Error(w, err.Error(), http.StatusConflict)
	case services.KindInvalid, services.KindInvalidRange:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case services.KindTypeMismatch:
		http.Error(w, err.Error(), http.StatusForbidden)
	case services.KindUnauthorized:
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func handleError(w http.ResponseWriter, err error, logContext string) {
	log.Printf("ERROR: %s: %v", logContext, err)
	writeServiceError(w, err)
}
