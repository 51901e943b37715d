package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fintrack-server/src/services"
)

func ListCategories(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := parseTypeParam(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		categories, err := svc.List(r.Context(), t)
		if err != nil {
			handleError(w, err, "Failed to list categories")
			return
		}
		writeJSON(w, http.StatusOK, categories, "Categories retrieved successfully")
	}
}

func GetCategory(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		category, err := svc.Get(r.Context(), id)
		if err != nil {
			handleError(w, err, "Failed to get category")
			return
		}
		writeJSON(w, http.StatusOK, category, "Category retrieved successfully")
	}
}

func CreateCategory(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.CreateCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("ERROR: Failed to decode create category request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		category, err := svc.Create(r.Context(), input)
		if err != nil {
			handleError(w, err, "Failed to create category")
			return
		}
		log.Printf("INFO: Created category %s (%s)", category.Name, category.Type)
		writeJSON(w, http.StatusCreated, category, "Category created successfully")
	}
}

func UpdateCategory(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		var input services.UpdateCategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("ERROR: Failed to decode update category request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		category, err := svc.Update(r.Context(), id, input)
		if err != nil {
			handleError(w, err, "Failed to update category")
			return
		}
		log.Printf("INFO: Updated category %s", category.ID)
		writeJSON(w, http.StatusOK, category, "Category updated successfully")
	}
}

func DeleteCategory(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			handleError(w, err, "Failed to delete category")
			return
		}
		log.Printf("INFO: Deleted category %s", id)
		writeJSON(w, http.StatusOK, nil, "Category deleted successfully")
	}
}
