package handlers

import (
	"net/http"

	"fintrack-server/src/services"
)

func GetDashboard(svc *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		snapshot, err := svc.Snapshot(r.Context(), userID)
		if err != nil {
			handleError(w, err, "Failed to build dashboard snapshot")
			return
		}
		writeJSON(w, http.StatusOK, snapshot, "Dashboard statistics retrieved successfully")
	}
}
