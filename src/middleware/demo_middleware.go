package middleware

import (
	"net/http"
)

// DemoModeMiddleware restricts a demo deployment to read-only traffic. It
// must run after JWTAuthMiddleware so the super-admin claim is in context;
// login and register stay outside it entirely.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isDemo || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			if superAdmin, ok := r.Context().Value("super_admin").(bool); ok && superAdmin {
				next.ServeHTTP(w, r)
				return
			}

			http.Error(w, "Demo mode: only GET requests are allowed", http.StatusForbidden)
		})
	}
}
