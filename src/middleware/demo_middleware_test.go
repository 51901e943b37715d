package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestDemoModeMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// Stacked as the router stacks them: auth first, then the demo guard.
	build := func(isDemo bool) http.Handler {
		return JWTAuthMiddleware(DemoModeMiddleware(isDemo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
	}

	request := func(handler http.Handler, method string, superAdmin bool) *httptest.ResponseRecorder {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id":     float64(1),
			"username":    "bob",
			"super_admin": superAdmin,
			"exp":         time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(method, "/api/transactions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("demo mode blocks writes", func(t *testing.T) {
		handler := build(true)
		assert.Equal(t, http.StatusForbidden, request(handler, http.MethodPost, false).Code)
		assert.Equal(t, http.StatusForbidden, request(handler, http.MethodPut, false).Code)
		assert.Equal(t, http.StatusForbidden, request(handler, http.MethodDelete, false).Code)
	})

	t.Run("demo mode allows reads", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(build(true), http.MethodGet, false).Code)
	})

	t.Run("super admin bypasses the demo guard", func(t *testing.T) {
		handler := build(true)
		assert.Equal(t, http.StatusOK, request(handler, http.MethodPost, true).Code)
		assert.Equal(t, http.StatusOK, request(handler, http.MethodDelete, true).Code)
	})

	t.Run("disabled guard passes everything", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(build(false), http.MethodPost, false).Code)
	})
}
