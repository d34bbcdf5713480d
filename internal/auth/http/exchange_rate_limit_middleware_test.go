package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.POST("/api/jwt", ExchangeRateLimitMiddleware(rps, burst, logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestExchangeRateLimitMiddleware(t *testing.T) {
	t.Run("AllowsWithinBurst", func(t *testing.T) {
		router := setupRateLimitRouter(1, 3)

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/jwt", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("RejectsOverBurst", func(t *testing.T) {
		router := setupRateLimitRouter(0.001, 1)

		first := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/jwt", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(first, req)
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/jwt", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(second, req)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
	})

	t.Run("LimitsPerIP", func(t *testing.T) {
		router := setupRateLimitRouter(0.001, 1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/jwt", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/jwt", nil)
		req.RemoteAddr = "10.0.0.4:1234"
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
