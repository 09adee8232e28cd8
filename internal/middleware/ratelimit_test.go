package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/analytiq-hub/docrouter-tenants/internal/middleware"
)

func newLimitedRouter(limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doPing(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNilRateLimiterDisablesThrottling(t *testing.T) {
	r := newLimitedRouter(middleware.NewRateLimiter(0))

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, doPing(r, "10.0.0.1:1000").Code)
	}
}

func TestRateLimiterRejectsOverBudget(t *testing.T) {
	// A 6 rpm budget leaves a burst of exactly one token.
	r := newLimitedRouter(middleware.NewRateLimiter(6))

	require.Equal(t, http.StatusOK, doPing(r, "10.0.0.1:1000").Code)

	w := doPing(r, "10.0.0.1:1000")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "60", w.Header().Get("Retry-After"))

	var body struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "rate_limited", body.Error)
	require.NotEmpty(t, body.Description)
}

func TestRateLimiterTracksClientsIndependently(t *testing.T) {
	r := newLimitedRouter(middleware.NewRateLimiter(6))

	require.Equal(t, http.StatusOK, doPing(r, "10.0.0.1:1000").Code)
	require.Equal(t, http.StatusTooManyRequests, doPing(r, "10.0.0.1:1000").Code)

	// A different client still has its own full bucket.
	require.Equal(t, http.StatusOK, doPing(r, "10.0.0.2:1000").Code)
}
