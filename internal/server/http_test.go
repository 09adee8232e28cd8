package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/analytiq-hub/docrouter-tenants/internal/server"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.NewHTTPServer(r)
	return r
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error, body.Description
}

func TestUnknownRouteBody(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	errCode, description := decodeErrorBody(t, w)
	require.Equal(t, "not_found", errCode)
	require.NotEmpty(t, description)
}

func TestMethodNotAllowedBody(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ping", nil))

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	errCode, description := decodeErrorBody(t, w)
	require.Equal(t, "method_not_allowed", errCode)
	require.NotEmpty(t, description)
}
