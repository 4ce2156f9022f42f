package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	r.POST("/healthz", h.Health)
	return r
}

func okCheck(name string) Check {
	return Check{Name: name, Ping: func(context.Context) error { return nil }}
}

func failingCheck(name string) Check {
	return Check{Name: name, Ping: func(context.Context) error { return errors.New("connection refused") }}
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	router := setupRouter(NewHealthHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	router := setupRouter(NewHealthHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// HEAD should have no body
	assert.Zero(t, w.Body.Len())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_OPTIONS_SkipsChecks(t *testing.T) {
	t.Parallel()

	router := setupRouter(NewHealthHandler(failingCheck("redis")))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_Checks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		checks         []Check
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "all checks pass",
			method:         http.MethodGet,
			checks:         []Check{okCheck("redis"), okCheck("scanlog")},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "redis down",
			method:         http.MethodGet,
			checks:         []Check{failingCheck("redis"), okCheck("scanlog")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unavailable: redis"}`,
		},
		{
			name:           "scanlog down",
			method:         http.MethodPost,
			checks:         []Check{okCheck("redis"), failingCheck("scanlog")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unavailable: scanlog"}`,
		},
		{
			name:           "head reports failure without body",
			method:         http.MethodHead,
			checks:         []Check{failingCheck("redis")},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(NewHealthHandler(tt.checks...))
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody == "" {
				assert.Zero(t, w.Body.Len())
				return
			}
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
