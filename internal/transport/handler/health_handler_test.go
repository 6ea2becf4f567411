package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_HealthCheck(t *testing.T) {
	logger := zap.NewNop()
	handler := NewHealthHandler(pingFunc(func(context.Context) error { return nil }), logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.HealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.Equal(t, "Issue Tracker API is running", result["status"])
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	handler := NewHealthHandler(pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}), zap.NewNop())

	w := httptest.NewRecorder()
	handler.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
