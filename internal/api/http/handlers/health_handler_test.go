package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/observability"
)

func TestHealthLive(t *testing.T) {
	handler := NewHealthHandler("servicedesk", "test", nil, nil, observability.NewMetrics())
	app := fiber.New()
	app.Get("/health/live", handler.Live)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "servicedesk", body["service"])
	assert.Equal(t, "test", body["version"])
}

func TestHealthMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	metrics.RecordRequest("/tickets", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	metrics.RecordRequest("/tickets", http.MethodGet, http.StatusOK, 7*time.Millisecond)
	metrics.RecordError("/tickets/:id", http.MethodPatch, "VALIDATION_FAILED")

	handler := NewHealthHandler("servicedesk", "test", nil, nil, metrics)
	app := fiber.New()
	app.Get("/health/metrics", handler.Metrics)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Service  string           `json:"service"`
		Requests map[string]int64 `json:"requests"`
		Errors   map[string]int64 `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "servicedesk", body.Service)
	assert.Equal(t, int64(2), body.Requests["/tickets|GET|200"])
	assert.Equal(t, int64(1), body.Errors["/tickets/:id|PATCH|VALIDATION_FAILED"])
}
