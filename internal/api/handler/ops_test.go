package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwabot/cwabot/internal/api/handler"
	"github.com/cwabot/cwabot/internal/api/models"
	"github.com/cwabot/cwabot/internal/provider/resilience"
)

// registerClient registers a client that trips on the first failure.
func registerClient(registry *resilience.Registry, name string) *resilience.Client {
	cfg := resilience.DefaultClientConfig(name)
	cfg.Registry = registry
	cfg.CircuitBreaker = &resilience.CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 },
	}
	return resilience.NewClient(cfg)
}

func failOnce(t *testing.T, client *resilience.Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)
	resp, _ := client.Do(req)
	if resp != nil {
		resp.Body.Close()
	}
	require.Equal(t, gobreaker.StateOpen, client.CircuitBreakerState())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestOps_HealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("v1.0.0", "2024-07-01T00:00:00Z", nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	health := decode[models.Health](t, rec)
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "v1.0.0", health.Details["version"])
	assert.Equal(t, "2024-07-01T00:00:00Z", health.Details["buildTime"])
}

func TestOps_SystemStatus_AllClosed(t *testing.T) {
	registry := resilience.NewRegistry()
	registerClient(registry, "cwa-forecast")
	registerClient(registry, "moenv-aqi")
	registry.RecordSuccess("cwa-forecast")

	h := handler.NewOpsHandler("test", "", registry)
	rec := httptest.NewRecorder()
	h.SystemStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	status := decode[models.SystemStatus](t, rec)
	assert.Equal(t, models.HealthStatusOK, status.Status)
	require.Len(t, status.Providers, 2)
	assert.Equal(t, "cwa-forecast", status.Providers[0].Provider)
	assert.Equal(t, "closed", status.Providers[0].CircuitState)
	assert.NotNil(t, status.Providers[0].LastSuccessAt)
	assert.Nil(t, status.Providers[0].LastFailureAt)
	assert.Nil(t, status.Providers[1].LastSuccessAt)
}

func TestOps_SystemStatus_Degraded(t *testing.T) {
	registry := resilience.NewRegistry()
	registerClient(registry, "cwa-forecast")
	failOnce(t, registerClient(registry, "moenv-aqi"))
	registry.RecordFailure("moenv-aqi", assert.AnError)

	h := handler.NewOpsHandler("test", "", registry)
	rec := httptest.NewRecorder()
	h.SystemStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	status := decode[models.SystemStatus](t, rec)
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	require.Len(t, status.Providers, 2)
	assert.Equal(t, models.HealthStatusFail, status.Providers[1].Status)
	assert.Equal(t, "open", status.Providers[1].CircuitState)
	require.NotNil(t, status.Providers[1].Message)
	assert.Equal(t, assert.AnError.Error(), *status.Providers[1].Message)
}

func TestOps_ReadinessCheck(t *testing.T) {
	t.Run("no providers", func(t *testing.T) {
		h := handler.NewOpsHandler("test", "", resilience.NewRegistry())
		rec := httptest.NewRecorder()
		h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.HealthStatusOK, decode[models.Health](t, rec).Status)
	})

	t.Run("one provider open", func(t *testing.T) {
		registry := resilience.NewRegistry()
		registerClient(registry, "cwa-forecast")
		failOnce(t, registerClient(registry, "cwa-earthquake"))

		h := handler.NewOpsHandler("test", "", registry)
		rec := httptest.NewRecorder()
		h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.HealthStatusDegraded, decode[models.Health](t, rec).Status)
	})

	t.Run("every provider open", func(t *testing.T) {
		registry := resilience.NewRegistry()
		failOnce(t, registerClient(registry, "cwa-forecast"))
		failOnce(t, registerClient(registry, "moenv-aqi"))

		h := handler.NewOpsHandler("test", "", registry)
		rec := httptest.NewRecorder()
		h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, models.HealthStatusFail, decode[models.Health](t, rec).Status)
	})
}
