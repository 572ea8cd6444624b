// Package handler provides the bot's HTTP handlers.
package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/cwabot/cwabot/internal/api/models"
	"github.com/cwabot/cwabot/internal/api/response"
	"github.com/cwabot/cwabot/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers *resilience.Registry
	now       func() time.Time
}

// NewOpsHandler creates a new OpsHandler. A nil registry reports no providers.
func NewOpsHandler(version, buildTime string, providers *resilience.Registry) *OpsHandler {
	if providers == nil {
		providers = resilience.NewRegistry()
	}
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		providers: providers,
		now:       time.Now,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. The bot answers with fallback
// text when an upstream is down, so only a total outage is not ready.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status, _ := h.providerStatuses()
	health := models.Health{
		Status: status,
		Time:   models.Timestamp(h.now()),
	}

	code := http.StatusOK
	if status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - upstream provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status, providers := h.providerStatuses()
	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:    status,
		Time:      models.Timestamp(h.now()),
		Providers: providers,
	})
}

// providerStatuses maps registry health to the API model. The overall status
// is FAIL when every provider's circuit is open and DEGRADED when any is not
// closed.
func (h *OpsHandler) providerStatuses() (models.HealthStatus, []models.ProviderStatus) {
	all := h.providers.GetAllHealth()
	providers := make([]models.ProviderStatus, 0, len(all))

	open := 0
	degraded := false
	for _, ph := range all {
		ps := models.ProviderStatus{
			Provider:      ph.Name,
			Status:        providerStatus(ph.CircuitState),
			CircuitState:  ph.CircuitState.String(),
			LastSuccessAt: models.TimestampPtr(ph.LastSuccessAt),
			LastFailureAt: models.TimestampPtr(ph.LastFailureAt),
		}
		if ph.LastError != "" {
			msg := ph.LastError
			ps.Message = &msg
		}
		if !ph.IsHealthy() {
			degraded = true
		}
		if ph.IsUnhealthy() {
			open++
		}
		providers = append(providers, ps)
	}

	switch {
	case len(all) > 0 && open == len(all):
		return models.HealthStatusFail, providers
	case degraded:
		return models.HealthStatusDegraded, providers
	default:
		return models.HealthStatusOK, providers
	}
}

func providerStatus(state gobreaker.State) models.HealthStatus {
	switch state {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
