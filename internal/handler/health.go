package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dropa-gg/dropa/internal/logger"
)

const (
	readinessTimeout = 2 * time.Second

	StatusOK          = "ok"
	StatusUnavailable = "unavailable"

	MsgDependencyDown = "dependency check failed"
)

// Pinger is a dependency the readiness probe can reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a Pinger in the readiness report.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz pings every dependency under one shared deadline and reports
// each of them. Any failure makes the whole probe 503.
// @Summary Readiness check
// @Description Pings the database and, when configured, Redis
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: StatusOK, Checks: make(map[string]string, len(deps))}
		for _, d := range deps {
			if err := d.Pinger.Ping(ctx); err != nil {
				logger.FromContext(r.Context()).Error("Readiness check failed", "dependency", d.Name, "error", err)
				resp.Checks[d.Name] = StatusUnavailable
				resp.Status = StatusUnavailable
				resp.Message = MsgDependencyDown
				continue
			}
			resp.Checks[d.Name] = StatusOK
		}

		status := http.StatusOK
		if resp.Status != StatusOK {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, resp)
	}
}
