package handler

import (
	"net/http"

	"github.com/dropa-gg/dropa/internal/daily"
)

// HandleGetDailyStatus reports what today's claim would grant
// @Summary Daily reward status
// @Tags daily
// @Produce json
// @Param X-User-ID header string true "Caller user ID"
// @Success 200 {object} domain.DailyStatus
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /daily/status [get]
func HandleGetDailyStatus(svc daily.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		status, err := svc.GetTodayStatus(r.Context(), principal.UserID)
		if err != nil {
			respondServiceError(w, r, OpDailyStatus, err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}

// HandleClaimDaily claims today's reward
// @Summary Claim daily reward
// @Description Grants the reward for the caller's current cycle day. At most one claim per calendar day.
// @Tags daily
// @Produce json
// @Param X-User-ID header string true "Caller user ID"
// @Success 200 {object} domain.DailyClaimResult
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /daily/claim [post]
func HandleClaimDaily(svc daily.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		result, err := svc.Claim(r.Context(), principal.UserID)
		if err != nil {
			respondServiceError(w, r, OpDailyClaim, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
