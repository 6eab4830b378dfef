package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// headers are already sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped
// status and user message.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err, "status", status)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
	ErrMsgConfigurationError  = "This reward is temporarily unavailable. Please contact support."
	ErrMsgUnauthenticatedErr  = "Please identify yourself to continue."
	ErrMsgForbiddenError      = "You are not allowed to do that."
	ErrMsgTryAgainError       = "Someone got there first. Please try again."
	ErrMsgReconcileRunningErr = "A stats reconciliation is already running."

	// Credit messages
	ErrMsgCantAffordError = "You can't afford this pack"

	// Daily messages
	ErrMsgAlreadyClaimedTodayError = "You already claimed today's reward. Come back tomorrow!"

	// Catalog and ownership messages
	ErrMsgPackNotFoundError    = "Pack not found"
	ErrMsgPackInactiveError    = "This pack is not available right now"
	ErrMsgItemNotFoundError    = "Item not found"
	ErrMsgUserNotFoundError    = "User not found"
	ErrMsgUserExistsError      = "Username is already taken"
	ErrMsgGrantNotFoundError   = "Pack grant not found"
	ErrMsgGrantClaimedError    = "This pack was already opened"
	ErrMsgFreePackGrantedError = "You already received your free pack"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Errors outside the domain set map to a generic 500 so internals never leak.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientCredits):
		return http.StatusPaymentRequired, ErrMsgCantAffordError
	case errors.Is(err, domain.ErrAlreadyClaimedToday):
		return http.StatusConflict, ErrMsgAlreadyClaimedTodayError
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict, ErrMsgTryAgainError
	case errors.Is(err, domain.ErrFreePackAlreadyGranted):
		return http.StatusConflict, ErrMsgFreePackGrantedError
	case errors.Is(err, domain.ErrGrantAlreadyClaimed):
		return http.StatusConflict, ErrMsgGrantClaimedError
	case errors.Is(err, domain.ErrReconcileAlreadyRunning):
		return http.StatusConflict, ErrMsgReconcileRunningErr
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict, ErrMsgUserExistsError
	case errors.Is(err, domain.ErrPackInactive):
		return http.StatusConflict, ErrMsgPackInactiveError
	case errors.Is(err, domain.ErrPackNotFound):
		return http.StatusNotFound, ErrMsgPackNotFoundError
	case errors.Is(err, domain.ErrGrantNotFound):
		return http.StatusNotFound, ErrMsgGrantNotFoundError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrMsgUnauthenticatedErr
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrMsgForbiddenError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusInternalServerError, ErrMsgConfigurationError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
