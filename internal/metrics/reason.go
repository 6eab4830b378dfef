package metrics

import (
	"errors"

	"github.com/dropa-gg/dropa/internal/domain"
)

// FailureReason maps a service error to a low-cardinality reason label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientCredits):
		return ReasonInsufficientCredits
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return ReasonConflict
	case errors.Is(err, domain.ErrAlreadyClaimedToday),
		errors.Is(err, domain.ErrGrantAlreadyClaimed),
		errors.Is(err, domain.ErrFreePackAlreadyGranted):
		return ReasonAlreadyClaimed
	case errors.Is(err, domain.ErrConfiguration):
		return ReasonConfiguration
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPackNotFound),
		errors.Is(err, domain.ErrPackInactive),
		errors.Is(err, domain.ErrGrantNotFound):
		return ReasonNotFound
	default:
		return ReasonInternal
	}
}

// RecordFailure counts a failed core operation.
func RecordFailure(operation string, err error) {
	OperationFailures.WithLabelValues(operation, FailureReason(err)).Inc()
}
