package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors
	ErrMsgConfiguration = "configuration error"

	// Credit ledger errors
	ErrMsgInsufficientCredits = "insufficient credits"

	// Daily reward errors
	ErrMsgAlreadyClaimedToday = "daily reward already claimed today"

	// Scarcity errors
	ErrMsgConcurrencyConflict = "concurrency conflict"

	// Catalog errors
	ErrMsgPackNotFound = "pack not found"
	ErrMsgPackInactive = "pack is not active"
	ErrMsgItemNotFound = "item not found"

	// User errors
	ErrMsgUserNotFound      = "user not found"
	ErrMsgUserAlreadyExists = "user already exists"

	// Grant errors
	ErrMsgGrantNotFound           = "pack grant not found"
	ErrMsgGrantAlreadyClaimed     = "pack grant already claimed"
	ErrMsgFreePackAlreadyGranted  = "free pack already granted"
	ErrMsgReconcileAlreadyRunning = "stats reconciliation already running"

	// Access errors
	ErrMsgForbidden       = "forbidden"
	ErrMsgUnauthenticated = "unauthenticated"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Transaction errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrConfiguration covers malformed probability tables, empty item pools
	// and broken reward cycles. Not retried.
	ErrConfiguration = errors.New(ErrMsgConfiguration)

	ErrInsufficientCredits = errors.New(ErrMsgInsufficientCredits)
	ErrAlreadyClaimedToday = errors.New(ErrMsgAlreadyClaimedToday)

	// ErrConcurrencyConflict is transient; retrying the whole operation re-rolls.
	ErrConcurrencyConflict = errors.New(ErrMsgConcurrencyConflict)

	ErrPackNotFound = errors.New(ErrMsgPackNotFound)
	ErrPackInactive = errors.New(ErrMsgPackInactive)
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)

	ErrUserNotFound      = errors.New(ErrMsgUserNotFound)
	ErrUserAlreadyExists = errors.New(ErrMsgUserAlreadyExists)

	ErrGrantNotFound           = errors.New(ErrMsgGrantNotFound)
	ErrGrantAlreadyClaimed     = errors.New(ErrMsgGrantAlreadyClaimed)
	ErrFreePackAlreadyGranted  = errors.New(ErrMsgFreePackAlreadyGranted)
	ErrReconcileAlreadyRunning = errors.New(ErrMsgReconcileAlreadyRunning)

	ErrForbidden       = errors.New(ErrMsgForbidden)
	ErrUnauthenticated = errors.New(ErrMsgUnauthenticated)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
