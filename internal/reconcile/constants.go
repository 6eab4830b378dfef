package reconcile

import "time"

// Defaults
const (
	DefaultConcurrency = 4
	DefaultLockTTL     = 10 * time.Minute
	LockName           = "dropa:reconcile:fix-all"
)

// Error messages
const (
	ErrMsgBeginTxFailed     = "failed to begin transaction: %w"
	ErrMsgCommitFailed      = "failed to commit transaction: %w"
	ErrMsgCompareFailed     = "failed to compare stats: %w"
	ErrMsgGetUserFailed     = "failed to get user: %w"
	ErrMsgLockStatsFailed   = "failed to lock stats: %w"
	ErrMsgCountActualFailed = "failed to count actual stats: %w"
	ErrMsgUpdateStatsFailed = "failed to update stats: %w"
	ErrMsgAuditFailed       = "failed to append audit entry: %w"
	ErrMsgAcquireLockFailed = "failed to acquire reconcile lock: %w"
	ErrMsgFixUserFmt        = "user %s: %v"
)

// Log messages
const (
	LogMsgDriftDetected   = "Stats drift detected"
	LogMsgStatsCorrected  = "Stats corrected"
	LogMsgFixFailed       = "Stats fix failed"
	LogMsgFixAllStarted   = "Stats reconciliation started"
	LogMsgFixAllCompleted = "Stats reconciliation completed"
	LogMsgReleaseFailed   = "Failed to release reconcile lock"
)

// Audit metadata keys
const (
	MetaKeyFields = "fields"
)
