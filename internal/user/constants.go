package user

import "time"

// ============================================================================
// Cache Configuration
// ============================================================================

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// DefaultCacheSize is the default maximum number of cache entries
const DefaultCacheSize = 1000

// DefaultCacheTTL is the default time-to-live for cache entries
const DefaultCacheTTL = 30 * time.Second

// ============================================================================
// Read model paging
// ============================================================================

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// ============================================================================
// Registration
// ============================================================================

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

// Error messages
const (
	ErrMsgBeginTxFailed      = "failed to begin transaction: %w"
	ErrMsgCommitFailed       = "failed to commit transaction: %w"
	ErrMsgCreateUserFailed   = "failed to create user: %w"
	ErrMsgGetUserFailed      = "failed to get user: %w"
	ErrMsgGetStatsFailed     = "failed to get stats: %w"
	ErrMsgCreditFailed       = "failed to credit user: %w"
	ErrMsgAuditFailed        = "failed to append audit entry: %w"
	ErrMsgListItemsFailed    = "failed to list items: %w"
	ErrMsgListOpeningsFailed = "failed to list pack openings: %w"
	ErrMsgUsernameLengthFmt  = "%w: username must be %d-%d characters"
	ErrMsgAmountNotPositive  = "%w: amount must be positive"
)

// Log messages
const (
	LogMsgRegisterUserCalled = "RegisterUser called"
	LogMsgUserRegistered     = "User registered"
	LogMsgCreditsAdded       = "Credits added"
	LogMsgAddCreditsFailed   = "AddCredits failed"
)

// Audit metadata keys
const (
	MetaKeyAmount = "amount"
	MetaKeyReason = "reason"
	MetaKeyActor  = "actor_id"
)
