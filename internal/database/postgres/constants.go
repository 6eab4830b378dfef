package postgres

// Postgres error codes
const (
	PgCodeUniqueViolation      = "23505"
	PgCodeForeignKeyViolation  = "23503"
	PgCodeSerializationFailure = "40001"
	PgCodeDeadlockDetected     = "40P01"
)

// Constraint names from the core schema migration
const (
	ConstraintFreePackGrant  = "uq_pack_grants_free_pack"
	ConstraintDailyClaimDate = "uq_daily_claims_user_date"
	ConstraintUniqueItem     = "uq_user_items_unique_item"
	ConstraintUsername       = "users_username_key"
	ConstraintUserFK         = "user_items_user_id_fkey"
	ConstraintStatsUserFK    = "user_stats_user_id_fkey"
)

// MaxListLimit caps unbounded list queries
const MaxListLimit = 500

// Error messages
const (
	ErrMsgBeginTx           = "failed to begin transaction: %w"
	ErrMsgScanRow           = "failed to scan row: %w"
	ErrMsgQueryFailed       = "query failed: %w"
	ErrMsgLoadProbabilities = "failed to load pack probabilities: %w"
)
