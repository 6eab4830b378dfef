package database

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2

	// MigrationsDir is the directory of the embedded goose migrations
	MigrationsDir = "migrations"
)

// Session parameters set on every pooled connection
const (
	RuntimeParamTimezone = "timezone"
	RuntimeParamAppName  = "application_name"
	SessionTimezone      = "UTC"
	ApplicationName      = "dropa"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToLoadMigrations  = "failed to load migrations"
	ErrMsgFailedToCreateMigrator  = "failed to create migration provider"
	ErrMsgFailedToMigrateUp       = "failed to apply migrations"
	ErrMsgFailedToMigrateDown     = "failed to roll back migration"
	ErrMsgFailedToMigrationStatus = "failed to read migration status"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Migration applied"
	LogMsgMigrationRolledBack             = "Migration rolled back"
	LogMsgNoPendingMigrations             = "No pending migrations"
)
