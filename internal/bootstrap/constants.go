package bootstrap

import "time"

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingDropa       = "Starting Dropa"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
)

// =============================================================================
// Service Wiring
// =============================================================================

const (
	// RedisPingTimeout bounds the startup connectivity check
	RedisPingTimeout = 5 * time.Second

	DependencyRedis = "redis"

	LogMsgServicesInitialized = "Services initialized"
	LogMsgLocalReconcileLock  = "Redis not configured, reconcile runs use an in-process lock"
	LogMsgRedisReconcileLock  = "Reconcile runs use a Redis lock"

	ErrMsgFailedBuildSelector     = "failed to build item selector"
	ErrMsgFailedBuildPackService  = "failed to build pack service"
	ErrMsgFailedBuildDailyService = "failed to build daily service"
	ErrMsgFailedConnectRedis      = "failed to connect to redis"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgRedisCloseFailed     = "Redis client close failed"
)
