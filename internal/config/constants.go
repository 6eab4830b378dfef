package config

import "time"

// Environment variable keys
const (
	EnvPort                     = "PORT"
	EnvAPIKey                   = "API_KEY"
	EnvLogLevel                 = "LOG_LEVEL"
	EnvLogFormat                = "LOG_FORMAT"
	EnvLogAddSource             = "LOG_ADD_SOURCE"
	EnvEnvironment              = "ENVIRONMENT"
	EnvServiceName              = "SERVICE_NAME"
	EnvVersion                  = "VERSION"
	EnvDBUser                   = "DB_USER"
	EnvDBPassword               = "DB_PASSWORD"
	EnvDBHost                   = "DB_HOST"
	EnvDBPort                   = "DB_PORT"
	EnvDBName                   = "DB_NAME"
	EnvDBMaxConns               = "DB_MAX_CONNS"
	EnvDBMaxConnIdleTime        = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLifetime        = "DB_MAX_CONN_LIFETIME"
	EnvRedisAddr                = "REDIS_ADDR"
	EnvRedisPassword            = "REDIS_PASSWORD"
	EnvDailyTimezone            = "DAILY_TIMEZONE"
	EnvStreakBonusTiers         = "STREAK_BONUS_TIERS"
	EnvScarcityWeights          = "SCARCITY_WEIGHTS"
	EnvSelectorFallback         = "SELECTOR_FALLBACK"
	EnvSelectorMaxClaimAttempts = "SELECTOR_MAX_CLAIM_ATTEMPTS"
	EnvFreePackTierWeights      = "FREE_PACK_TIER_WEIGHTS"
	EnvCatalogCacheSize         = "CATALOG_CACHE_SIZE"
	EnvCatalogCacheTTL          = "CATALOG_CACHE_TTL"
	EnvUserCacheSize            = "USER_CACHE_SIZE"
	EnvUserCacheTTL             = "USER_CACHE_TTL"
	EnvReconcileConcurrency     = "RECONCILE_CONCURRENCY"
	EnvReconcileLockTTL         = "RECONCILE_LOCK_TTL"
	EnvReconcileSchedule        = "RECONCILE_SCHEDULE"
	EnvTrustedProxies           = "TRUSTED_PROXIES"
	EnvAutoMigrate              = "AUTO_MIGRATE"
)

// Defaults
const (
	DefaultPort                     = 8080
	DefaultLogLevel                 = "info"
	DefaultLogFormat                = "text"
	DefaultEnvironment              = "dev"
	DefaultServiceName              = "dropa"
	DefaultVersion                  = "dev"
	DefaultDBUser                   = "postgres"
	DefaultDBPassword               = "postgres"
	DefaultDBHost                   = "localhost"
	DefaultDBPort                   = "5432"
	DefaultDBName                   = "dropa"
	DefaultDBMaxConns               = 20
	DefaultDBMaxConnIdleTime        = 5 * time.Minute
	DefaultDBMaxConnLifetime        = 30 * time.Minute
	DefaultDailyTimezone            = "America/Sao_Paulo"
	DefaultStreakBonusTiers         = "8:10,15:20,31:30"
	DefaultScarcityWeights          = "COMMON:100,UNCOMMON:60,RARE:30,LEGENDARY:10,UNIQUE:3"
	DefaultSelectorFallback         = "downgrade,any-same-rarity"
	DefaultSelectorMaxClaimAttempts = 5
	DefaultFreePackTierWeights      = "BRONZE:60,SILVER:25,GOLD:10,PLATINUM:4,DIAMOND:1"
	DefaultCatalogCacheSize         = 256
	DefaultCatalogCacheTTL          = time.Minute
	DefaultUserCacheSize            = 1000
	DefaultUserCacheTTL             = 30 * time.Second
	DefaultReconcileConcurrency     = 4
	DefaultReconcileLockTTL         = 10 * time.Minute
	DefaultReconcileSchedule        = "@every 1h"
)

// Example values that must never reach production
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// Error messages
const (
	ErrMsgInvalidPort        = "invalid PORT value: %w"
	ErrMsgAPIKeyMissing      = "API_KEY environment variable must be set for security"
	ErrMsgInvalidField       = "invalid %s: failed %q"
	ErrMsgInvalidEnvFmt      = "invalid %s: %w"
	ErrMsgMalformedWeight    = "%w: malformed weight %q, want NAME:WEIGHT"
	ErrMsgUnknownWeightKey   = "%w: unknown name %q"
	ErrMsgDuplicateWeightKey = "%w: duplicate name %q"
	ErrMsgNegativeWeight     = "%w: negative weight for %q"
	ErrMsgNoPositiveWeight   = "%w: at least one weight must be positive"
)
