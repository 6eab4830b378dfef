package catalog

import "time"

// Cache defaults
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = time.Minute
)

// Cache keys
const (
	cacheKeyActivePacks  = "packs:active"
	cacheKeyAchievements = "achievements"
	cacheKeyPackPrefix   = "pack:"
)

// Error messages
const (
	ErrMsgListPacksFailed        = "failed to list packs: %w"
	ErrMsgGetPackFailed          = "failed to get pack: %w"
	ErrMsgListAchievementsFailed = "failed to list achievements: %w"
)

// Log messages
const (
	LogMsgCacheInvalidated = "Catalog cache invalidated"
)
