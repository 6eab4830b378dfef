package config

import (
	"fmt"

	"github.com/dropa-gg/dropa/internal/catalog"
	"github.com/dropa-gg/dropa/internal/daily"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/pack"
	"github.com/dropa-gg/dropa/internal/reconcile"
	"github.com/dropa-gg/dropa/internal/selector"
	"github.com/dropa-gg/dropa/internal/user"
)

// LoggerConfig returns the logger settings
func (c *Config) LoggerConfig() logger.Config {
	return logger.NewConfig(c.LogLevel, c.LogFormat, c.ServiceName, c.Version, c.Environment, c.LogAddSource)
}

// SelectorConfig parses scarcity weights and the fallback chain
func (c *Config) SelectorConfig() (selector.Config, error) {
	weights, err := ParseWeights(c.ScarcityWeights, domain.ScarcityLevel.Valid)
	if err != nil {
		return selector.Config{}, fmt.Errorf(ErrMsgInvalidEnvFmt, EnvScarcityWeights, err)
	}
	stages, err := selector.ParseStages(splitList(c.SelectorFallback))
	if err != nil {
		return selector.Config{}, fmt.Errorf(ErrMsgInvalidEnvFmt, EnvSelectorFallback, err)
	}
	return selector.Config{
		ScarcityWeights:  weights,
		Fallback:         stages,
		MaxClaimAttempts: c.SelectorMaxClaimAttempts,
	}, nil
}

// DailyConfig loads the daily calendar timezone and bonus tiers
func (c *Config) DailyConfig() (daily.Config, error) {
	loc, err := daily.LoadLocation(c.DailyTimezone)
	if err != nil {
		return daily.Config{}, fmt.Errorf(ErrMsgInvalidEnvFmt, EnvDailyTimezone, err)
	}
	tiers, err := daily.ParseBonusTiers(c.StreakBonusTiers)
	if err != nil {
		return daily.Config{}, fmt.Errorf(ErrMsgInvalidEnvFmt, EnvStreakBonusTiers, err)
	}
	return daily.Config{Location: loc, BonusTiers: tiers}, nil
}

// PackConfig parses the free pack tier weights
func (c *Config) PackConfig() (pack.Config, error) {
	weights, err := ParseWeights(c.FreePackTierWeights, domain.PackType.Valid)
	if err != nil {
		return pack.Config{}, fmt.Errorf(ErrMsgInvalidEnvFmt, EnvFreePackTierWeights, err)
	}
	total := 0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return pack.Config{}, fmt.Errorf(ErrMsgInvalidEnvFmt, EnvFreePackTierWeights, fmt.Errorf(ErrMsgNoPositiveWeight, domain.ErrConfiguration))
	}
	return pack.Config{FreePackTierWeights: weights}, nil
}

// CatalogCacheConfig sizes the catalog read cache
func (c *Config) CatalogCacheConfig() catalog.CacheConfig {
	return catalog.CacheConfig{Size: c.CatalogCacheSize, TTL: c.CatalogCacheTTL}
}

// UserCacheConfig sizes the identity cache
func (c *Config) UserCacheConfig() user.CacheConfig {
	return user.CacheConfig{Size: c.UserCacheSize, TTL: c.UserCacheTTL}
}

// ReconcileConfig returns the fix-all fan-out settings
func (c *Config) ReconcileConfig() reconcile.Config {
	return reconcile.Config{Concurrency: c.ReconcileConcurrency}
}
