package bootstrap

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/redis/go-redis/v9"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/auth"
	"github.com/dropa-gg/dropa/internal/catalog"
	"github.com/dropa-gg/dropa/internal/config"
	"github.com/dropa-gg/dropa/internal/daily"
	"github.com/dropa-gg/dropa/internal/handler"
	"github.com/dropa-gg/dropa/internal/pack"
	"github.com/dropa-gg/dropa/internal/progression"
	"github.com/dropa-gg/dropa/internal/rarity"
	"github.com/dropa-gg/dropa/internal/reconcile"
	"github.com/dropa-gg/dropa/internal/reward"
	"github.com/dropa-gg/dropa/internal/selector"
	"github.com/dropa-gg/dropa/internal/server"
	"github.com/dropa-gg/dropa/internal/user"
)

// Services is the wired set of domain services
type Services struct {
	Audit     audit.Service
	Users     user.Service
	Catalog   catalog.Service
	Packs     pack.Service
	Daily     daily.Service
	Reconcile reconcile.Service
	Policy    *auth.Policy

	redisClient redis.UniversalClient
}

// ForServer exposes the services the HTTP routes call.
func (s *Services) ForServer() server.Services {
	var readiness []handler.Dependency
	if s.redisClient != nil {
		readiness = append(readiness, handler.Dependency{Name: DependencyRedis, Pinger: redisPinger{s.redisClient}})
	}
	return server.Services{
		Users:     s.Users,
		Catalog:   s.Catalog,
		Packs:     s.Packs,
		Daily:     s.Daily,
		Reconcile: s.Reconcile,
		Audit:     s.Audit,
		Policy:    s.Policy,
		Readiness: readiness,
	}
}

// NewGranter builds the shared reward pipeline: rarity roll, scarcity-aware
// pick and achievement evaluation.
func NewGranter(cfg *config.Config) (*reward.Granter, error) {
	selCfg, err := cfg.SelectorConfig()
	if err != nil {
		return nil, err
	}
	sel, err := selector.New(selCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildSelector, err)
	}
	return reward.NewGranter(rarity.NewResolver(rand.Float64), sel, progression.NewEvaluator()), nil
}

// NewReconcileLocker returns a redsync locker when Redis is configured, and
// nil otherwise so the reconcile service falls back to its in-process lock.
func NewReconcileLocker(cfg *config.Config, client redis.UniversalClient) reconcile.Locker {
	if client == nil {
		slog.Default().Info(LogMsgLocalReconcileLock)
		return nil
	}
	slog.Default().Info(LogMsgRedisReconcileLock, "addr", cfg.RedisAddr, "ttl", cfg.ReconcileLockTTL)
	return reconcile.NewRedisLocker(client, cfg.ReconcileLockTTL)
}

// InitializeServices wires every domain service over repos. client may be nil.
func InitializeServices(cfg *config.Config, repos *Repositories, client redis.UniversalClient) (*Services, error) {
	granter, err := NewGranter(cfg)
	if err != nil {
		return nil, err
	}

	dailyCfg, err := cfg.DailyConfig()
	if err != nil {
		return nil, err
	}
	packCfg, err := cfg.PackConfig()
	if err != nil {
		return nil, err
	}

	auditSvc := audit.NewService(repos.Audit)

	packSvc, err := pack.NewService(repos.Pack, granter, auditSvc, packCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildPackService, err)
	}
	dailySvc, err := daily.NewService(repos.Daily, granter, auditSvc, dailyCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildDailyService, err)
	}

	svcs := &Services{
		Audit:     auditSvc,
		Users:     user.NewService(repos.User, auditSvc, cfg.UserCacheConfig()),
		Catalog:   catalog.NewService(repos.Catalog, cfg.CatalogCacheConfig()),
		Packs:     packSvc,
		Daily:     dailySvc,
		Reconcile: reconcile.NewService(repos.Reconcile, NewReconcileLocker(cfg, client), cfg.ReconcileConfig()),
		Policy:    auth.DefaultPolicy(),
	}
	svcs.redisClient = client
	slog.Default().Info(LogMsgServicesInitialized)
	return svcs, nil
}
