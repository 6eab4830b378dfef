// Package catalog serves cached reads of packs and achievements. Write paths
// never read through it: the open pipeline re-reads the pack in its own
// transaction.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/repository"
)

// Service defines the catalog read operations
type Service interface {
	ListPacks(ctx context.Context) ([]domain.Pack, error)
	GetPack(ctx context.Context, packID uuid.UUID) (*domain.Pack, error)
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
	// Invalidate drops every cached entry, e.g. after an admin edits the catalog.
	Invalidate(ctx context.Context)
	CacheStats() CacheStats
}

// CacheConfig sizes the read cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: DefaultCacheSize, TTL: DefaultCacheTTL}
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

type service struct {
	repo   repository.Catalog
	cache  *expirable.LRU[string, any]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewService creates a new catalog service
func NewService(repo repository.Catalog, cfg CacheConfig) Service {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	return &service{
		repo:  repo,
		cache: expirable.NewLRU[string, any](cfg.Size, nil, cfg.TTL),
	}
}

// cached returns the value under key, loading it on a miss. Slices are cloned
// so callers cannot mutate the cached copy.
func cached[T any](s *service, key string, load func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if t, ok := v.(T); ok {
			s.hits.Add(1)
			return t, nil
		}
	}
	s.misses.Add(1)
	t, err := load()
	if err != nil {
		return t, err
	}
	s.cache.Add(key, t)
	return t, nil
}

func (s *service) ListPacks(ctx context.Context) ([]domain.Pack, error) {
	packs, err := cached(s, cacheKeyActivePacks, func() ([]domain.Pack, error) {
		packs, err := s.repo.ListActivePacks(ctx)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgListPacksFailed, err)
		}
		return packs, nil
	})
	return slices.Clone(packs), err
}

func (s *service) GetPack(ctx context.Context, packID uuid.UUID) (*domain.Pack, error) {
	pack, err := cached(s, cacheKeyPackPrefix+packID.String(), func() (*domain.Pack, error) {
		pack, err := s.repo.GetPackByID(ctx, packID)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgGetPackFailed, err)
		}
		if pack == nil {
			return nil, domain.ErrPackNotFound
		}
		return pack, nil
	})
	if err != nil {
		return nil, err
	}
	p := *pack
	p.Probabilities = slices.Clone(pack.Probabilities)
	return &p, nil
}

func (s *service) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	achievements, err := cached(s, cacheKeyAchievements, func() ([]domain.Achievement, error) {
		list, err := s.repo.ListAchievements(ctx)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgListAchievementsFailed, err)
		}
		return list, nil
	})
	return slices.Clone(achievements), err
}

func (s *service) Invalidate(ctx context.Context) {
	n := s.cache.Len()
	s.cache.Purge()
	logger.FromContext(ctx).Info(LogMsgCacheInvalidated, "entries", n)
}

func (s *service) CacheStats() CacheStats {
	return CacheStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Size:   s.cache.Len(),
	}
}
