package selector

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/mroth/weightedrand/v2"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/metrics"
	"github.com/dropa-gg/dropa/internal/repository"
)

// Config controls scarcity weighting and the fallback chain.
type Config struct {
	// ScarcityWeights weighs items inside one rarity pool. A zero weight keeps
	// the level out of the strict and downgrade stages.
	ScarcityWeights  map[domain.ScarcityLevel]int
	Fallback         []Stage
	MaxClaimAttempts int

	// Source drives the weighted pick. Nil uses the global generator.
	Source *rand.Rand
}

// DefaultConfig returns the documented default chain:
// strict, then lower rarities, then any item of the rolled rarity.
func DefaultConfig() Config {
	return Config{
		ScarcityWeights: map[domain.ScarcityLevel]int{
			domain.ScarcityCommon:    100,
			domain.ScarcityUncommon:  60,
			domain.ScarcityRare:      30,
			domain.ScarcityLegendary: 10,
			domain.ScarcityUnique:    3,
		},
		Fallback:         []Stage{StageDowngrade, StageAnySameRarity},
		MaxClaimAttempts: DefaultMaxClaimAttempts,
	}
}

// ParseStages converts configured stage names, rejecting unknown ones.
func ParseStages(names []string) ([]Stage, error) {
	stages := make([]Stage, 0, len(names))
	for _, n := range names {
		switch s := Stage(n); s {
		case StageStrict:
			// strict always runs first
		case StageDowngrade, StageAnySameRarity:
			stages = append(stages, s)
		default:
			return nil, fmt.Errorf(ErrMsgUnknownStageFmt, domain.ErrConfiguration, n)
		}
	}
	return stages, nil
}

// Selector picks a concrete item for a rolled rarity and applies the
// scarcity side effects inside the caller's transaction.
type Selector struct {
	cfg Config

	srcMu sync.Mutex
}

// New creates a selector.
func New(cfg Config) (*Selector, error) {
	if cfg.MaxClaimAttempts <= 0 {
		cfg.MaxClaimAttempts = DefaultMaxClaimAttempts
	}
	for _, s := range cfg.Fallback {
		if s != StageDowngrade && s != StageAnySameRarity {
			return nil, fmt.Errorf(ErrMsgUnknownStageFmt, domain.ErrConfiguration, s)
		}
	}
	if cfg.ScarcityWeights == nil {
		cfg.ScarcityWeights = DefaultConfig().ScarcityWeights
	}
	return &Selector{cfg: cfg}, nil
}

// selection carries per-call state: item pools read once and items excluded
// after a lost race.
type selection struct {
	tx       repository.SelectionTx
	userID   uuid.UUID
	pools    map[domain.Rarity][]domain.Item
	owned    map[uuid.UUID]bool
	excluded map[uuid.UUID]bool
}

// Select returns the item granted for rarity. A lost race for a unique item or
// a last edition excludes that item and re-picks; when every re-pick loses,
// domain.ErrConcurrencyConflict is returned so the caller can retry the open.
func (s *Selector) Select(ctx context.Context, tx repository.SelectionTx, rarity domain.Rarity, userID uuid.UUID) (*domain.Item, domain.DrawTrace, error) {
	log := logger.FromContext(ctx)
	trace := domain.DrawTrace{RolledRarity: rarity}

	sel := &selection{
		tx:       tx,
		userID:   userID,
		pools:    make(map[domain.Rarity][]domain.Item),
		excluded: make(map[uuid.UUID]bool),
	}

	for attempt := 0; attempt < s.cfg.MaxClaimAttempts; attempt++ {
		item, stage, err := s.pick(ctx, sel, rarity)
		if err != nil {
			if errors.Is(err, domain.ErrConfiguration) && trace.ClaimConflicts > 0 {
				return nil, trace, fmt.Errorf(ErrMsgClaimExhaustedFmt, domain.ErrConcurrencyConflict, trace.ClaimConflicts, rarity)
			}
			return nil, trace, err
		}

		won, kind, err := s.claim(ctx, tx, item, userID)
		if err != nil {
			return nil, trace, err
		}
		if !won {
			trace.ClaimConflicts++
			sel.excluded[item.ID] = true
			metrics.ScarcityConflicts.WithLabelValues(kind).Inc()
			log.Info(LogMsgScarcityRaceLost, "item_id", item.ID, "kind", kind, "attempt", attempt+1)
			continue
		}

		trace.Stage = string(stage)
		if stage != StageStrict {
			metrics.SelectorFallbacks.WithLabelValues(string(stage)).Inc()
			log.Info(LogMsgFallbackUsed, "stage", stage, "rolled_rarity", rarity, "item_rarity", item.Rarity)
		}
		return item, trace, nil
	}

	return nil, trace, fmt.Errorf(ErrMsgClaimExhaustedFmt, domain.ErrConcurrencyConflict, trace.ClaimConflicts, rarity)
}

// pick walks strict, then the configured fallback stages in order.
func (s *Selector) pick(ctx context.Context, sel *selection, rarity domain.Rarity) (*domain.Item, Stage, error) {
	item, err := s.pickEligible(ctx, sel, rarity)
	if err != nil || item != nil {
		return item, StageStrict, err
	}

	for _, stage := range s.cfg.Fallback {
		switch stage {
		case StageDowngrade:
			for idx := rarity.Index() - 1; idx >= 0; idx-- {
				item, err := s.pickEligible(ctx, sel, domain.RarityOrder[idx])
				if err != nil || item != nil {
					return item, stage, err
				}
			}
		case StageAnySameRarity:
			item, err := s.pickLastResort(ctx, sel, rarity)
			if err != nil || item != nil {
				if item != nil {
					logger.FromContext(ctx).Warn(LogMsgCatalogGap, "rarity", rarity, "item_id", item.ID)
				}
				return item, stage, err
			}
		}
	}

	return nil, "", fmt.Errorf(ErrMsgNoEligibleItemsFmt, domain.ErrConfiguration, rarity)
}

// pickEligible draws a scarcity-weighted item among fully eligible candidates.
func (s *Selector) pickEligible(ctx context.Context, sel *selection, rarity domain.Rarity) (*domain.Item, error) {
	pool, err := sel.pool(ctx, rarity)
	if err != nil {
		return nil, err
	}
	owned, err := sel.ownedAmong(ctx, pool)
	if err != nil {
		return nil, err
	}

	choices := make([]weightedrand.Choice[domain.Item, int], 0, len(pool))
	for _, item := range pool {
		if !sel.available(item) {
			continue
		}
		if item.SingleOwnership && owned[item.ID] {
			continue
		}
		weight := s.cfg.ScarcityWeights[item.ScarcityLevel]
		if weight <= 0 {
			continue
		}
		choices = append(choices, weightedrand.NewChoice(item, weight))
	}
	return s.choose(choices)
}

// pickLastResort draws uniformly among items that still respect the hard
// invariants: unclaimed uniques and editions below their cap.
func (s *Selector) pickLastResort(ctx context.Context, sel *selection, rarity domain.Rarity) (*domain.Item, error) {
	pool, err := sel.pool(ctx, rarity)
	if err != nil {
		return nil, err
	}

	choices := make([]weightedrand.Choice[domain.Item, int], 0, len(pool))
	for _, item := range pool {
		if sel.available(item) {
			choices = append(choices, weightedrand.NewChoice(item, 1))
		}
	}
	return s.choose(choices)
}

// claim applies the scarcity side effect for the picked item. kind names the
// race that was lost when won is false.
func (s *Selector) claim(ctx context.Context, tx repository.SelectionTx, item *domain.Item, userID uuid.UUID) (won bool, kind string, err error) {
	switch {
	case item.IsUnique():
		won, err = tx.ClaimUniqueItem(ctx, item.ID, userID)
		if err != nil {
			return false, ConflictKindUnique, fmt.Errorf(ErrMsgClaimUniqueFailed, err)
		}
		return won, ConflictKindUnique, nil
	case item.IsLimitedEdition:
		won, err = tx.MintEdition(ctx, item.ID)
		if err != nil {
			return false, ConflictKindEdition, fmt.Errorf(ErrMsgMintEditionFailed, err)
		}
		return won, ConflictKindEdition, nil
	default:
		return true, "", nil
	}
}

func (s *Selector) choose(choices []weightedrand.Choice[domain.Item, int]) (*domain.Item, error) {
	if len(choices) == 0 {
		return nil, nil
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgChooserFailed, err)
	}
	if s.cfg.Source == nil {
		item := chooser.Pick()
		return &item, nil
	}
	s.srcMu.Lock()
	item := chooser.PickSource(s.cfg.Source)
	s.srcMu.Unlock()
	return &item, nil
}

func (sel *selection) pool(ctx context.Context, rarity domain.Rarity) ([]domain.Item, error) {
	if items, ok := sel.pools[rarity]; ok {
		return items, nil
	}
	items, err := sel.tx.ListItemsByRarity(ctx, rarity)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListItemsFailed, err)
	}
	sel.pools[rarity] = items
	return items, nil
}

// ownedAmong loads which single-ownership items of the pool the user holds.
func (sel *selection) ownedAmong(ctx context.Context, pool []domain.Item) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	for _, item := range pool {
		if item.SingleOwnership {
			if _, known := sel.owned[item.ID]; !known {
				ids = append(ids, item.ID)
			}
		}
	}
	if sel.owned == nil {
		sel.owned = make(map[uuid.UUID]bool)
	}
	if len(ids) == 0 {
		return sel.owned, nil
	}

	owned, err := sel.tx.ListOwnedItemIDs(ctx, sel.userID, ids)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListOwnedFailed, err)
	}
	for _, id := range ids {
		sel.owned[id] = owned[id]
	}
	return sel.owned, nil
}

// available applies the hard scarcity filters and lost-race exclusions.
func (sel *selection) available(item domain.Item) bool {
	if sel.excluded[item.ID] {
		return false
	}
	return !item.IsClaimed() && !item.IsSoldOut()
}
