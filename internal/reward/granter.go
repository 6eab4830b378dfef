// Package reward is the item-granting pipeline shared by pack opens and daily
// rewards: rarity draw, item selection, inventory insert and stats update.
package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/progression"
	"github.com/dropa-gg/dropa/internal/rarity"
	"github.com/dropa-gg/dropa/internal/repository"
	"github.com/dropa-gg/dropa/internal/selector"
)

// Granter draws items and applies their stats inside a caller's transaction.
type Granter struct {
	resolver  *rarity.Resolver
	selector  *selector.Selector
	evaluator *progression.Evaluator
	now       func() time.Time
}

// NewGranter creates a granter
func NewGranter(resolver *rarity.Resolver, sel *selector.Selector, evaluator *progression.Evaluator) *Granter {
	return &Granter{
		resolver:  resolver,
		selector:  sel,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// Draw resolves a rarity from table and selects the item for userID. The
// selector's scarcity side effects are already applied when it returns; the
// ledger row is written by Deliver.
func (g *Granter) Draw(ctx context.Context, tx repository.SelectionTx, table []domain.PackProbability, userID uuid.UUID) (*domain.GrantedItem, error) {
	rolled, err := g.resolver.Resolve(table)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgResolveRarityFailed, err)
	}

	item, trace, err := g.selector.Select(ctx, tx, rolled, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSelectItemFailed, err)
	}

	return &domain.GrantedItem{
		Item:   *item,
		Rarity: rolled,
		UserItem: domain.UserItem{
			ID:         uuid.New(),
			UserID:     userID,
			ItemID:     item.ID,
			ObtainedAt: g.now(),
		},
		Trace: trace,
	}, nil
}

// Deliver writes the inventory row of a drawn item.
func (g *Granter) Deliver(ctx context.Context, tx repository.GrantTx, granted *domain.GrantedItem, source domain.Source) error {
	granted.UserItem.Source = source
	if err := tx.InsertUserItem(ctx, &granted.UserItem, granted.Item.IsUnique()); err != nil {
		return fmt.Errorf(ErrMsgInsertUserItem, err)
	}
	return nil
}

// DeltaFor counts delivered items. Legendary is judged by the delivered item's
// rarity so the cached row matches a recount of user_items.
func DeltaFor(items []domain.GrantedItem, packsOpened int) domain.StatsDelta {
	delta := domain.StatsDelta{PacksOpened: packsOpened, ItemsCollected: len(items)}
	for _, it := range items {
		if it.Item.Rarity == domain.RarityLendario {
			delta.LegendaryFound++
		}
	}
	return delta
}

// ApplyStats locks the user's stats row, applies delta, unlocks achievements
// and writes the row back. The returned delta includes the XP gained.
func (g *Granter) ApplyStats(ctx context.Context, tx repository.GrantTx, userID uuid.UUID, delta domain.StatsDelta, streak int) (*domain.UserStats, domain.StatsDelta, []domain.Achievement, error) {
	stats, err := tx.GetStatsForUpdate(ctx, userID)
	if err != nil {
		return nil, delta, nil, fmt.Errorf(ErrMsgLockStatsFailed, err)
	}

	stats.Apply(delta)
	xpBefore := stats.TotalXP
	unlocked, err := g.evaluator.Evaluate(ctx, tx, stats, streak)
	if err != nil {
		return nil, delta, nil, fmt.Errorf(ErrMsgEvaluateFailed, err)
	}
	delta.XP = stats.TotalXP - xpBefore

	if err := tx.UpdateStats(ctx, stats); err != nil {
		return nil, delta, nil, fmt.Errorf(ErrMsgUpdateStatsFailed, err)
	}
	return stats, delta, unlocked, nil
}
