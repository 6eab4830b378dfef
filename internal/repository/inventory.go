package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

// SelectionTx is what the item selector needs inside a transaction.
type SelectionTx interface {
	// ListItemsByRarity returns active items of a rarity with their current
	// scarcity state.
	ListItemsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Item, error)
	// ListOwnedItemIDs returns the subset of itemIDs the user already owns.
	ListOwnedItemIDs(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	// ClaimUniqueItem sets the unique owner if still unset. False means another
	// transaction won the item.
	ClaimUniqueItem(ctx context.Context, itemID, userID uuid.UUID) (bool, error)
	// MintEdition increments the edition counter if below the cap. False means
	// the edition sold out.
	MintEdition(ctx context.Context, itemID uuid.UUID) (bool, error)
}

// ProgressionTx reads and unlocks achievements inside a transaction.
type ProgressionTx interface {
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
	// UnlockAchievement returns false when the user already had it.
	UnlockAchievement(ctx context.Context, userID, achievementID uuid.UUID) (bool, error)
}

// StatsTx locks and rewrites the cached stats row.
type StatsTx interface {
	// GetStatsForUpdate row-locks the user's stats, creating the row if missing.
	GetStatsForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
	UpdateStats(ctx context.Context, stats *domain.UserStats) error
}

// AuditTx appends audit entries inside a transaction.
type AuditTx interface {
	AppendAudit(ctx context.Context, entry *domain.AuditEntry) error
}

// GrantTx is the shared surface of every path that hands items to users.
type GrantTx interface {
	Tx
	SelectionTx
	ProgressionTx
	StatsTx
	AuditTx
	InsertUserItem(ctx context.Context, item *domain.UserItem, unique bool) error
}
