package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a collectible. Rarity drives draws, ScarcityLevel drives supply.
type Item struct {
	ID               uuid.UUID     `json:"id"`
	Name             string        `json:"name"`
	Rarity           Rarity        `json:"rarity"`
	Value            int           `json:"value"`
	ScarcityLevel    ScarcityLevel `json:"scarcity_level"`
	IsLimitedEdition bool          `json:"is_limited_edition"`
	MaxEditions      *int          `json:"max_editions,omitempty"`
	CurrentEditions  int           `json:"current_editions"`
	UniqueOwnerID    *uuid.UUID    `json:"unique_owner_id,omitempty"`
	// SingleOwnership limits every user to one copy of the item.
	SingleOwnership bool `json:"single_ownership"`
	IsActive        bool `json:"is_active"`
}

// IsUnique reports whether at most one owner may ever hold the item.
func (i *Item) IsUnique() bool {
	return i.ScarcityLevel == ScarcityUnique
}

// IsClaimed reports whether a unique item already has its owner.
func (i *Item) IsClaimed() bool {
	return i.IsUnique() && i.UniqueOwnerID != nil
}

// IsSoldOut reports whether a limited edition has minted every copy.
func (i *Item) IsSoldOut() bool {
	return i.IsLimitedEdition && i.MaxEditions != nil && i.CurrentEditions >= *i.MaxEditions
}

// PackProbability is one row of a pack's rarity table.
type PackProbability struct {
	Rarity     Rarity  `json:"rarity"`
	Percentage float64 `json:"percentage"`
}

// Pack is a purchasable bundle yielding one item per open.
type Pack struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Type          PackType          `json:"type"`
	Price         int               `json:"price"`
	IsActive      bool              `json:"is_active"`
	Probabilities []PackProbability `json:"probabilities"`
}

// UserItem is an inventory ledger row.
type UserItem struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ItemID        uuid.UUID  `json:"item_id"`
	PackOpeningID *uuid.UUID `json:"pack_opening_id,omitempty"`
	DailyClaimID  *uuid.UUID `json:"daily_claim_id,omitempty"`
	Source        Source     `json:"source"`
	ObtainedAt    time.Time  `json:"obtained_at"`
}

// OwnedItem joins a ledger row with its catalog item for inventory reads.
type OwnedItem struct {
	UserItem
	Item Item `json:"item"`
}

// PackOpening is the source-of-truth record of one pack open.
type PackOpening struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	PackID       uuid.UUID  `json:"pack_id"`
	ItemID       uuid.UUID  `json:"item_id"`
	GrantID      *uuid.UUID `json:"grant_id,omitempty"`
	CreditsSpent int        `json:"credits_spent"`
	Source       Source     `json:"source"`
	OpenedAt     time.Time  `json:"opened_at"`
}

// GrantedItem describes one item handed to a user by a draw.
type GrantedItem struct {
	Item     Item      `json:"item"`
	Rarity   Rarity    `json:"rarity"`
	UserItem UserItem  `json:"user_item"`
	Trace    DrawTrace `json:"trace"`
}

// DrawTrace records how the selector reached its item.
type DrawTrace struct {
	RolledRarity   Rarity `json:"rolled_rarity"`
	Stage          string `json:"stage"`
	ClaimConflicts int    `json:"claim_conflicts"`
}

// OpenResult is returned by every pack-opening path.
type OpenResult struct {
	OpeningID            uuid.UUID     `json:"opening_id"`
	PackID               uuid.UUID     `json:"pack_id"`
	PackType             PackType      `json:"pack_type"`
	Item                 Item          `json:"item"`
	Rarity               Rarity        `json:"rarity"`
	NewCreditBalance     int           `json:"new_credit_balance"`
	CreditsSpent         int           `json:"credits_spent"`
	StatsDelta           StatsDelta    `json:"stats_delta"`
	Stats                UserStats     `json:"stats"`
	UnlockedAchievements []Achievement `json:"unlocked_achievements,omitempty"`
	Source               Source        `json:"source"`
	Trace                DrawTrace     `json:"trace"`
}
