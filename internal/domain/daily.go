package domain

import (
	"time"

	"github.com/google/uuid"
)

// RewardType is what a daily reward grants.
type RewardType string

const (
	RewardCredits RewardType = "CREDITS"
	RewardPack    RewardType = "PACK"
	RewardItems   RewardType = "ITEMS"
)

// DailyReward is one slot of the repeating reward cycle.
type DailyReward struct {
	ID          uuid.UUID  `json:"id"`
	Day         int        `json:"day"`
	RewardType  RewardType `json:"reward_type"`
	RewardValue int        `json:"reward_value"`
	PackType    *PackType  `json:"pack_type,omitempty"`
	Description string     `json:"description"`
}

// DailyRewardClaim is a write-once claim record. Streak is the streak length
// reached by this claim.
type DailyRewardClaim struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	RewardID     uuid.UUID `json:"reward_id"`
	ClaimDate    time.Time `json:"claim_date"`
	Streak       int       `json:"streak"`
	CycleDay     int       `json:"cycle_day"`
	BonusPercent int       `json:"bonus_percent"`
	GrantedValue int       `json:"granted_value"`
	ClaimedAt    time.Time `json:"claimed_at"`
}

// DailyStatus is the read-only view of today's claim.
type DailyStatus struct {
	CurrentStreak  int         `json:"current_streak"`
	CycleDay       int         `json:"cycle_day"`
	CycleLength    int         `json:"cycle_length"`
	Reward         DailyReward `json:"reward"`
	BonusPercent   int         `json:"bonus_percent"`
	EffectiveValue int         `json:"effective_value"`
	Description    string      `json:"description"`
	CanClaim       bool        `json:"can_claim"`
	ClaimedToday   bool        `json:"claimed_today"`
	Today          time.Time   `json:"today"`
}

// DailyClaimResult is what a successful claim granted.
type DailyClaimResult struct {
	Claim                DailyRewardClaim `json:"claim"`
	Reward               DailyReward      `json:"reward"`
	Description          string           `json:"description"`
	NewCreditBalance     int              `json:"new_credit_balance"`
	Grants               []PackGrant      `json:"grants,omitempty"`
	Items                []GrantedItem    `json:"items,omitempty"`
	Stats                UserStats        `json:"stats"`
	UnlockedAchievements []Achievement    `json:"unlocked_achievements,omitempty"`
}
