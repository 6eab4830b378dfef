package domain

import (
	"time"

	"github.com/google/uuid"
)

// AchievementCondition names the counter an achievement watches.
type AchievementCondition string

const (
	ConditionPacksOpened    AchievementCondition = "PACKS_OPENED"
	ConditionItemsCollected AchievementCondition = "ITEMS_COLLECTED"
	ConditionLegendaryFound AchievementCondition = "LEGENDARY_FOUND"
	ConditionDailyStreak    AchievementCondition = "DAILY_STREAK"
)

// Achievement is admin-configured. XP is granted once, on unlock.
type Achievement struct {
	ID        uuid.UUID            `json:"id"`
	Key       string               `json:"key"`
	Name      string               `json:"name"`
	XP        int                  `json:"xp"`
	Condition AchievementCondition `json:"condition"`
	Threshold int                  `json:"threshold"`
}

// UserAchievement is an unlock record.
type UserAchievement struct {
	UserID        uuid.UUID `json:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}
