package progression

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/repository"
)

// Evaluator unlocks achievements whose thresholds the given counters reach.
type Evaluator struct{}

// NewEvaluator creates an achievement evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate unlocks every achievement met by stats (and streak, for
// DAILY_STREAK conditions), adds their XP to stats and recomputes the level.
// Already unlocked achievements are skipped by the repository, so calling it
// twice never grants XP twice.
func (e *Evaluator) Evaluate(ctx context.Context, tx repository.ProgressionTx, stats *domain.UserStats, streak int) ([]domain.Achievement, error) {
	log := logger.FromContext(ctx)

	achievements, err := tx.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListAchievementsFailed, err)
	}

	prevLevel := stats.Level
	var unlocked []domain.Achievement
	for _, a := range achievements {
		value, err := counterFor(a, stats, streak)
		if err != nil {
			return nil, err
		}
		if value < a.Threshold {
			continue
		}

		isNew, err := tx.UnlockAchievement(ctx, stats.UserID, a.ID)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgUnlockAchievementFailed, a.Key, err)
		}
		if !isNew {
			continue
		}

		stats.TotalXP += a.XP
		unlocked = append(unlocked, a)
		log.Info(LogMsgAchievementUnlocked, "user_id", stats.UserID, "achievement", a.Key, "xp", a.XP)
	}

	stats.Level = LevelForXP(stats.TotalXP)
	if stats.Level > prevLevel {
		log.Info(LogMsgLevelUp, "user_id", stats.UserID, "level", stats.Level)
	}
	return unlocked, nil
}

func counterFor(a domain.Achievement, stats *domain.UserStats, streak int) (int, error) {
	switch a.Condition {
	case domain.ConditionPacksOpened:
		return stats.TotalPacksOpened, nil
	case domain.ConditionItemsCollected:
		return stats.TotalItemsCollected, nil
	case domain.ConditionLegendaryFound:
		return stats.LegendaryItemsFound, nil
	case domain.ConditionDailyStreak:
		return streak, nil
	default:
		return 0, fmt.Errorf(ErrMsgUnknownConditionFmt, domain.ErrConfiguration, a.Key, a.Condition)
	}
}

// ExpectedStats derives the stats row the ledger implies for a user.
func ExpectedStats(userID uuid.UUID, actual domain.ActualCounts) domain.UserStats {
	return domain.UserStats{
		UserID:              userID,
		TotalPacksOpened:    actual.PacksOpened,
		TotalItemsCollected: actual.ItemsCollected,
		LegendaryItemsFound: actual.LegendaryFound,
		TotalXP:             actual.AchievementXP,
		Level:               LevelForXP(actual.AchievementXP),
	}
}
