package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dropa-gg/dropa/internal/domain"
)

type MockProgressionTx struct {
	mock.Mock
}

func (m *MockProgressionTx) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Achievement), args.Error(1)
}

func (m *MockProgressionTx) UnlockAchievement(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, achievementID)
	return args.Bool(0), args.Error(1)
}

var (
	firstPack = domain.Achievement{ID: uuid.New(), Key: "first_pack", XP: 100, Condition: domain.ConditionPacksOpened, Threshold: 1}
	weekly    = domain.Achievement{ID: uuid.New(), Key: "streak_7", XP: 50, Condition: domain.ConditionDailyStreak, Threshold: 7}
	legend    = domain.Achievement{ID: uuid.New(), Key: "first_legend", XP: 500, Condition: domain.ConditionLegendaryFound, Threshold: 1}
)

func TestEvaluate_UnlocksNewAchievements(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tx := new(MockProgressionTx)
	tx.On("ListAchievements", ctx).Return([]domain.Achievement{firstPack, weekly, legend}, nil)
	tx.On("UnlockAchievement", ctx, userID, firstPack.ID).Return(true, nil)
	tx.On("UnlockAchievement", ctx, userID, weekly.ID).Return(false, nil)

	stats := &domain.UserStats{UserID: userID, TotalPacksOpened: 1, TotalItemsCollected: 1}
	unlocked, err := NewEvaluator().Evaluate(ctx, tx, stats, 7)

	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_pack", unlocked[0].Key)
	assert.Equal(t, 100, stats.TotalXP)
	assert.Equal(t, 1, stats.Level)
	tx.AssertNotCalled(t, "UnlockAchievement", ctx, userID, legend.ID)
	tx.AssertExpectations(t)
}

func TestEvaluate_NothingReached(t *testing.T) {
	ctx := context.Background()
	tx := new(MockProgressionTx)
	tx.On("ListAchievements", ctx).Return([]domain.Achievement{firstPack, legend}, nil)

	stats := &domain.UserStats{UserID: uuid.New(), TotalXP: 400}
	unlocked, err := NewEvaluator().Evaluate(ctx, tx, stats, 0)

	require.NoError(t, err)
	assert.Empty(t, unlocked)
	assert.Equal(t, 400, stats.TotalXP)
	assert.Equal(t, 2, stats.Level, "level follows XP even without unlocks")
}

func TestEvaluate_UnknownCondition(t *testing.T) {
	ctx := context.Background()
	tx := new(MockProgressionTx)
	bad := domain.Achievement{ID: uuid.New(), Key: "mystery", Condition: "SPENT_CREDITS", Threshold: 1}
	tx.On("ListAchievements", ctx).Return([]domain.Achievement{bad}, nil)

	_, err := NewEvaluator().Evaluate(ctx, tx, &domain.UserStats{UserID: uuid.New()}, 0)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestEvaluate_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	t.Run("list", func(t *testing.T) {
		tx := new(MockProgressionTx)
		tx.On("ListAchievements", ctx).Return(nil, dbErr)
		_, err := NewEvaluator().Evaluate(ctx, tx, &domain.UserStats{}, 0)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("unlock", func(t *testing.T) {
		userID := uuid.New()
		tx := new(MockProgressionTx)
		tx.On("ListAchievements", ctx).Return([]domain.Achievement{firstPack}, nil)
		tx.On("UnlockAchievement", ctx, userID, firstPack.ID).Return(false, dbErr)
		_, err := NewEvaluator().Evaluate(ctx, tx, &domain.UserStats{UserID: userID, TotalPacksOpened: 3}, 0)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestExpectedStats(t *testing.T) {
	userID := uuid.New()
	got := ExpectedStats(userID, domain.ActualCounts{PacksOpened: 4, ItemsCollected: 6, LegendaryFound: 1, AchievementXP: 382})

	assert.Equal(t, domain.UserStats{
		UserID:              userID,
		TotalPacksOpened:    4,
		TotalItemsCollected: 6,
		LegendaryItemsFound: 1,
		TotalXP:             382,
		Level:               2,
	}, got)
}
