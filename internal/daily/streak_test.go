package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropa-gg/dropa/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreakSoFar(t *testing.T) {
	today := date(2026, 3, 10)

	tests := []struct {
		name string
		last *domain.DailyRewardClaim
		want int
	}{
		{"first claim ever", nil, 0},
		{"claimed yesterday", &domain.DailyRewardClaim{ClaimDate: date(2026, 3, 9), Streak: 4}, 4},
		{"missed a day", &domain.DailyRewardClaim{ClaimDate: date(2026, 3, 8), Streak: 4}, 0},
		{"month boundary", &domain.DailyRewardClaim{ClaimDate: date(2026, 2, 28), Streak: 9}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StreakSoFar(tt.last, today))
		})
	}

	assert.Equal(t, 9, StreakSoFar(&domain.DailyRewardClaim{ClaimDate: date(2026, 2, 28), Streak: 9}, date(2026, 3, 1)))
}

func TestCycleDay(t *testing.T) {
	assert.Equal(t, 1, CycleDay(0, 7))
	assert.Equal(t, 7, CycleDay(6, 7))
	assert.Equal(t, 1, CycleDay(7, 7))
	assert.Equal(t, 3, CycleDay(16, 7))
}

func TestBonusPercent(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{0, 0}, {7, 0}, {8, 10}, {14, 10}, {15, 20}, {30, 20}, {31, 30}, {400, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BonusPercent(tt.streak, DefaultBonusTiers), "streak %d", tt.streak)
	}
}

func TestApplyBonus_RoundsDown(t *testing.T) {
	assert.Equal(t, 27, ApplyBonus(25, 10))
	assert.Equal(t, 25, ApplyBonus(25, 0))
	assert.Equal(t, 32, ApplyBonus(25, 30))
	assert.Equal(t, 1200, ApplyBonus(1000, 20))
}

func TestToday_UsesConfiguredTimezone(t *testing.T) {
	loc, err := LoadLocation(DefaultTimezone)
	require.NoError(t, err)

	// 02:00 UTC is still the previous evening in Sao Paulo
	now := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2026, 3, 9), Today(now, loc))
	assert.Equal(t, date(2026, 3, 10), Today(now, time.UTC))
}

func TestParseBonusTiers(t *testing.T) {
	tiers, err := ParseBonusTiers("8:10, 15:20,31:30")
	require.NoError(t, err)
	assert.Equal(t, DefaultBonusTiers, tiers)

	for _, bad := range []string{"8", "x:10", "8:-1", "15:20,8:10", "8:10,8:20", "0:5"} {
		_, err := ParseBonusTiers(bad)
		assert.ErrorIs(t, err, domain.ErrConfiguration, bad)
	}
}

func TestValidateCycle(t *testing.T) {
	gold := domain.PackGold
	valid := []domain.DailyReward{
		{Day: 1, RewardType: domain.RewardCredits, RewardValue: 25},
		{Day: 2, RewardType: domain.RewardPack, RewardValue: 1, PackType: &gold},
	}
	require.NoError(t, ValidateCycle(valid))

	credits := func(day, value int) domain.DailyReward {
		return domain.DailyReward{Day: day, RewardType: domain.RewardCredits, RewardValue: value}
	}
	tests := []struct {
		name    string
		rewards []domain.DailyReward
	}{
		{"empty", nil},
		{"gap", []domain.DailyReward{credits(1, 1), credits(3, 1)}},
		{"zero value", []domain.DailyReward{credits(1, 0)}},
		{"pack without tier", []domain.DailyReward{{Day: 1, RewardType: domain.RewardPack, RewardValue: 1}}},
		{"unknown type", []domain.DailyReward{{Day: 1, RewardType: "HUGS", RewardValue: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateCycle(tt.rewards), domain.ErrConfiguration)
		})
	}
}
