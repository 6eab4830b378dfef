package daily

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/progression"
	"github.com/dropa-gg/dropa/internal/rarity"
	"github.com/dropa-gg/dropa/internal/reward"
	"github.com/dropa-gg/dropa/internal/selector"
	"github.com/dropa-gg/dropa/internal/testing/memrepo"
)

type fixture struct {
	store *memrepo.Store
	svc   Service
	user  domain.User
}

// 15:00 in Sao Paulo on 2026-03-10
var fixedNow = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, rewards ...domain.DailyReward) *fixture {
	t.Helper()
	store := memrepo.New()
	user := domain.User{ID: uuid.New(), Username: "ana", Credits: 100}
	store.AddUser(user)
	for _, r := range rewards {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		store.AddDailyReward(r)
	}

	sel, err := selector.New(selector.DefaultConfig())
	require.NoError(t, err)
	granter := reward.NewGranter(rarity.NewResolver(rand.Float64), sel, progression.NewEvaluator())

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Now = func() time.Time { return fixedNow }

	svc, err := NewService(store.Daily(), granter, audit.NewService(store.Audit()), cfg)
	require.NoError(t, err)
	return &fixture{store: store, svc: svc, user: user}
}

func creditsDay(day, value int) domain.DailyReward {
	return domain.DailyReward{Day: day, RewardType: domain.RewardCredits, RewardValue: value}
}

func weekOfCredits() []domain.DailyReward {
	return []domain.DailyReward{
		creditsDay(1, 25), creditsDay(2, 50), creditsDay(3, 75), creditsDay(4, 100),
		creditsDay(5, 150), creditsDay(6, 200), creditsDay(7, 500),
	}
}

func (f *fixture) claimedOn(day time.Time, streak int) {
	f.store.AddClaim(domain.DailyRewardClaim{
		ID:        uuid.New(),
		UserID:    f.user.ID,
		ClaimDate: day,
		Streak:    streak,
		CycleDay:  (streak-1)%7 + 1,
	})
}

func TestClaim_FirstClaim(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)

	result, err := f.svc.Claim(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Claim.Streak)
	assert.Equal(t, 1, result.Claim.CycleDay)
	assert.Equal(t, 25, result.Claim.GrantedValue)
	assert.Equal(t, date(2026, 3, 10), result.Claim.ClaimDate)
	assert.Equal(t, 125, result.NewCreditBalance)
	assert.Equal(t, 125, f.store.User(f.user.ID).Credits)
	assert.Equal(t, "25 créditos", result.Description)

	entries := f.store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionDailyRewardClaimed, entries[0].Action)
	assert.Equal(t, domain.SourceDailyReward, entries[0].Source)
	assert.True(t, entries[0].Success)
}

func TestClaim_StreakBonusRoundsDown(t *testing.T) {
	f := newFixture(t,
		creditsDay(1, 10), creditsDay(2, 15), creditsDay(3, 20), creditsDay(4, 25),
		creditsDay(5, 30), creditsDay(6, 40), creditsDay(7, 50),
	)
	f.claimedOn(date(2026, 3, 9), 10)

	result, err := f.svc.Claim(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.Equal(t, 11, result.Claim.Streak)
	assert.Equal(t, 4, result.Claim.CycleDay)
	assert.Equal(t, 10, result.Claim.BonusPercent)
	assert.Equal(t, 27, result.Claim.GrantedValue, "25 * 1.10 floored")
	assert.Equal(t, 127, result.NewCreditBalance)
}

func TestClaim_ContinuesAndWrapsCycle(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)
	f.claimedOn(date(2026, 3, 9), 3)

	result, err := f.svc.Claim(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Claim.Streak)
	assert.Equal(t, 4, result.Claim.CycleDay)
	assert.Equal(t, 100, result.Claim.GrantedValue)

	g := newFixture(t, weekOfCredits()...)
	g.claimedOn(date(2026, 3, 9), 7)

	result, err = g.svc.Claim(context.Background(), g.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Claim.Streak)
	assert.Equal(t, 1, result.Claim.CycleDay)
	assert.Zero(t, result.Claim.BonusPercent, "bonus is based on the streak carried in")
	assert.Equal(t, 25, result.Claim.GrantedValue)
}

func TestClaim_StreakResetsAfterMissedDay(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)
	f.claimedOn(date(2026, 3, 8), 20)

	result, err := f.svc.Claim(context.Background(), f.user.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Claim.Streak)
	assert.Equal(t, 1, result.Claim.CycleDay)
	assert.Zero(t, result.Claim.BonusPercent)
}

func TestClaim_AlreadyClaimedToday(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)

	_, err := f.svc.Claim(context.Background(), f.user.ID)
	require.NoError(t, err)

	_, err = f.svc.Claim(context.Background(), f.user.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyClaimedToday)

	assert.Len(t, f.store.Claims(f.user.ID), 1)
	assert.Equal(t, 125, f.store.User(f.user.ID).Credits)

	entries := f.store.AuditEntries()
	require.Len(t, entries, 2)
	assert.False(t, entries[1].Success)
	assert.Contains(t, entries[1].Error, domain.ErrMsgAlreadyClaimedToday)
}

func TestClaim_ConcurrentClaimsGrantOnce(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Claim(context.Background(), f.user.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, domain.ErrAlreadyClaimedToday) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 7, rejected)
	assert.Equal(t, 125, f.store.User(f.user.ID).Credits)
}

func TestClaim_PackReward(t *testing.T) {
	gold := domain.PackGold
	f := newFixture(t, domain.DailyReward{Day: 1, RewardType: domain.RewardPack, RewardValue: 2, PackType: &gold})

	result, err := f.svc.Claim(context.Background(), f.user.ID)

	require.NoError(t, err)
	require.Len(t, result.Grants, 2)
	for _, g := range f.store.Grants(f.user.ID) {
		assert.Equal(t, domain.PackGold, g.PackType)
		assert.Equal(t, domain.SourceDailyReward, g.Source)
		assert.False(t, g.IsClaimed())
	}
	assert.Equal(t, 100, result.NewCreditBalance)
	assert.Equal(t, "2 pacotes Ouro", result.Description)
}

func TestClaim_ItemsReward(t *testing.T) {
	silver := domain.PackSilver
	f := newFixture(t, domain.DailyReward{Day: 1, RewardType: domain.RewardItems, RewardValue: 3, PackType: &silver})
	coin := domain.Item{ID: uuid.New(), Name: "coin", Rarity: domain.RarityIncomum, ScarcityLevel: domain.ScarcityCommon, IsActive: true}
	f.store.AddItem(coin)
	f.store.AddPack(domain.Pack{ID: uuid.New(), Name: "Silver", Type: domain.PackSilver, Price: 200, IsActive: true,
		Probabilities: []domain.PackProbability{{Rarity: domain.RarityIncomum, Percentage: 100}}})

	result, err := f.svc.Claim(context.Background(), f.user.ID)

	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	items := f.store.UserItems(f.user.ID)
	require.Len(t, items, 3)
	for _, ui := range items {
		assert.Equal(t, domain.SourceDailyReward, ui.Source)
		require.NotNil(t, ui.DailyClaimID)
		assert.Equal(t, result.Claim.ID, *ui.DailyClaimID)
		assert.Nil(t, ui.PackOpeningID)
	}

	stats := f.store.Stats(f.user.ID)
	assert.Equal(t, 3, stats.TotalItemsCollected)
	assert.Zero(t, stats.TotalPacksOpened, "item rewards are not pack opens")
	assert.Equal(t, 100, f.store.User(f.user.ID).Credits)
}

func TestClaim_ItemsRewardWithoutPackRollsBack(t *testing.T) {
	silver := domain.PackSilver
	f := newFixture(t, domain.DailyReward{Day: 1, RewardType: domain.RewardItems, RewardValue: 1, PackType: &silver})

	_, err := f.svc.Claim(context.Background(), f.user.ID)

	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, f.store.Claims(f.user.ID), "claim row rolled back")
}

func TestClaim_StreakAchievement(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)
	f.store.AddAchievement(domain.Achievement{ID: uuid.New(), Key: "week_streak", Name: "Week", XP: 200, Condition: domain.ConditionDailyStreak, Threshold: 7})
	f.claimedOn(date(2026, 3, 9), 6)

	result, err := f.svc.Claim(context.Background(), f.user.ID)

	require.NoError(t, err)
	require.Len(t, result.UnlockedAchievements, 1)
	assert.Equal(t, "week_streak", result.UnlockedAchievements[0].Key)
	assert.Equal(t, 200, result.Stats.TotalXP)
	assert.Equal(t, progression.LevelForXP(200), result.Stats.Level)
}

func TestClaim_BrokenCycle(t *testing.T) {
	f := newFixture(t, creditsDay(1, 10), creditsDay(3, 10))

	_, err := f.svc.Claim(context.Background(), f.user.ID)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestClaim_UnknownUser(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)

	_, err := f.svc.Claim(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetTodayStatus(t *testing.T) {
	f := newFixture(t, weekOfCredits()...)
	f.claimedOn(date(2026, 3, 9), 9)

	status, err := f.svc.GetTodayStatus(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.True(t, status.CanClaim)
	assert.False(t, status.ClaimedToday)
	assert.Equal(t, 9, status.CurrentStreak)
	assert.Equal(t, 3, status.CycleDay)
	assert.Equal(t, 7, status.CycleLength)
	assert.Equal(t, 10, status.BonusPercent)
	assert.Equal(t, 82, status.EffectiveValue)

	result, err := f.svc.Claim(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, status.EffectiveValue, result.Claim.GrantedValue)

	status, err = f.svc.GetTodayStatus(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.False(t, status.CanClaim)
	assert.True(t, status.ClaimedToday)
	assert.Equal(t, 10, status.CurrentStreak)
	assert.Equal(t, 82, status.EffectiveValue)
}
