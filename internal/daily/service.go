package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/metrics"
	"github.com/dropa-gg/dropa/internal/rarity"
	"github.com/dropa-gg/dropa/internal/repository"
	"github.com/dropa-gg/dropa/internal/reward"
)

// Service defines the daily reward operations
type Service interface {
	GetTodayStatus(ctx context.Context, userID uuid.UUID) (*domain.DailyStatus, error)
	Claim(ctx context.Context, userID uuid.UUID) (*domain.DailyClaimResult, error)
}

// Config holds the daily cycle settings
type Config struct {
	Location   *time.Location
	BonusTiers []BonusTier
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// DefaultConfig returns the Sao Paulo calendar with the default bonus tiers
func DefaultConfig() (Config, error) {
	loc, err := LoadLocation(DefaultTimezone)
	if err != nil {
		return Config{}, err
	}
	return Config{Location: loc, BonusTiers: DefaultBonusTiers}, nil
}

// LoadLocation wraps time.LoadLocation with a configuration error.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadLocationFailed, domain.ErrConfiguration, name)
	}
	return loc, nil
}

type service struct {
	repo    repository.Daily
	granter *reward.Granter
	audit   audit.Service
	loc     *time.Location
	tiers   []BonusTier
	now     func() time.Time
}

// NewService creates a new daily reward service
func NewService(repo repository.Daily, granter *reward.Granter, auditSvc audit.Service, cfg Config) (Service, error) {
	if err := validateBonusTiers(cfg.BonusTiers); err != nil {
		return nil, err
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    repo,
		granter: granter,
		audit:   auditSvc,
		loc:     loc,
		tiers:   cfg.BonusTiers,
		now:     now,
	}, nil
}

// plan is the claim a user would make today.
type plan struct {
	streakSoFar int
	cycleDay    int
	cycleLength int
	reward      domain.DailyReward
	bonusPct    int
	value       int
}

func (s *service) makePlan(rewards []domain.DailyReward, last *domain.DailyRewardClaim, today time.Time) plan {
	p := plan{cycleLength: len(rewards)}
	p.streakSoFar = StreakSoFar(last, today)
	p.cycleDay = CycleDay(p.streakSoFar, p.cycleLength)
	p.reward = rewards[p.cycleDay-1]
	p.bonusPct = effectiveBonus(p.reward, BonusPercent(p.streakSoFar, s.tiers))
	p.value = ApplyBonus(p.reward.RewardValue, p.bonusPct)
	return p
}

func (s *service) loadCycle(ctx context.Context) ([]domain.DailyReward, error) {
	rewards, err := s.repo.ListDailyRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListRewardsFailed, err)
	}
	if err := ValidateCycle(rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (s *service) GetTodayStatus(ctx context.Context, userID uuid.UUID) (*domain.DailyStatus, error) {
	rewards, err := s.loadCycle(ctx)
	if err != nil {
		return nil, err
	}
	last, err := s.repo.GetLastClaim(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetLastClaimFailed, err)
	}

	today := Today(s.now(), s.loc)
	if last != nil && last.ClaimDate.Equal(today) {
		claimed := rewards[(last.CycleDay-1)%len(rewards)]
		return &domain.DailyStatus{
			CurrentStreak:  last.Streak,
			CycleDay:       last.CycleDay,
			CycleLength:    len(rewards),
			Reward:         claimed,
			BonusPercent:   last.BonusPercent,
			EffectiveValue: last.GrantedValue,
			Description:    Describe(claimed, last.GrantedValue, last.BonusPercent),
			ClaimedToday:   true,
			Today:          today,
		}, nil
	}

	p := s.makePlan(rewards, last, today)
	return &domain.DailyStatus{
		CurrentStreak:  p.streakSoFar,
		CycleDay:       p.cycleDay,
		CycleLength:    p.cycleLength,
		Reward:         p.reward,
		BonusPercent:   p.bonusPct,
		EffectiveValue: p.value,
		Description:    Describe(p.reward, p.value, p.bonusPct),
		CanClaim:       true,
		Today:          today,
	}, nil
}

// claimState is what the audit entries report before and after a claim.
type claimState struct {
	Credits    int               `json:"credits"`
	LastStreak int               `json:"last_streak"`
	Stats      *domain.UserStats `json:"stats,omitempty"`
}

func (s *service) Claim(ctx context.Context, userID uuid.UUID) (*domain.DailyClaimResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClaimStarted, "user_id", userID)
	start := time.Now()

	result, before, err := s.claim(ctx, userID)
	metrics.TransactionDuration.WithLabelValues(metrics.OperationDaily).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Warn(LogMsgClaimFailed, "user_id", userID, "error", err)
		metrics.RecordFailure(metrics.OperationDaily, err)
		s.audit.RecordFailure(ctx, audit.NewEntry(userID, domain.ActionDailyRewardClaimed, domain.SourceDailyReward, before, nil,
			map[string]any{MetaKeyClaimDate: Today(s.now(), s.loc).Format(time.DateOnly)}), err)
		return nil, err
	}

	metrics.DailyClaims.WithLabelValues(string(result.Reward.RewardType)).Inc()
	if result.Reward.RewardType == domain.RewardCredits {
		metrics.CreditsGranted.WithLabelValues(string(domain.SourceDailyReward)).Add(float64(result.Claim.GrantedValue))
	}
	log.Info(LogMsgClaimed, "user_id", userID, "streak", result.Claim.Streak, "cycle_day", result.Claim.CycleDay,
		"reward_type", result.Reward.RewardType, "value", result.Claim.GrantedValue)
	return result, nil
}

// claim runs the claim transaction. It returns with the transaction closed,
// so the caller may write the failure audit through the pool.
func (s *service) claim(ctx context.Context, userID uuid.UUID) (*domain.DailyClaimResult, *claimState, error) {
	var state *claimState
	rewards, err := s.loadCycle(ctx)
	if err != nil {
		return nil, state, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, state, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, state, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, state, domain.ErrUserNotFound
	}

	last, err := tx.GetLastClaim(ctx, userID)
	if err != nil {
		return nil, state, fmt.Errorf(ErrMsgGetLastClaimFailed, err)
	}
	state = &claimState{Credits: user.Credits}
	if last != nil {
		state.LastStreak = last.Streak
	}

	today := Today(s.now(), s.loc)
	if last != nil && last.ClaimDate.Equal(today) {
		return nil, state, domain.ErrAlreadyClaimedToday
	}
	p := s.makePlan(rewards, last, today)

	claim := &domain.DailyRewardClaim{
		ID:           uuid.New(),
		UserID:       userID,
		RewardID:     p.reward.ID,
		ClaimDate:    today,
		Streak:       p.streakSoFar + 1,
		CycleDay:     p.cycleDay,
		BonusPercent: p.bonusPct,
		GrantedValue: p.value,
	}
	// The unique (user_id, claim_date) key rejects a concurrent second claim.
	if err := tx.InsertClaim(ctx, claim); err != nil {
		return nil, state, fmt.Errorf(ErrMsgInsertClaimFailed, err)
	}

	result := &domain.DailyClaimResult{
		Claim:            *claim,
		Reward:           p.reward,
		Description:      Describe(p.reward, p.value, p.bonusPct),
		NewCreditBalance: user.Credits,
	}
	if err := s.grant(ctx, tx, claim, p, result); err != nil {
		return nil, state, err
	}

	stats, _, unlocked, err := s.granter.ApplyStats(ctx, tx, userID, reward.DeltaFor(result.Items, 0), claim.Streak)
	if err != nil {
		return nil, state, fmt.Errorf(ErrMsgApplyStatsFailed, err)
	}
	result.Stats = *stats
	result.UnlockedAchievements = unlocked

	after := claimState{Credits: result.NewCreditBalance, LastStreak: claim.Streak, Stats: stats}
	entry := audit.NewEntry(userID, domain.ActionDailyRewardClaimed, domain.SourceDailyReward, state, after, map[string]any{
		MetaKeyRewardID:     p.reward.ID,
		MetaKeyRewardType:   p.reward.RewardType,
		MetaKeyCycleDay:     claim.CycleDay,
		MetaKeyStreak:       claim.Streak,
		MetaKeyBonusPercent: claim.BonusPercent,
		MetaKeyGrantedValue: claim.GrantedValue,
		MetaKeyClaimDate:    today.Format(time.DateOnly),
	})
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return nil, state, fmt.Errorf(ErrMsgAuditFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, state, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return result, state, nil
}

// grant hands out the reward of plan p and records it on result.
func (s *service) grant(ctx context.Context, tx repository.DailyTx, claim *domain.DailyRewardClaim, p plan, result *domain.DailyClaimResult) error {
	switch p.reward.RewardType {
	case domain.RewardCredits:
		balance, err := tx.CreditCredits(ctx, claim.UserID, p.value)
		if err != nil {
			return fmt.Errorf(ErrMsgCreditFailed, err)
		}
		result.NewCreditBalance = balance

	case domain.RewardPack:
		for i := 0; i < p.value; i++ {
			g := &domain.PackGrant{
				ID:       uuid.New(),
				UserID:   claim.UserID,
				PackType: *p.reward.PackType,
				Source:   domain.SourceDailyReward,
			}
			if err := tx.CreatePackGrant(ctx, g); err != nil {
				return fmt.Errorf(ErrMsgCreateGrantFailed, err)
			}
			result.Grants = append(result.Grants, *g)
		}

	case domain.RewardItems:
		pack, err := tx.GetActivePackByType(ctx, *p.reward.PackType)
		if err != nil {
			return fmt.Errorf(ErrMsgGetPackFailed, err)
		}
		if pack == nil {
			return fmt.Errorf(ErrMsgNoActivePackFmt, domain.ErrConfiguration, *p.reward.PackType)
		}
		if err := rarity.ValidateTable(pack.Probabilities); err != nil {
			return err
		}
		for i := 0; i < p.value; i++ {
			granted, err := s.granter.Draw(ctx, tx, pack.Probabilities, claim.UserID)
			if err != nil {
				return fmt.Errorf(ErrMsgDrawFailed, err)
			}
			granted.UserItem.DailyClaimID = &claim.ID
			if err := s.granter.Deliver(ctx, tx, granted, domain.SourceDailyReward); err != nil {
				return fmt.Errorf(ErrMsgDeliverFailed, err)
			}
			result.Items = append(result.Items, *granted)
		}

	default:
		return fmt.Errorf(ErrMsgUnknownRewardFmt, domain.ErrConfiguration, p.reward.Day, p.reward.RewardType)
	}
	return nil
}
