package daily

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dropa-gg/dropa/internal/domain"
)

// BonusTier grants Percent extra credits once the streak carried into a claim
// reaches MinStreak.
type BonusTier struct {
	MinStreak int
	Percent   int
}

// DefaultBonusTiers: 10% from day 8, 20% from day 15, 30% from day 31.
var DefaultBonusTiers = []BonusTier{
	{MinStreak: 8, Percent: 10},
	{MinStreak: 15, Percent: 20},
	{MinStreak: 31, Percent: 30},
}

// ParseBonusTiers parses "8:10,15:20,31:30".
func ParseBonusTiers(s string) ([]BonusTier, error) {
	var tiers []BonusTier
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		minStr, pctStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf(ErrMsgInvalidBonusTierFmt, domain.ErrConfiguration, part)
		}
		minStreak, err1 := strconv.Atoi(strings.TrimSpace(minStr))
		pct, err2 := strconv.Atoi(strings.TrimSpace(pctStr))
		if err1 != nil || err2 != nil || minStreak < 1 || pct < 0 {
			return nil, fmt.Errorf(ErrMsgInvalidBonusTierFmt, domain.ErrConfiguration, part)
		}
		tiers = append(tiers, BonusTier{MinStreak: minStreak, Percent: pct})
	}
	if err := validateBonusTiers(tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

func validateBonusTiers(tiers []BonusTier) error {
	ordered := slices.IsSortedFunc(tiers, func(a, b BonusTier) int { return a.MinStreak - b.MinStreak })
	if !ordered {
		return fmt.Errorf(ErrMsgUnorderedBonusTiers, domain.ErrConfiguration)
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinStreak == tiers[i-1].MinStreak {
			return fmt.Errorf(ErrMsgUnorderedBonusTiers, domain.ErrConfiguration)
		}
	}
	return nil
}

// Today returns the calendar date of now in loc, as midnight UTC so it
// compares equal to a DATE column read back from the database.
func Today(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// StreakSoFar is the streak carried into a claim made on today: the last
// claim's streak when it was made yesterday, 0 otherwise.
func StreakSoFar(last *domain.DailyRewardClaim, today time.Time) int {
	if last == nil {
		return 0
	}
	if last.ClaimDate.Equal(today.AddDate(0, 0, -1)) {
		return last.Streak
	}
	return 0
}

// CycleDay maps a carried streak onto the 1-based reward cycle.
func CycleDay(streakSoFar, cycleLength int) int {
	return streakSoFar%cycleLength + 1
}

// BonusPercent returns the highest tier percent the carried streak reaches.
func BonusPercent(streakSoFar int, tiers []BonusTier) int {
	pct := 0
	for _, t := range tiers {
		if streakSoFar >= t.MinStreak {
			pct = t.Percent
		}
	}
	return pct
}

// ApplyBonus adds pct percent to value, rounding down.
func ApplyBonus(value, pct int) int {
	return value * (100 + pct) / 100
}

// effectiveBonus returns the bonus that applies to a reward. Only credit
// rewards scale with the streak.
func effectiveBonus(reward domain.DailyReward, pct int) int {
	if reward.RewardType != domain.RewardCredits {
		return 0
	}
	return pct
}

// ValidateCycle checks that rewards, sorted by day, cover days 1..N exactly
// and are individually well formed.
func ValidateCycle(rewards []domain.DailyReward) error {
	if len(rewards) == 0 {
		return fmt.Errorf(ErrMsgEmptyCycle, domain.ErrConfiguration)
	}
	for i, r := range rewards {
		if r.Day != i+1 {
			return fmt.Errorf(ErrMsgCycleGapFmt, domain.ErrConfiguration, i+1, r.Day)
		}
		if r.RewardValue <= 0 {
			return fmt.Errorf(ErrMsgRewardValueFmt, domain.ErrConfiguration, r.Day, r.RewardValue)
		}
		switch r.RewardType {
		case domain.RewardCredits:
		case domain.RewardPack, domain.RewardItems:
			if r.PackType == nil || !r.PackType.Valid() {
				return fmt.Errorf(ErrMsgRewardPackTypeFmt, domain.ErrConfiguration, r.Day)
			}
		default:
			return fmt.Errorf(ErrMsgUnknownRewardFmt, domain.ErrConfiguration, r.Day, r.RewardType)
		}
	}
	return nil
}
