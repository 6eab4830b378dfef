package memrepo

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

func createGrant(d *state, grant *domain.PackGrant, now time.Time) error {
	if grant.Source == domain.SourceFreePack {
		for _, g := range d.grants {
			if g.UserID == grant.UserID && g.Source == domain.SourceFreePack {
				return domain.ErrFreePackAlreadyGranted
			}
		}
	}
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	grant.CreatedAt = now
	d.grants[grant.ID] = *grant
	return nil
}

func (s *Store) grantsOf(userID uuid.UUID) []domain.PackGrant {
	var out []domain.PackGrant
	for _, g := range s.data.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b domain.PackGrant) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func lastClaim(d *state, userID uuid.UUID) *domain.DailyRewardClaim {
	var last *domain.DailyRewardClaim
	for _, c := range d.claims {
		if c.UserID != userID {
			continue
		}
		if last == nil || c.ClaimDate.After(last.ClaimDate) {
			last = &c
		}
	}
	return last
}

func countActual(d *state, userID uuid.UUID) domain.ActualCounts {
	var counts domain.ActualCounts
	for _, o := range d.openings {
		if o.UserID == userID {
			counts.PacksOpened++
		}
	}
	for _, ui := range d.userItems {
		if ui.UserID != userID {
			continue
		}
		counts.ItemsCollected++
		if d.items[ui.ItemID].Rarity == domain.RarityLendario {
			counts.LegendaryFound++
		}
	}
	for _, a := range d.achievements {
		if _, ok := d.userAchievements[userID][a.ID]; ok {
			counts.AchievementXP += a.XP
		}
	}
	return counts
}

func appendAudit(d *state, entry *domain.AuditEntry, now time.Time) {
	entry.ID = int64(len(d.audit) + 1)
	entry.CreatedAt = now
	d.audit = append(d.audit, *entry)
}

func sortedDailyRewards(d *state) []domain.DailyReward {
	out := slices.Clone(d.dailyRewards)
	slices.SortFunc(out, func(a, b domain.DailyReward) int { return cmp.Compare(a.Day, b.Day) })
	return out
}
