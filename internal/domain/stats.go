package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stat field names used in drift reports and metrics labels.
const (
	StatFieldPacksOpened    = "total_packs_opened"
	StatFieldItemsCollected = "total_items_collected"
	StatFieldLegendaryFound = "legendary_items_found"
	StatFieldTotalXP        = "total_xp"
	StatFieldLevel          = "level"
)

// UserStats is the cached aggregate row. It must always be re-derivable from
// pack_openings, user_items and user_achievements.
type UserStats struct {
	UserID              uuid.UUID `json:"user_id"`
	TotalPacksOpened    int       `json:"total_packs_opened"`
	TotalItemsCollected int       `json:"total_items_collected"`
	LegendaryItemsFound int       `json:"legendary_items_found"`
	TotalXP             int       `json:"total_xp"`
	Level               int       `json:"level"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Apply adds a delta to the counters. Level is recomputed by the caller.
func (s *UserStats) Apply(d StatsDelta) {
	s.TotalPacksOpened += d.PacksOpened
	s.TotalItemsCollected += d.ItemsCollected
	s.LegendaryItemsFound += d.LegendaryFound
	s.TotalXP += d.XP
}

// Diff lists the fields where s and other disagree.
func (s UserStats) Diff(other UserStats) []StatFieldDiff {
	var diffs []StatFieldDiff
	add := func(field string, stored, actual int) {
		if stored != actual {
			diffs = append(diffs, StatFieldDiff{Field: field, Stored: stored, Actual: actual})
		}
	}
	add(StatFieldPacksOpened, s.TotalPacksOpened, other.TotalPacksOpened)
	add(StatFieldItemsCollected, s.TotalItemsCollected, other.TotalItemsCollected)
	add(StatFieldLegendaryFound, s.LegendaryItemsFound, other.LegendaryItemsFound)
	add(StatFieldTotalXP, s.TotalXP, other.TotalXP)
	add(StatFieldLevel, s.Level, other.Level)
	return diffs
}

// StatsDelta is the change a single operation applied to UserStats.
type StatsDelta struct {
	PacksOpened    int `json:"packs_opened"`
	ItemsCollected int `json:"items_collected"`
	LegendaryFound int `json:"legendary_found"`
	XP             int `json:"xp"`
}

// ActualCounts are recomputed from the source-of-truth tables.
type ActualCounts struct {
	PacksOpened    int
	ItemsCollected int
	LegendaryFound int
	AchievementXP  int
}

// StatsComparison pairs the cached row with recomputed counts for one user.
type StatsComparison struct {
	Stored UserStats
	Actual ActualCounts
}

// StatFieldDiff is one drifting field.
type StatFieldDiff struct {
	Field  string `json:"field"`
	Stored int    `json:"stored"`
	Actual int    `json:"actual"`
}

// Inconsistency reports drift for one user.
type Inconsistency struct {
	UserID uuid.UUID       `json:"user_id"`
	Stored UserStats       `json:"stored"`
	Actual UserStats       `json:"actual"`
	Fields []StatFieldDiff `json:"fields"`
}

// FixResult reports the outcome of reconciling one user.
type FixResult struct {
	UserID  uuid.UUID       `json:"user_id"`
	Changed bool            `json:"changed"`
	Before  UserStats       `json:"before"`
	After   UserStats       `json:"after"`
	Fields  []StatFieldDiff `json:"fields,omitempty"`
}

// FixAllResult summarises a full reconciliation pass.
type FixAllResult struct {
	Checked  int         `json:"checked"`
	Drifting int         `json:"drifting"`
	Fixed    int         `json:"fixed"`
	Failed   int         `json:"failed"`
	Results  []FixResult `json:"results,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}
