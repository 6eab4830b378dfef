package domain

// Rarity is the five-tier draw classification used by pack probability tables.
type Rarity string

const (
	RarityComum    Rarity = "COMUM"
	RarityIncomum  Rarity = "INCOMUM"
	RarityRaro     Rarity = "RARO"
	RarityEpico    Rarity = "EPICO"
	RarityLendario Rarity = "LENDARIO"
)

// RarityOrder is the stable tier order used for cumulative draws and fallbacks.
var RarityOrder = []Rarity{
	RarityComum,
	RarityIncomum,
	RarityRaro,
	RarityEpico,
	RarityLendario,
}

// Index returns the position of r in RarityOrder, or -1 for unknown values.
func (r Rarity) Index() int {
	for i, v := range RarityOrder {
		if v == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the five known tiers.
func (r Rarity) Valid() bool {
	return r.Index() >= 0
}

// ScarcityLevel governs supply constraints and is independent of Rarity.
type ScarcityLevel string

const (
	ScarcityCommon    ScarcityLevel = "COMMON"
	ScarcityUncommon  ScarcityLevel = "UNCOMMON"
	ScarcityRare      ScarcityLevel = "RARE"
	ScarcityLegendary ScarcityLevel = "LEGENDARY"
	ScarcityUnique    ScarcityLevel = "UNIQUE"
)

// ScarcityLevels lists scarcity levels from most to least abundant.
var ScarcityLevels = []ScarcityLevel{
	ScarcityCommon,
	ScarcityUncommon,
	ScarcityRare,
	ScarcityLegendary,
	ScarcityUnique,
}

// Valid reports whether s is a known scarcity level.
func (s ScarcityLevel) Valid() bool {
	for _, v := range ScarcityLevels {
		if v == s {
			return true
		}
	}
	return false
}

// PackType is the tier of a pack.
type PackType string

const (
	PackBronze   PackType = "BRONZE"
	PackSilver   PackType = "SILVER"
	PackGold     PackType = "GOLD"
	PackPlatinum PackType = "PLATINUM"
	PackDiamond  PackType = "DIAMOND"
)

// PackTypes lists pack tiers from cheapest to most premium.
var PackTypes = []PackType{PackBronze, PackSilver, PackGold, PackPlatinum, PackDiamond}

// Valid reports whether p is a known pack tier.
func (p PackType) Valid() bool {
	for _, v := range PackTypes {
		if v == p {
			return true
		}
	}
	return false
}

// Source tags the path that produced a state change.
type Source string

const (
	SourceRegularPack Source = "REGULAR_PACK"
	SourceFreePack    Source = "FREE_PACK"
	SourceDailyReward Source = "DAILY_REWARD"
	SourceReconciler  Source = "RECONCILER"
	SourceAdmin       Source = "ADMIN"
)

// AuditAction identifies the operation recorded by an audit entry.
type AuditAction string

const (
	ActionPackOpened         AuditAction = "PACK_OPENED"
	ActionDailyRewardClaimed AuditAction = "DAILY_REWARD_CLAIMED"
	ActionFreePackGenerated  AuditAction = "FREE_PACK_GENERATED"
	ActionPackGrantClaimed   AuditAction = "PACK_GRANT_CLAIMED"
	ActionStatsCorrected     AuditAction = "STATS_CORRECTED"
	ActionCreditsAdded       AuditAction = "CREDITS_ADDED"
	ActionUserRegistered     AuditAction = "USER_REGISTERED"
)
