package selector

// Stage names a step of the fallback chain.
type Stage string

const (
	// StageStrict is the scarcity-eligible pool of the rolled rarity.
	StageStrict Stage = "strict"
	// StageDowngrade walks the eligible pools of lower rarities toward COMUM.
	StageDowngrade Stage = "downgrade"
	// StageAnySameRarity ignores scarcity weighting and per-user ownership but
	// never unique ownership or edition caps.
	StageAnySameRarity Stage = "any-same-rarity"
)

// DefaultMaxClaimAttempts bounds re-picks after losing a scarcity race.
const DefaultMaxClaimAttempts = 5

// Conflict kinds for metrics
const (
	ConflictKindUnique  = "unique"
	ConflictKindEdition = "edition"
)

// Error messages
const (
	ErrMsgNoEligibleItemsFmt = "%w: no eligible items for rarity %s"
	ErrMsgUnknownStageFmt    = "%w: unknown fallback stage %q"
	ErrMsgClaimExhaustedFmt  = "%w: lost %d scarcity races for rarity %s"
	ErrMsgListItemsFailed    = "failed to list items: %w"
	ErrMsgListOwnedFailed    = "failed to list owned items: %w"
	ErrMsgClaimUniqueFailed  = "failed to claim unique item: %w"
	ErrMsgMintEditionFailed  = "failed to mint edition: %w"
	ErrMsgChooserFailed      = "failed to build weighted chooser: %w"
)

// Log messages
const (
	LogMsgCatalogGap       = "Item pool empty after scarcity filtering, using last-resort pool"
	LogMsgFallbackUsed     = "Item selected from fallback pool"
	LogMsgScarcityRaceLost = "Lost scarcity race, re-picking"
)
