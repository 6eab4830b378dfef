package pack

// Error messages
const (
	ErrMsgBeginTxFailed        = "failed to begin transaction: %w"
	ErrMsgCommitFailed         = "failed to commit transaction: %w"
	ErrMsgGetUserFailed        = "failed to get user: %w"
	ErrMsgGetPackFailed        = "failed to get pack: %w"
	ErrMsgPackNotFoundFmt      = "%w: %s"
	ErrMsgPackInactiveFmt      = "%w: %s"
	ErrMsgInvalidTableFmt      = "pack %s: %w"
	ErrMsgDebitFailed          = "failed to debit credits: %w"
	ErrMsgDrawFailed           = "failed to draw item: %w"
	ErrMsgInsertOpeningFailed  = "failed to insert pack opening: %w"
	ErrMsgDeliverFailed        = "failed to deliver item: %w"
	ErrMsgApplyStatsFailed     = "failed to apply stats: %w"
	ErrMsgAuditFailed          = "failed to append audit entry: %w"
	ErrMsgClaimGrantFailed     = "failed to claim pack grant: %w"
	ErrMsgNoActivePackFmt      = "%w: no active pack for tier %s"
	ErrMsgCreateGrantFailed    = "failed to create pack grant: %w"
	ErrMsgListGrantsFailed     = "failed to list pack grants: %w"
	ErrMsgTierChooserFailed    = "%w: free pack tier weights: %v"
	ErrMsgUnknownTierFmt       = "%w: unknown pack tier %q"
	ErrMsgNoPositiveTierWeight = "%w: free pack tier weights are all zero"
)

// Log messages
const (
	LogMsgOpenPackStarted   = "OpenPack called"
	LogMsgPackOpened        = "Pack opened"
	LogMsgOpenPackFailed    = "Pack open failed"
	LogMsgClaimGrantStarted = "ClaimPackGrant called"
	LogMsgGrantClaimed      = "Pack grant claimed"
	LogMsgClaimGrantFailed  = "Pack grant claim failed"
	LogMsgFreePackGenerated = "Free pack generated"
	LogMsgFreePackFailed    = "Free pack generation failed"
)

// Audit metadata keys
const (
	MetaKeyPackID       = "pack_id"
	MetaKeyPackType     = "pack_type"
	MetaKeyGrantID      = "grant_id"
	MetaKeyItemID       = "item_id"
	MetaKeyRolledRarity = "rolled_rarity"
	MetaKeyItemRarity   = "item_rarity"
	MetaKeyStage        = "stage"
	MetaKeyConflicts    = "claim_conflicts"
	MetaKeyOpeningID    = "opening_id"
)
