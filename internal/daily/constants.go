package daily

// DefaultTimezone is the calendar the daily cycle follows.
const DefaultTimezone = "America/Sao_Paulo"

// Error messages
const (
	ErrMsgBeginTxFailed       = "failed to begin transaction: %w"
	ErrMsgCommitFailed        = "failed to commit transaction: %w"
	ErrMsgGetUserFailed       = "failed to get user: %w"
	ErrMsgListRewardsFailed   = "failed to list daily rewards: %w"
	ErrMsgGetLastClaimFailed  = "failed to get last claim: %w"
	ErrMsgInsertClaimFailed   = "failed to insert claim: %w"
	ErrMsgCreditFailed        = "failed to credit reward: %w"
	ErrMsgCreateGrantFailed   = "failed to create pack grant: %w"
	ErrMsgGetPackFailed       = "failed to get pack: %w"
	ErrMsgDrawFailed          = "failed to draw item: %w"
	ErrMsgDeliverFailed       = "failed to deliver item: %w"
	ErrMsgApplyStatsFailed    = "failed to apply stats: %w"
	ErrMsgAuditFailed         = "failed to append audit entry: %w"
	ErrMsgEmptyCycle          = "%w: no daily rewards configured"
	ErrMsgCycleGapFmt         = "%w: daily reward cycle expects day %d, found day %d"
	ErrMsgRewardValueFmt      = "%w: daily reward day %d has non-positive value %d"
	ErrMsgRewardPackTypeFmt   = "%w: daily reward day %d needs a valid pack type"
	ErrMsgUnknownRewardFmt    = "%w: daily reward day %d has unknown type %q"
	ErrMsgNoActivePackFmt     = "%w: no active pack for tier %s"
	ErrMsgInvalidBonusTierFmt = "%w: invalid streak bonus tier %q"
	ErrMsgUnorderedBonusTiers = "%w: streak bonus tiers must be ascending"
	ErrMsgLoadLocationFailed  = "%w: unknown timezone %q"
)

// Log messages
const (
	LogMsgClaimStarted = "Daily claim called"
	LogMsgClaimed      = "Daily reward claimed"
	LogMsgClaimFailed  = "Daily claim failed"
)

// Audit metadata keys
const (
	MetaKeyRewardID     = "reward_id"
	MetaKeyRewardType   = "reward_type"
	MetaKeyCycleDay     = "cycle_day"
	MetaKeyStreak       = "streak"
	MetaKeyBonusPercent = "bonus_percent"
	MetaKeyGrantedValue = "granted_value"
	MetaKeyClaimDate    = "claim_date"
)
