package reward

// Error messages
const (
	ErrMsgResolveRarityFailed = "failed to resolve rarity: %w"
	ErrMsgSelectItemFailed    = "failed to select item: %w"
	ErrMsgInsertUserItem      = "failed to insert user item: %w"
	ErrMsgLockStatsFailed     = "failed to lock user stats: %w"
	ErrMsgEvaluateFailed      = "failed to evaluate achievements: %w"
	ErrMsgUpdateStatsFailed   = "failed to update user stats: %w"
)
