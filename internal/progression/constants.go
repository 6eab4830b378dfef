package progression

const (
	// BaseXP is the base XP value used in level calculations
	BaseXP = 100.0

	// LevelExponent is the exponent used in the XP formula: XP = BaseXP * (Level ^ LevelExponent)
	LevelExponent = 1.5

	// MaxIterationLevel is the maximum level to iterate to when calculating levels
	MaxIterationLevel = 200
)

// Error messages
const (
	ErrMsgListAchievementsFailed  = "failed to list achievements: %w"
	ErrMsgUnlockAchievementFailed = "failed to unlock achievement %s: %w"
	ErrMsgUnknownConditionFmt     = "%w: achievement %s has unknown condition %q"
)

// Log messages
const (
	LogMsgAchievementUnlocked = "Achievement unlocked"
	LogMsgLevelUp             = "User leveled up"
)
