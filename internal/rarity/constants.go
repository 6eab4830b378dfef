package rarity

// SumTolerance is how far a probability table may drift from 100 and still validate.
const SumTolerance = 0.01

// floatNoise absorbs rounding when summing decimal percentages.
const floatNoise = 1e-9

// ExpectedSum is the total a validated probability table must reach.
const ExpectedSum = 100.0

// Error messages
const (
	ErrMsgEmptyTableFmt        = "%w: probability table is empty"
	ErrMsgAllZeroTableFmt      = "%w: probability table has no positive weight"
	ErrMsgUnknownRarityFmt     = "%w: unknown rarity %q"
	ErrMsgNegativeWeightFmt    = "%w: negative percentage %v for %s"
	ErrMsgInvalidWeightFmt     = "%w: percentage for %s is not a finite number"
	ErrMsgSumOutOfToleranceFmt = "%w: probabilities sum to %.4f, expected %.0f"
)

// Log messages
const (
	LogMsgTableRenormalised = "Probability table does not sum to 100, drawing against actual total"
)
