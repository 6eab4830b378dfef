package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Parameter error messages
	ErrMsgInvalidPathID = "Invalid %s"
	ErrMsgInvalidLimit  = "Invalid limit parameter"
	ErrMsgInvalidOffset = "Invalid offset parameter"
	ErrMsgInvalidFilter = "Invalid %s filter"

	// Identity error messages
	ErrMsgMissingIdentity = "Missing caller identity"

	// Operation names used in logs
	OpListPacks        = "List packs"
	OpGetPack          = "Get pack"
	OpOpenPack         = "Open pack"
	OpDailyStatus      = "Daily status"
	OpDailyClaim       = "Daily claim"
	OpFreePack         = "Free pack"
	OpListGrants       = "List grants"
	OpClaimGrant       = "Claim grant"
	OpGetStats         = "Get stats"
	OpListItems        = "List items"
	OpListOpenings     = "List openings"
	OpListAchievements = "List achievements"
	OpCheckConsistency = "Check consistency"
	OpFixStats         = "Fix stats"
	OpFixAllStats      = "Fix all stats"
	OpListAudit        = "List audit"
	OpRegisterUser     = "Register user"
	OpAddCredits       = "Add credits"
)

// Log messages for request parsing
const (
	LogMsgDecodeFailed     = "Failed to decode request body"
	LogMsgValidationFailed = "Request failed validation"
	LogMsgInvalidPathParam = "Invalid path parameter"
)

// Success messages for API responses
const (
	MsgCatalogInvalidated = "Catalog cache invalidated"
)

// Query parameter names
const (
	ParamLimit   = "limit"
	ParamOffset  = "offset"
	ParamUserID  = "user_id"
	ParamAction  = "action"
	ParamSource  = "source"
	ParamSuccess = "success"
	ParamSince   = "since"
	ParamUntil   = "until"

	PathParamPackID  = "packID"
	PathParamGrantID = "grantID"
	PathParamUserID  = "userID"
)

// Paging defaults
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)
