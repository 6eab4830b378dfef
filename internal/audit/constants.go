package audit

// List limits
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Error messages
const (
	ErrMsgAppendFailed  = "failed to append audit entry: %w"
	ErrMsgListFailed    = "failed to list audit entries: %w"
	ErrMsgInvalidWindow = "%w: since must be before until"
)

// Log messages
const (
	LogMsgFailureAuditFailed = "Failed to record failed-operation audit entry"
	LogMsgSnapshotFailed     = "Failed to marshal audit snapshot"
)
