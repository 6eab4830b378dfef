package logger

// Log Level String Values
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log Format String Values
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName = "dropa"
	DefaultVersion     = "dev"
	EnvironmentDev     = "dev"
)

// Log Attribute Keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyUserID      = "user_id"
)

// RedactedValue replaces the value of any attribute in SensitiveKeys
const RedactedValue = "[REDACTED]"

// SensitiveKeys are attribute keys never written in clear, compared lower-cased
var SensitiveKeys = []string{"api_key", "password", "db_password", "redis_password", "authorization", "token"}
