package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized     = "Unauthorized"
	ErrMsgInvalidUserID    = "Invalid X-User-ID header"
	ErrMsgUnknownUser      = "Unknown user"
	ErrMsgIdentityFailed   = "Could not resolve caller"
	ErrMsgIdentityRequired = "Caller identity required"
	ErrMsgForbidden        = "Forbidden"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgIdentifyFailed   = "Caller identification failed"
	LogMsgCapabilityDenied = "Capability denied"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderUserID         = "X-User-ID"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRequestID      = "X-Request-ID"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Server limits
const (
	MaxRequestBodyBytes = 1 << 20
	ReadHeaderTimeout   = 5 * time.Second
	WriteTimeout        = 30 * time.Second
	IdleTimeout         = 2 * time.Minute

	FailedAuthAlertThreshold = 5
	FailedAuthWindow         = 5 * time.Minute
)

// Public path prefixes that bypass authentication
var PublicPaths = []string{
	"/swagger/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)

// DependencyDatabase names the Postgres pool in readiness reports
const DependencyDatabase = "database"
