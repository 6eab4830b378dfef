package logger

import (
	"log/slog"
	"slices"
	"strings"
)

// Config represents logger configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// NewConfig creates a config from explicit values. Source locations are
// always recorded in the dev environment.
func NewConfig(level, format, serviceName, version, environment string, addSource bool) Config {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	if version == "" {
		version = DefaultVersion
	}
	return Config{
		Level:       level,
		Format:      format,
		ServiceName: serviceName,
		Version:     version,
		Environment: environment,
		AddSource:   addSource || environment == EnvironmentDev,
	}
}

// LogLevel converts string level to slog.Level
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsJSON returns true if format is JSON
func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes returns common attributes to add to all logs
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}

// redactSecrets masks attributes whose key names a credential.
func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if slices.Contains(SensitiveKeys, strings.ToLower(a.Key)) {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}
