package bootstrap

import (
	"log/slog"

	"github.com/dropa-gg/dropa/internal/config"
	"github.com/dropa-gg/dropa/internal/logger"
)

// SetupLogger installs the process logger and reports the loaded
// configuration along with any non-fatal warnings.
func SetupLogger(cfg *config.Config) *slog.Logger {
	l := logger.InitLogger(cfg.LoggerConfig())

	l.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	l.Info(LogMsgStartingDropa,
		"environment", cfg.Environment,
		"version", cfg.Version)

	l.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"redis", cfg.RedisAddr != "")

	for _, w := range cfg.Warnings() {
		l.Warn(LogMsgConfigWarning, "warning", w)
	}
	return l
}
