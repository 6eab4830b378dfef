package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dropa-gg/dropa/internal/database"
	"github.com/dropa-gg/dropa/internal/server"
)

// ShutdownComponents holds everything that needs closing on exit
type ShutdownComponents struct {
	Server *server.Server
	DBPool database.Pool
	Redis  redis.UniversalClient
}

// GracefulShutdown stops the HTTP server first so in-flight openings finish,
// then releases Redis and the database pool.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Redis != nil {
		if err := components.Redis.Close(); err != nil {
			slog.Error(LogMsgRedisCloseFailed, "error", err)
		}
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
