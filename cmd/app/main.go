// Command app serves the Dropa HTTP API.
//
//go:generate swag init -g cmd/app/main.go -d ../../ -o ../../docs
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"github.com/dropa-gg/dropa/internal/bootstrap"
	"github.com/dropa-gg/dropa/internal/config"
	"github.com/dropa-gg/dropa/internal/database"
	"github.com/dropa-gg/dropa/internal/server"
)

const shutdownTimeout = 15 * time.Second

// @title          Dropa API
// @version        1.0
// @description    Gacha core: pack openings, daily streaks, free pack grants and stats reconciliation.
// @BasePath       /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in             header
// @name           X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	bootstrap.SetupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return err
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return err
		}
	}

	redisClient, err := bootstrap.ConnectRedis(ctx, cfg)
	if err != nil {
		dbPool.Close()
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)
	svcs, err := bootstrap.InitializeServices(cfg, repos, redisClient)
	if err != nil {
		bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{DBPool: dbPool, Redis: redisClient})
		return err
	}

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		Version:        cfg.Version,
		TrustedProxies: cfg.TrustedProxies,
	}, dbPool, svcs.ForServer())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
			Server: srv,
			DBPool: dbPool,
			Redis:  redisClient,
		})
		return nil
	})
	return g.Wait()
}
