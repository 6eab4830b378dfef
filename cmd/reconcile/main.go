// Command reconcile checks and repairs drift in the cached user stats.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"github.com/dropa-gg/dropa/internal/bootstrap"
	"github.com/dropa-gg/dropa/internal/config"
	"github.com/dropa-gg/dropa/internal/database"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/reconcile"
)

func main() {
	app := &cli.App{
		Name:  "reconcile",
		Usage: "check and repair user stats against the ledger",
		Commands: []*cli.Command{
			commandCheck(),
			commandFix(),
			commandFixAll(),
			commandSchedule(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// env is what every subcommand needs; close releases it.
type env struct {
	cfg   *config.Config
	svc   reconcile.Service
	close func()
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	bootstrap.SetupLogger(cfg)

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, err
	}
	client, err := bootstrap.ConnectRedis(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	repos := bootstrap.InitializeRepositories(pool)
	svc := reconcile.NewService(repos.Reconcile, bootstrap.NewReconcileLocker(cfg, client), cfg.ReconcileConfig())

	return &env{
		cfg: cfg,
		svc: svc,
		close: func() {
			if client != nil {
				_ = client.Close()
			}
			pool.Close()
		},
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withEnv(fn func(ctx context.Context, c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())

		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.close()
		return fn(ctx, c, e)
	}
}

func commandCheck() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "report drifting users without writing",
		Action: withEnv(func(ctx context.Context, _ *cli.Context, e *env) error {
			out, err := e.svc.CheckConsistency(ctx)
			if err != nil {
				return err
			}
			return printJSON(out)
		}),
	}
}

func commandFix() *cli.Command {
	return &cli.Command{
		Name:  "fix",
		Usage: "rewrite one user's stats from the ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Usage:    "user id",
				Required: true,
			},
		},
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			userID, err := uuid.Parse(c.String("user"))
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			res, err := e.svc.Fix(ctx, userID)
			if err != nil {
				return err
			}
			return printJSON(res)
		}),
	}
}

func commandFixAll() *cli.Command {
	return &cli.Command{
		Name:  "fix-all",
		Usage: "fix every drifting user",
		Action: withEnv(func(ctx context.Context, _ *cli.Context, e *env) error {
			res, err := e.svc.FixAll(ctx)
			if err != nil {
				return err
			}
			return printJSON(res)
		}),
	}
}

func commandSchedule() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "run fix-all on a cron schedule until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cron",
				Usage: "cron spec, defaults to RECONCILE_SCHEDULE",
			},
		},
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			spec := c.String("cron")
			if spec == "" {
				spec = e.cfg.ReconcileSchedule
			}

			runner := cron.New()
			_, err := runner.AddFunc(spec, func() {
				res, err := e.svc.FixAll(ctx)
				if err != nil {
					slog.Error("Scheduled reconcile failed", "error", err)
					return
				}
				slog.Info("Scheduled reconcile finished",
					"checked", res.Checked,
					"drifting", res.Drifting,
					"fixed", res.Fixed,
					"failed", res.Failed)
			})
			if err != nil {
				return fmt.Errorf("invalid cron spec %q: %w", spec, err)
			}

			slog.Info("Reconcile scheduler started", "cron", spec)
			runner.Start()
			<-ctx.Done()
			<-runner.Stop().Done()
			return nil
		}),
	}
}
