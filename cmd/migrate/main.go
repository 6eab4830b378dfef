// Command migrate applies or rolls back the embedded schema migrations.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dropa-gg/dropa/internal/bootstrap"
	"github.com/dropa-gg/dropa/internal/config"
	"github.com/dropa-gg/dropa/internal/database"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the database schema",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply all pending migrations",
				Action: withMigrator(func(ctx context.Context, m *database.Migrator) error { return m.Up(ctx) }),
			},
			{
				Name:   "down",
				Usage:  "roll back the most recent migration",
				Action: withMigrator(func(ctx context.Context, m *database.Migrator) error { return m.Down(ctx) }),
			},
			{
				Name:   "status",
				Usage:  "list migrations and whether they are applied",
				Action: withMigrator(printStatus),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withMigrator(fn func(ctx context.Context, m *database.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		bootstrap.SetupLogger(cfg)

		pool, err := database.NewPool(c.Context, cfg.GetDBConnString(), 1, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return err
		}
		defer pool.Close()

		m, err := database.NewMigrator(pool)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(c.Context, m)
	}
}

func printStatus(ctx context.Context, m *database.Migrator) error {
	statuses, err := m.Status(ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Printf("%-8s %5d  %s\n", state, s.Version, s.Path)
	}
	return nil
}
