package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropa-gg/dropa/internal/database/postgres"
	"github.com/dropa-gg/dropa/internal/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	User      repository.User
	Catalog   repository.Catalog
	Pack      repository.Pack
	Daily     repository.Daily
	Reconcile repository.Reconcile
	Audit     repository.Audit
}

// InitializeRepositories creates all repository instances from the database pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:      postgres.NewUserRepository(dbPool),
		Catalog:   postgres.NewCatalogRepository(dbPool),
		Pack:      postgres.NewPackRepository(dbPool),
		Daily:     postgres.NewDailyRepository(dbPool),
		Reconcile: postgres.NewReconcileRepository(dbPool),
		Audit:     postgres.NewAuditRepository(dbPool),
	}
}
