package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dropa-gg/dropa/internal/database"
	"github.com/dropa-gg/dropa/internal/domain"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		terminate = setupDatabase(context.Background())
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupDatabase(ctx context.Context) func() {
	// Handle potential panics from testcontainers
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupDatabase: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return func() {}
	}
	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return terminate
	}

	pool, err := database.NewPool(ctx, connStr, 20, time.Minute, 5*time.Minute)
	if err != nil {
		fmt.Printf("WARNING: Failed to connect: %v\n", err)
		return terminate
	}
	if err := database.Migrate(ctx, pool); err != nil {
		fmt.Printf("WARNING: Failed to migrate: %v\n", err)
		pool.Close()
		return terminate
	}

	testPool = pool
	return terminate
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	return testPool
}

// isolateCatalog deactivates every item so a test only draws from the items it
// seeds itself.
func isolateCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `UPDATE items SET is_active = FALSE`)
	require.NoError(t, err)
}

func seedUser(t *testing.T, pool *pgxpool.Pool, credits int) domain.User {
	t.Helper()
	u := domain.User{ID: uuid.New(), Username: "u_" + uuid.NewString()[:8], Credits: credits, Role: domain.RoleUser}
	tx, err := NewUserRepository(pool).BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.CreateUser(context.Background(), &u))
	require.NoError(t, tx.Commit(context.Background()))
	return u
}

func seedItem(t *testing.T, pool *pgxpool.Pool, item domain.Item) domain.Item {
	t.Helper()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Name == "" {
		item.Name = "item_" + uuid.NewString()[:8]
	}
	if item.ScarcityLevel == "" {
		item.ScarcityLevel = domain.ScarcityCommon
	}
	item.IsActive = true
	_, err := pool.Exec(context.Background(), `
		INSERT INTO items (id, name, rarity, value, scarcity_level, is_limited_edition, max_editions, single_ownership, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)`,
		item.ID, item.Name, string(item.Rarity), item.Value, string(item.ScarcityLevel),
		item.IsLimitedEdition, item.MaxEditions, item.SingleOwnership)
	require.NoError(t, err)
	return item
}

func seedPack(t *testing.T, pool *pgxpool.Pool, packType domain.PackType, price int, table ...domain.PackProbability) domain.Pack {
	t.Helper()
	ctx := context.Background()
	p := domain.Pack{ID: uuid.New(), Name: "pack_" + uuid.NewString()[:8], Type: packType, Price: price, IsActive: true, Probabilities: table}
	_, err := pool.Exec(ctx, `INSERT INTO packs (id, name, type, price, is_active) VALUES ($1, $2, $3, $4, TRUE)`,
		p.ID, p.Name, string(p.Type), p.Price)
	require.NoError(t, err)
	for _, row := range table {
		_, err := pool.Exec(ctx, `INSERT INTO pack_probabilities (pack_id, rarity, percentage) VALUES ($1, $2, $3)`,
			p.ID, string(row.Rarity), row.Percentage)
		require.NoError(t, err)
	}
	return p
}

func only(r domain.Rarity) domain.PackProbability {
	return domain.PackProbability{Rarity: r, Percentage: 100}
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}
