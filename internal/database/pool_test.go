package database

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dropa-gg/dropa/internal/testing/leaktest"
)

// dsn is empty when Docker is unavailable; integration tests then skip.
var dsn string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	connStr, stop, err := startPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres container unavailable: %v\n", err)
	}
	dsn = connStr

	code := m.Run()
	stop()
	os.Exit(code)
}

func startPostgres(ctx context.Context) (connStr string, stop func(), err error) {
	stop = func() {}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("testcontainers panicked: %v", r)
		}
	}()

	c, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("dropa_test"),
		postgres.WithUsername("dropa"),
		postgres.WithPassword("dropa"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", stop, err
	}
	stop = func() { _ = c.Terminate(ctx) }

	connStr, err = c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		stop()
		return "", func() {}, err
	}
	return connStr, stop, nil
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() || dsn == "" {
		t.Skip("postgres not available")
	}
}

func TestNewPool_BadConnString(t *testing.T) {
	_, err := NewPool(context.Background(), "://not a url", 5, time.Minute, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToParseConnString)
}

func TestPool_ConnectionsReleased(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 5, 1*time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	for i := 0; i < 10; i++ {
		conn, err := pool.Acquire(ctx)
		require.NoError(t, err, "acquire %d", i)

		var result int
		err = conn.QueryRow(ctx, "SELECT 1").Scan(&result)
		assert.NoError(t, err)
		assert.Equal(t, 1, result)

		conn.Release()
	}

	assert.Equal(t, int32(0), pool.Stat().AcquiredConns(), "connections leaked")
}

func TestPool_SessionParams(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 2, time.Minute, time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	var tz, app string
	require.NoError(t, pool.QueryRow(ctx, "SHOW timezone").Scan(&tz))
	require.NoError(t, pool.QueryRow(ctx, "SELECT current_setting('application_name')").Scan(&app))
	assert.Equal(t, SessionTimezone, tz)
	assert.Equal(t, ApplicationName, app)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	requireDB(t)

	pool, err := NewPool(context.Background(), dsn, 10, 1*time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	checker := leaktest.NewGoroutineChecker(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			ctx := context.Background()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				t.Errorf("acquire %d: %v", id, err)
				return
			}
			defer conn.Release()

			var result int
			if err := conn.QueryRow(ctx, "SELECT $1::int", id).Scan(&result); err != nil {
				t.Errorf("query %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(0), pool.Stat().AcquiredConns(), "connections leaked")
	checker.Check(2)
}

func TestMigrator_UpDownUp(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 5, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	m, err := NewMigrator(pool)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up(ctx))

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.Applied, "migration %d should be applied", s.Version)
	}

	var packs int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM packs").Scan(&packs))
	assert.Equal(t, 5, packs)

	// rolling back the seed and re-applying it is idempotent
	require.NoError(t, m.Down(ctx))
	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Up(ctx))

	var rewards int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM daily_rewards").Scan(&rewards))
	assert.Equal(t, 7, rewards)
}

func TestAuditLog_IsAppendOnly(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 5, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `INSERT INTO audit_log (action, source, success) VALUES ('PACK_OPENED', 'REGULAR_PACK', true)`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `UPDATE audit_log SET success = false`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	_, err = pool.Exec(ctx, `DELETE FROM audit_log`)
	require.Error(t, err)
}
