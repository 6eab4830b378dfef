package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/repository"
)

const (
	statsColumns = `user_id, total_packs_opened, total_items_collected, legendary_items_found, total_xp, level, updated_at`

	queryGetStats = `SELECT ` + statsColumns + ` FROM user_stats WHERE user_id = $1`

	queryEnsureStats = `
		INSERT INTO user_stats (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	queryGetStatsForUpdate = `SELECT ` + statsColumns + ` FROM user_stats WHERE user_id = $1 FOR UPDATE`

	queryUpdateStats = `
		UPDATE user_stats
		SET total_packs_opened = $2, total_items_collected = $3, legendary_items_found = $4,
		    total_xp = $5, level = $6, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	// Ledger counts, the source of truth the cached row is checked against.
	actualCountsSelect = `
		(SELECT COUNT(*) FROM pack_openings po WHERE po.user_id = %[1]s),
		(SELECT COUNT(*) FROM user_items ui WHERE ui.user_id = %[1]s),
		(SELECT COUNT(*) FROM user_items ui JOIN items i ON i.id = ui.item_id
		  WHERE ui.user_id = %[1]s AND i.rarity = 'LENDARIO'),
		(SELECT COALESCE(SUM(a.xp), 0) FROM user_achievements ua JOIN achievements a ON a.id = ua.achievement_id
		  WHERE ua.user_id = %[1]s)`
)

var (
	queryCountActual = `SELECT ` + fmt.Sprintf(actualCountsSelect, "$1")

	// Every user is compared; a missing cached row reads as zeros.
	queryCompareAllStats = `SELECT u.id, COALESCE(s.total_packs_opened, 0), COALESCE(s.total_items_collected, 0),
		COALESCE(s.legendary_items_found, 0), COALESCE(s.total_xp, 0), COALESCE(s.level, 0),
		COALESCE(s.updated_at, u.created_at), ` + fmt.Sprintf(actualCountsSelect, "u.id") + `
		FROM users u
		LEFT JOIN user_stats s ON s.user_id = u.id
		ORDER BY u.id`
)

func scanStats(row pgx.Row) (*domain.UserStats, error) {
	var st domain.UserStats
	err := row.Scan(&st.UserID, &st.TotalPacksOpened, &st.TotalItemsCollected, &st.LegendaryItemsFound,
		&st.TotalXP, &st.Level, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}
	return &st, nil
}

func getStats(ctx context.Context, q querier, userID uuid.UUID) (*domain.UserStats, error) {
	return scanStats(q.QueryRow(ctx, queryGetStats, userID))
}

func countActual(ctx context.Context, q querier, userID uuid.UUID) (*domain.ActualCounts, error) {
	var c domain.ActualCounts
	if err := q.QueryRow(ctx, queryCountActual, userID).Scan(&c.PacksOpened, &c.ItemsCollected, &c.LegendaryFound, &c.AchievementXP); err != nil {
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}
	return &c, nil
}

// ReconcileRepository implements repository.Reconcile
type ReconcileRepository struct {
	db *pgxpool.Pool
}

// NewReconcileRepository creates a new PostgreSQL reconcile repository
func NewReconcileRepository(db *pgxpool.Pool) *ReconcileRepository {
	return &ReconcileRepository{db: db}
}

var _ repository.Reconcile = (*ReconcileRepository)(nil)

func (r *ReconcileRepository) BeginTx(ctx context.Context) (repository.ReconcileTx, error) {
	tx, err := beginTx(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// CompareAllStats reads every user's cached stats with its ledger counts in
// one statement, so stored and actual values come from the same snapshot.
func (r *ReconcileRepository) CompareAllStats(ctx context.Context) ([]domain.StatsComparison, error) {
	rows, err := r.db.Query(ctx, queryCompareAllStats)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.StatsComparison
	for rows.Next() {
		var c domain.StatsComparison
		s := &c.Stored
		if err := rows.Scan(&s.UserID, &s.TotalPacksOpened, &s.TotalItemsCollected, &s.LegendaryItemsFound,
			&s.TotalXP, &s.Level, &s.UpdatedAt,
			&c.Actual.PacksOpened, &c.Actual.ItemsCollected, &c.Actual.LegendaryFound, &c.Actual.AchievementXP); err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
