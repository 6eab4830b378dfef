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
	queryListDailyRewards = `
		SELECT id, day, reward_type, reward_value, pack_type, description
		FROM daily_rewards
		ORDER BY day`

	claimColumns = `id, user_id, reward_id, claim_date, streak, cycle_day, bonus_percent, granted_value, claimed_at`

	queryGetLastClaim = `
		SELECT ` + claimColumns + `
		FROM daily_reward_claims
		WHERE user_id = $1
		ORDER BY claim_date DESC
		LIMIT 1`

	// claim_date is a DATE; the caller passes the local calendar day as UTC midnight.
	queryInsertClaim = `
		INSERT INTO daily_reward_claims (id, user_id, reward_id, claim_date, streak, cycle_day, bonus_percent, granted_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING claimed_at`
)

func getLastClaim(ctx context.Context, q querier, userID uuid.UUID) (*domain.DailyRewardClaim, error) {
	var c domain.DailyRewardClaim
	err := q.QueryRow(ctx, queryGetLastClaim, userID).Scan(
		&c.ID, &c.UserID, &c.RewardID, &c.ClaimDate, &c.Streak, &c.CycleDay, &c.BonusPercent, &c.GrantedValue, &c.ClaimedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}
	return &c, nil
}

// insertClaim returns domain.ErrAlreadyClaimedToday on a (user, date) conflict.
func insertClaim(ctx context.Context, q querier, c *domain.DailyRewardClaim) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := q.QueryRow(ctx, queryInsertClaim,
		c.ID, c.UserID, c.RewardID, c.ClaimDate, c.Streak, c.CycleDay, c.BonusPercent, c.GrantedValue,
	).Scan(&c.ClaimedAt)
	return mapPgError(err)
}

// DailyRepository implements repository.Daily
type DailyRepository struct {
	db *pgxpool.Pool
}

// NewDailyRepository creates a new PostgreSQL daily reward repository
func NewDailyRepository(db *pgxpool.Pool) *DailyRepository {
	return &DailyRepository{db: db}
}

var _ repository.Daily = (*DailyRepository)(nil)

func (r *DailyRepository) BeginTx(ctx context.Context) (repository.DailyTx, error) {
	tx, err := beginTx(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *DailyRepository) ListDailyRewards(ctx context.Context) ([]domain.DailyReward, error) {
	rows, err := r.db.Query(ctx, queryListDailyRewards)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.DailyReward
	for rows.Next() {
		var d domain.DailyReward
		var rewardType string
		var packType *string
		if err := rows.Scan(&d.ID, &d.Day, &rewardType, &d.RewardValue, &packType, &d.Description); err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		d.RewardType = domain.RewardType(rewardType)
		d.PackType = ptrPackType(packType)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DailyRepository) GetLastClaim(ctx context.Context, userID uuid.UUID) (*domain.DailyRewardClaim, error) {
	return getLastClaim(ctx, r.db, userID)
}
