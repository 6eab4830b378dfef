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
	userColumns = `id, username, credits, role, created_at`

	queryGetUser          = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryGetUserForUpdate = `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	queryInsertUser = `
		INSERT INTO users (id, username, credits, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	queryInsertEmptyStats = `
		INSERT INTO user_stats (user_id, updated_at)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`

	// Conditional decrement: zero rows means the balance does not cover amount.
	queryDebitCredits = `
		UPDATE users SET credits = credits - $2
		WHERE id = $1 AND credits >= $2
		RETURNING credits`

	queryCreditCredits = `
		UPDATE users SET credits = credits + $2
		WHERE id = $1
		RETURNING credits`

	queryUserExists = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	queryListUserItems = `
		SELECT ui.id, ui.user_id, ui.item_id, ui.pack_opening_id, ui.daily_claim_id, ui.source, ui.obtained_at,
		       ` + itemColumnsPrefixed + `
		FROM user_items ui
		JOIN items i ON i.id = ui.item_id
		WHERE ui.user_id = $1
		ORDER BY ui.obtained_at DESC, ui.id
		LIMIT $2 OFFSET $3`

	queryListPackOpenings = `
		SELECT ` + openingColumns + `
		FROM pack_openings
		WHERE user_id = $1
		ORDER BY opened_at DESC, id
		LIMIT $2 OFFSET $3`
)

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Credits, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func getUser(ctx context.Context, q querier, userID uuid.UUID) (*domain.User, error) {
	return scanUser(q.QueryRow(ctx, queryGetUser, userID))
}

func getUserForUpdate(ctx context.Context, q querier, userID uuid.UUID) (*domain.User, error) {
	return scanUser(q.QueryRow(ctx, queryGetUserForUpdate, userID))
}

func debitCredits(ctx context.Context, q querier, userID uuid.UUID, amount int) (int, error) {
	var balance int
	err := q.QueryRow(ctx, queryDebitCredits, userID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if err := q.QueryRow(ctx, queryUserExists, userID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrUserNotFound
	}
	return 0, domain.ErrInsufficientCredits
}

func creditCredits(ctx context.Context, q querier, userID uuid.UUID, amount int) (int, error) {
	var balance int
	if err := q.QueryRow(ctx, queryCreditCredits, userID, amount).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

func createUser(ctx context.Context, q querier, user *domain.User) error {
	if err := q.QueryRow(ctx, queryInsertUser, user.ID, user.Username, user.Credits, string(user.Role)).Scan(&user.CreatedAt); err != nil {
		return mapPgError(err)
	}
	_, err := q.Exec(ctx, queryInsertEmptyStats, user.ID, user.CreatedAt)
	return err
}

// UserRepository implements repository.User
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

var _ repository.User = (*UserRepository)(nil)

func (r *UserRepository) BeginTx(ctx context.Context) (repository.UserTx, error) {
	tx, err := beginTx(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *UserRepository) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return getUser(ctx, r.db, userID)
}

func (r *UserRepository) GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	return getStats(ctx, r.db, userID)
}

func (r *UserRepository) ListUserItems(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.OwnedItem, error) {
	rows, err := r.db.Query(ctx, queryListUserItems, userID, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.OwnedItem
	for rows.Next() {
		var oi domain.OwnedItem
		var source string
		var item itemRow
		dest := append([]any{
			&oi.ID, &oi.UserID, &oi.ItemID, &oi.PackOpeningID, &oi.DailyClaimID, &source, &oi.ObtainedAt,
		}, item.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		oi.Source = domain.Source(source)
		oi.Item = item.toDomain()
		out = append(out, oi)
	}
	return out, rows.Err()
}

func (r *UserRepository) ListPackOpenings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.PackOpening, error) {
	rows, err := r.db.Query(ctx, queryListPackOpenings, userID, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.PackOpening
	for rows.Next() {
		o, err := scanOpening(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
