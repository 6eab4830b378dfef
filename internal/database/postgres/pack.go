package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/repository"
)

const (
	openingColumns = `id, user_id, pack_id, item_id, grant_id, credits_spent, source, opened_at`

	queryInsertPackOpening = `
		INSERT INTO pack_openings (id, user_id, pack_id, item_id, grant_id, credits_spent, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING opened_at`

	grantColumns = `id, user_id, pack_type, source, created_at, claimed_at`

	queryCreatePackGrant = `
		INSERT INTO pack_grants (id, user_id, pack_type, source)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	queryClaimPackGrant = `
		UPDATE pack_grants SET claimed_at = NOW()
		WHERE id = $1 AND user_id = $2 AND claimed_at IS NULL
		RETURNING ` + grantColumns

	queryGetGrantClaimedAt = `SELECT claimed_at FROM pack_grants WHERE id = $1 AND user_id = $2`

	queryListPackGrants = `
		SELECT ` + grantColumns + ` FROM pack_grants
		WHERE user_id = $1
		ORDER BY created_at, id`
)

func scanOpening(row pgx.Row) (*domain.PackOpening, error) {
	var o domain.PackOpening
	var source string
	if err := row.Scan(&o.ID, &o.UserID, &o.PackID, &o.ItemID, &o.GrantID, &o.CreditsSpent, &source, &o.OpenedAt); err != nil {
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}
	o.Source = domain.Source(source)
	return &o, nil
}

func insertPackOpening(ctx context.Context, q querier, o *domain.PackOpening) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	err := q.QueryRow(ctx, queryInsertPackOpening,
		o.ID, o.UserID, o.PackID, o.ItemID, o.GrantID, o.CreditsSpent, string(o.Source),
	).Scan(&o.OpenedAt)
	return mapPgError(err)
}

func scanGrant(row pgx.Row) (*domain.PackGrant, error) {
	var g domain.PackGrant
	var packType, source string
	if err := row.Scan(&g.ID, &g.UserID, &packType, &source, &g.CreatedAt, &g.ClaimedAt); err != nil {
		return nil, err
	}
	g.PackType = domain.PackType(packType)
	g.Source = domain.Source(source)
	return &g, nil
}

// createPackGrant returns domain.ErrFreePackAlreadyGranted for a second
// FREE_PACK grant of a user.
func createPackGrant(ctx context.Context, q querier, g *domain.PackGrant) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	err := q.QueryRow(ctx, queryCreatePackGrant, g.ID, g.UserID, string(g.PackType), string(g.Source)).Scan(&g.CreatedAt)
	return mapPgError(err)
}

func claimPackGrant(ctx context.Context, q querier, grantID, userID uuid.UUID) (*domain.PackGrant, error) {
	g, err := scanGrant(q.QueryRow(ctx, queryClaimPackGrant, grantID, userID))
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}

	var claimedAt *time.Time
	if err := q.QueryRow(ctx, queryGetGrantClaimedAt, grantID, userID).Scan(&claimedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGrantNotFound
		}
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}
	return nil, domain.ErrGrantAlreadyClaimed
}

// PackRepository implements repository.Pack
type PackRepository struct {
	db *pgxpool.Pool
}

// NewPackRepository creates a new PostgreSQL pack repository
func NewPackRepository(db *pgxpool.Pool) *PackRepository {
	return &PackRepository{db: db}
}

var _ repository.Pack = (*PackRepository)(nil)

func (r *PackRepository) BeginTx(ctx context.Context) (repository.PackTx, error) {
	tx, err := beginTx(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *PackRepository) ListPackGrants(ctx context.Context, userID uuid.UUID) ([]domain.PackGrant, error) {
	rows, err := r.db.Query(ctx, queryListPackGrants, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.PackGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
