package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/repository"
)

const (
	queryListItemsByRarity = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE rarity = $1 AND is_active
		ORDER BY name`

	queryListOwnedItemIDs = `
		SELECT DISTINCT item_id FROM user_items
		WHERE user_id = $1 AND item_id = ANY($2::uuid[])`

	// Both conditional updates re-check their predicate after waiting on a
	// concurrent writer, so exactly one transaction sees a row affected.
	queryClaimUniqueItem = `
		UPDATE items
		SET unique_owner_id = $2, current_editions = current_editions + 1
		WHERE id = $1 AND unique_owner_id IS NULL
		  AND (max_editions IS NULL OR current_editions < max_editions)`

	queryMintEdition = `
		UPDATE items
		SET current_editions = current_editions + 1
		WHERE id = $1 AND is_limited_edition AND current_editions < max_editions`

	queryInsertUserItem = `
		INSERT INTO user_items (id, user_id, item_id, pack_opening_id, daily_claim_id, source, is_unique)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING obtained_at`

	queryUnlockAchievement = `
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`
)

// Tx wraps a pgx transaction and implements every feature transaction
// interface of the repository package.
type Tx struct {
	tx pgx.Tx
}

var (
	_ repository.PackTx      = (*Tx)(nil)
	_ repository.DailyTx     = (*Tx)(nil)
	_ repository.ReconcileTx = (*Tx)(nil)
	_ repository.UserTx      = (*Tx)(nil)
)

func beginTx(ctx context.Context, db *pgxpool.Pool) (*Tx, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTx, err)
	}
	return &Tx{tx: tx}, nil
}

// Commit maps serialization and constraint failures raised at commit time.
func (t *Tx) Commit(ctx context.Context) error {
	return mapPgError(t.tx.Commit(ctx))
}

// Rollback returns pgx.ErrTxClosed after a commit, which repository.SafeRollback ignores.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// Users and credits

func (t *Tx) GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return getUserForUpdate(ctx, t.tx, userID)
}

func (t *Tx) DebitCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	return debitCredits(ctx, t.tx, userID, amount)
}

func (t *Tx) CreditCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	return creditCredits(ctx, t.tx, userID, amount)
}

func (t *Tx) CreateUser(ctx context.Context, user *domain.User) error {
	return createUser(ctx, t.tx, user)
}

// Catalog

func (t *Tx) GetPack(ctx context.Context, packID uuid.UUID) (*domain.Pack, error) {
	return getPack(ctx, t.tx, packID)
}

func (t *Tx) GetActivePackByType(ctx context.Context, packType domain.PackType) (*domain.Pack, error) {
	return getActivePackByType(ctx, t.tx, packType)
}

// Selection

func (t *Tx) ListItemsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Item, error) {
	rows, err := t.tx.Query(ctx, queryListItemsByRarity, string(rarity))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		var r itemRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		out = append(out, r.toDomain())
	}
	return out, rows.Err()
}

func (t *Tx) ListOwnedItemIDs(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	owned := make(map[uuid.UUID]bool)
	if len(itemIDs) == 0 {
		return owned, nil
	}
	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}

	rows, err := t.tx.Query(ctx, queryListOwnedItemIDs, userID, ids)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		owned[id] = true
	}
	return owned, rows.Err()
}

func (t *Tx) ClaimUniqueItem(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(ctx, queryClaimUniqueItem, itemID, userID)
	if err != nil {
		return false, mapPgError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *Tx) MintEdition(ctx context.Context, itemID uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(ctx, queryMintEdition, itemID)
	if err != nil {
		return false, mapPgError(err)
	}
	return tag.RowsAffected() == 1, nil
}

// InsertUserItem returns domain.ErrConcurrencyConflict when a unique item
// already has an owner row.
func (t *Tx) InsertUserItem(ctx context.Context, item *domain.UserItem, unique bool) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	err := t.tx.QueryRow(ctx, queryInsertUserItem,
		item.ID, item.UserID, item.ItemID, item.PackOpeningID, item.DailyClaimID, string(item.Source), unique,
	).Scan(&item.ObtainedAt)
	return mapPgError(err)
}

func (t *Tx) InsertPackOpening(ctx context.Context, opening *domain.PackOpening) error {
	return insertPackOpening(ctx, t.tx, opening)
}

// Grants

func (t *Tx) CreatePackGrant(ctx context.Context, grant *domain.PackGrant) error {
	return createPackGrant(ctx, t.tx, grant)
}

func (t *Tx) ClaimPackGrant(ctx context.Context, grantID, userID uuid.UUID) (*domain.PackGrant, error) {
	return claimPackGrant(ctx, t.tx, grantID, userID)
}

// Progression and stats

func (t *Tx) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return listAchievements(ctx, t.tx)
}

func (t *Tx) UnlockAchievement(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(ctx, queryUnlockAchievement, userID, achievementID)
	if err != nil {
		return false, mapPgError(err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetStatsForUpdate creates a missing stats row before locking it.
func (t *Tx) GetStatsForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	if _, err := t.tx.Exec(ctx, queryEnsureStats, userID); err != nil {
		return nil, mapPgError(err)
	}
	return scanStats(t.tx.QueryRow(ctx, queryGetStatsForUpdate, userID))
}

func (t *Tx) UpdateStats(ctx context.Context, stats *domain.UserStats) error {
	return t.tx.QueryRow(ctx, queryUpdateStats, stats.UserID, stats.TotalPacksOpened, stats.TotalItemsCollected,
		stats.LegendaryItemsFound, stats.TotalXP, stats.Level).Scan(&stats.UpdatedAt)
}

func (t *Tx) CountActual(ctx context.Context, userID uuid.UUID) (*domain.ActualCounts, error) {
	return countActual(ctx, t.tx, userID)
}

// Daily

func (t *Tx) GetLastClaim(ctx context.Context, userID uuid.UUID) (*domain.DailyRewardClaim, error) {
	return getLastClaim(ctx, t.tx, userID)
}

func (t *Tx) InsertClaim(ctx context.Context, claim *domain.DailyRewardClaim) error {
	return insertClaim(ctx, t.tx, claim)
}

// Audit

func (t *Tx) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	return appendAudit(ctx, t.tx, entry)
}
