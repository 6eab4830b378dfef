package postgres

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/repository"
)

const (
	itemColumns = `id, name, rarity, value, scarcity_level, is_limited_edition, max_editions,
		current_editions, unique_owner_id, single_ownership, is_active`
	itemColumnsPrefixed = `i.id, i.name, i.rarity, i.value, i.scarcity_level, i.is_limited_edition, i.max_editions,
		i.current_editions, i.unique_owner_id, i.single_ownership, i.is_active`

	packColumns = `id, name, type, price, is_active`

	queryGetPack = `SELECT ` + packColumns + ` FROM packs WHERE id = $1`

	// Cheapest active pack of a tier wins; name breaks price ties.
	queryGetActivePackByType = `
		SELECT ` + packColumns + ` FROM packs
		WHERE type = $1 AND is_active
		ORDER BY price, name
		LIMIT 1`

	queryListActivePacks = `
		SELECT ` + packColumns + ` FROM packs
		WHERE is_active
		ORDER BY price, name`

	queryListProbabilities = `
		SELECT pack_id, rarity, percentage::float8
		FROM pack_probabilities
		WHERE pack_id = ANY($1::uuid[])`

	queryListAchievements = `
		SELECT id, key, name, xp, condition, threshold
		FROM achievements
		ORDER BY threshold, key`
)

// itemRow scans an items row before conversion to domain types.
type itemRow struct {
	item     domain.Item
	rarity   string
	scarcity string
}

func (r *itemRow) dest() []any {
	return []any{
		&r.item.ID, &r.item.Name, &r.rarity, &r.item.Value, &r.scarcity, &r.item.IsLimitedEdition,
		&r.item.MaxEditions, &r.item.CurrentEditions, &r.item.UniqueOwnerID, &r.item.SingleOwnership,
		&r.item.IsActive,
	}
}

func (r *itemRow) toDomain() domain.Item {
	item := r.item
	item.Rarity = domain.Rarity(r.rarity)
	item.ScarcityLevel = domain.ScarcityLevel(r.scarcity)
	return item
}

func scanPackRow(row pgx.Row) (*domain.Pack, error) {
	var p domain.Pack
	var packType string
	if err := row.Scan(&p.ID, &p.Name, &packType, &p.Price, &p.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgScanRow, err)
	}
	p.Type = domain.PackType(packType)
	return &p, nil
}

// attachProbabilities loads the probability tables of packs in one query.
func attachProbabilities(ctx context.Context, q querier, packs []*domain.Pack) error {
	if len(packs) == 0 {
		return nil
	}
	ids := make([]string, len(packs))
	byID := make(map[uuid.UUID]*domain.Pack, len(packs))
	for i, p := range packs {
		ids[i] = p.ID.String()
		byID[p.ID] = p
	}

	rows, err := q.Query(ctx, queryListProbabilities, ids)
	if err != nil {
		return fmt.Errorf(ErrMsgLoadProbabilities, err)
	}
	defer rows.Close()

	for rows.Next() {
		var packID uuid.UUID
		var rarity string
		var pct float64
		if err := rows.Scan(&packID, &rarity, &pct); err != nil {
			return fmt.Errorf(ErrMsgScanRow, err)
		}
		p := byID[packID]
		p.Probabilities = append(p.Probabilities, domain.PackProbability{Rarity: domain.Rarity(rarity), Percentage: pct})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf(ErrMsgLoadProbabilities, err)
	}
	for _, p := range packs {
		slices.SortFunc(p.Probabilities, func(a, b domain.PackProbability) int {
			return cmp.Compare(a.Rarity.Index(), b.Rarity.Index())
		})
	}
	return nil
}

func getPackWith(ctx context.Context, q querier, query string, arg any) (*domain.Pack, error) {
	p, err := scanPackRow(q.QueryRow(ctx, query, arg))
	if err != nil || p == nil {
		return nil, err
	}
	if err := attachProbabilities(ctx, q, []*domain.Pack{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func getPack(ctx context.Context, q querier, packID uuid.UUID) (*domain.Pack, error) {
	return getPackWith(ctx, q, queryGetPack, packID)
}

func getActivePackByType(ctx context.Context, q querier, packType domain.PackType) (*domain.Pack, error) {
	return getPackWith(ctx, q, queryGetActivePackByType, string(packType))
}

func listAchievements(ctx context.Context, q querier) ([]domain.Achievement, error) {
	rows, err := q.Query(ctx, queryListAchievements)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var condition string
		if err := rows.Scan(&a.ID, &a.Key, &a.Name, &a.XP, &condition, &a.Threshold); err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		a.Condition = domain.AchievementCondition(condition)
		out = append(out, a)
	}
	return out, rows.Err()
}

// CatalogRepository implements repository.Catalog
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var _ repository.Catalog = (*CatalogRepository)(nil)

func (r *CatalogRepository) ListActivePacks(ctx context.Context) ([]domain.Pack, error) {
	rows, err := r.db.Query(ctx, queryListActivePacks)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	var packs []*domain.Pack
	for rows.Next() {
		p, err := scanPackRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		packs = append(packs, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}

	if err := attachProbabilities(ctx, r.db, packs); err != nil {
		return nil, err
	}
	out := make([]domain.Pack, len(packs))
	for i, p := range packs {
		out[i] = *p
	}
	return out, nil
}

func (r *CatalogRepository) GetPackByID(ctx context.Context, packID uuid.UUID) (*domain.Pack, error) {
	return getPack(ctx, r.db, packID)
}

func (r *CatalogRepository) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return listAchievements(ctx, r.db)
}
