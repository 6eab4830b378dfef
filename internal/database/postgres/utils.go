package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropa-gg/dropa/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so read queries are
// shared between pool-level repositories and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

// uniqueViolations maps unique constraint names to the domain error they mean.
var uniqueViolations = map[string]error{
	ConstraintFreePackGrant:  domain.ErrFreePackAlreadyGranted,
	ConstraintDailyClaimDate: domain.ErrAlreadyClaimedToday,
	ConstraintUniqueItem:     domain.ErrConcurrencyConflict,
	ConstraintUsername:       domain.ErrUserAlreadyExists,
}

// mapPgError translates constraint and serialization failures to domain errors.
// Other errors are returned unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case PgCodeUniqueViolation:
		if mapped, ok := uniqueViolations[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w: %s", mapped, pgErr.ConstraintName)
		}
	case PgCodeSerializationFailure, PgCodeDeadlockDetected:
		return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Message)
	case PgCodeForeignKeyViolation:
		if pgErr.ConstraintName == ConstraintUserFK || pgErr.ConstraintName == ConstraintStatsUserFK {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

// nullJSON keeps empty JSON documents NULL instead of the literal null.
func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func ptrPackType(s *string) *domain.PackType {
	if s == nil {
		return nil
	}
	pt := domain.PackType(*s)
	return &pt
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
