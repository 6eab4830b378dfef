// Package reconcile detects and repairs drift between the cached user_stats
// rows and the ledger tables they are derived from.
package reconcile

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/metrics"
	"github.com/dropa-gg/dropa/internal/progression"
	"github.com/dropa-gg/dropa/internal/repository"
)

// Service defines the stats integrity operations
type Service interface {
	// CheckConsistency is read-only and reports every drifting user.
	CheckConsistency(ctx context.Context) ([]domain.Inconsistency, error)
	// Fix rewrites one user's stats from the ledger. Calling it again without
	// intervening writes changes nothing.
	Fix(ctx context.Context, userID uuid.UUID) (*domain.FixResult, error)
	// FixAll fixes every drifting user under the run lock.
	FixAll(ctx context.Context) (*domain.FixAllResult, error)
}

// Config controls FixAll fan-out.
type Config struct {
	Concurrency int
}

type service struct {
	repo        repository.Reconcile
	locker      Locker
	concurrency int
}

// NewService creates a new reconcile service. A nil locker falls back to an
// in-process one.
func NewService(repo repository.Reconcile, locker Locker, cfg Config) Service {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &service{repo: repo, locker: locker, concurrency: cfg.Concurrency}
}

func (s *service) CheckConsistency(ctx context.Context) ([]domain.Inconsistency, error) {
	_, out, err := s.check(ctx)
	return out, err
}

// check returns how many users were compared and which of them drift.
func (s *service) check(ctx context.Context) (int, []domain.Inconsistency, error) {
	log := logger.FromContext(ctx)

	rows, err := s.repo.CompareAllStats(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf(ErrMsgCompareFailed, err)
	}

	var out []domain.Inconsistency
	for _, row := range rows {
		expected := progression.ExpectedStats(row.Stored.UserID, row.Actual)
		diffs := row.Stored.Diff(expected)
		if len(diffs) == 0 {
			continue
		}
		for _, d := range diffs {
			metrics.StatsDriftDetected.WithLabelValues(d.Field).Inc()
		}
		log.Warn(LogMsgDriftDetected, "user_id", row.Stored.UserID, "fields", len(diffs))
		out = append(out, domain.Inconsistency{
			UserID: row.Stored.UserID,
			Stored: row.Stored,
			Actual: expected,
			Fields: diffs,
		})
	}
	return len(rows), out, nil
}

func (s *service) Fix(ctx context.Context, userID uuid.UUID) (*domain.FixResult, error) {
	start := time.Now()
	result, err := s.fix(ctx, userID)
	metrics.TransactionDuration.WithLabelValues(metrics.OperationFixStats).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordFailure(metrics.OperationFixStats, err)
		logger.FromContext(ctx).Warn(LogMsgFixFailed, "user_id", userID, "error", err)
		return nil, err
	}
	if result.Changed {
		for _, d := range result.Fields {
			metrics.StatsCorrected.WithLabelValues(d.Field).Inc()
		}
		logger.FromContext(ctx).Info(LogMsgStatsCorrected, "user_id", userID, "fields", len(result.Fields))
	}
	return result, nil
}

func (s *service) fix(ctx context.Context, userID uuid.UUID) (*domain.FixResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	stored, err := tx.GetStatsForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLockStatsFailed, err)
	}
	actual, err := tx.CountActual(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCountActualFailed, err)
	}

	expected := progression.ExpectedStats(userID, *actual)
	result := &domain.FixResult{UserID: userID, Before: *stored, After: *stored}
	result.Fields = stored.Diff(expected)
	if len(result.Fields) == 0 {
		return result, nil
	}

	if err := tx.UpdateStats(ctx, &expected); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateStatsFailed, err)
	}
	entry := audit.NewEntry(userID, domain.ActionStatsCorrected, domain.SourceReconciler, stored, expected,
		map[string]any{MetaKeyFields: result.Fields})
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return nil, fmt.Errorf(ErrMsgAuditFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	result.Changed = true
	result.After = expected
	return result, nil
}

func (s *service) FixAll(ctx context.Context) (*domain.FixAllResult, error) {
	log := logger.FromContext(ctx)

	release, err := s.locker.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.Error(LogMsgReleaseFailed, "error", err)
		}
	}()

	start := time.Now()
	defer func() {
		metrics.ReconcileRunDuration.Observe(time.Since(start).Seconds())
	}()

	checked, drifting, err := s.check(ctx)
	if err != nil {
		return nil, err
	}
	log.Info(LogMsgFixAllStarted, "checked", checked, "drifting", len(drifting))

	var (
		mu     sync.Mutex
		result = &domain.FixAllResult{Checked: checked, Drifting: len(drifting)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, inc := range drifting {
		g.Go(func() error {
			res, err := s.Fix(gctx, inc.UserID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// one bad user does not stop the pass
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf(ErrMsgFixUserFmt, inc.UserID, err))
				return nil
			}
			if res.Changed {
				result.Fixed++
				result.Results = append(result.Results, *res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(result.Results, func(a, b domain.FixResult) int {
		return strings.Compare(a.UserID.String(), b.UserID.String())
	})

	log.Info(LogMsgFixAllCompleted, "drifting", result.Drifting, "fixed", result.Fixed, "failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
