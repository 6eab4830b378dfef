package repository

import "context"

// Tx is the commit/rollback half embedded by every feature transaction.
// Rollback after a successful Commit fails with domain.ErrMsgTxClosed, which
// SafeRollback ignores.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
