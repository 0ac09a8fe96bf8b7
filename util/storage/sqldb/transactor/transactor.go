// Ref: https://github.com/Thiht/transactor/blob/main/sqlx/transactor.go
package transactor

import (
	"context"
	"fmt"
	"sync"

	"go-loyalty/util/logger"

	"github.com/jmoiron/sqlx"
)

// PostCommitHook runs after the outermost transaction commits. Hook failures
// never roll anything back; they only surface through the log.
type PostCommitHook func(ctx context.Context) error

type Transactor interface {
	WithinTransaction(ctx context.Context, txFunc func(ctxWithTx context.Context, registerPostCommitHook func(PostCommitHook)) error) error
}

type NestedTransactionsStrategy int

const (
	// NestedTransactionsNone fails when WithinTransaction is called inside an
	// already-running transaction.
	NestedTransactionsNone NestedTransactionsStrategy = iota
	// NestedTransactionsSavepoints maps nested calls onto SAVEPOINT /
	// RELEASE / ROLLBACK TO so an inner failure only undoes the inner unit.
	NestedTransactionsSavepoints
)

type postCommitHooks struct {
	mu    sync.Mutex
	hooks []PostCommitHook
}

func (h *postCommitHooks) register(hook PostCommitHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

func (h *postCommitHooks) run(ctx context.Context) {
	h.mu.Lock()
	hooks := h.hooks
	h.hooks = nil
	h.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			logger.Log.Warn(fmt.Sprintf("post-commit hook failed: %v", err))
		}
	}
}

type sqlTransactor struct {
	db       *sqlx.DB
	strategy NestedTransactionsStrategy
}

type Option func(*sqlTransactor)

func WithNestedTransactionStrategy(strategy NestedTransactionsStrategy) Option {
	return func(t *sqlTransactor) {
		t.strategy = strategy
	}
}

func New(db *sqlx.DB, opts ...Option) (Transactor, DBTXContext) {
	t := &sqlTransactor{
		db:       db,
		strategy: NestedTransactionsNone,
	}
	for _, opt := range opts {
		opt(t)
	}

	dbGetter := func(ctx context.Context) DBTX {
		if tx := txFromContext(ctx); tx != nil {
			return tx
		}
		return db
	}

	return t, dbGetter
}

func (t *sqlTransactor) WithinTransaction(ctx context.Context, txFunc func(ctx context.Context, registerPostCommitHook func(PostCommitHook)) error) error {
	if tx := txFromContext(ctx); tx != nil {
		return t.withinNestedTransaction(ctx, tx, txFunc)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // If rollback fails, there's nothing to do, the transaction will expire by itself
	}()

	hooks := &postCommitHooks{}
	ctxWithTx := hooksToContext(txToContext(ctx, tx), hooks)

	if err := txFunc(ctxWithTx, hooks.register); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// hooks run against the original context: the transaction is gone
	hooks.run(ctx)
	return nil
}

func (t *sqlTransactor) withinNestedTransaction(ctx context.Context, tx *sqlx.Tx, txFunc func(ctx context.Context, registerPostCommitHook func(PostCommitHook)) error) error {
	if t.strategy == NestedTransactionsNone {
		return fmt.Errorf("nested transactions are not supported")
	}

	hooks := hooksFromContext(ctx)
	if hooks == nil {
		return fmt.Errorf("transaction context is missing its post-commit hook registry")
	}

	depth := depthFromContext(ctx) + 1
	name := fmt.Sprintf("sp_%d", depth)

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := txFunc(depthToContext(ctx, depth), hooks.register); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("failed to rollback to savepoint: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}
