package transactor

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type (
	transactorKey struct{}
	hooksKey      struct{}
	depthKey      struct{}
)

func txToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, transactorKey{}, tx)
}

func txFromContext(ctx context.Context) *sqlx.Tx {
	if tx, ok := ctx.Value(transactorKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return nil
}

func hooksToContext(ctx context.Context, h *postCommitHooks) context.Context {
	return context.WithValue(ctx, hooksKey{}, h)
}

func hooksFromContext(ctx context.Context) *postCommitHooks {
	if h, ok := ctx.Value(hooksKey{}).(*postCommitHooks); ok {
		return h
	}
	return nil
}

func depthToContext(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}

func depthFromContext(ctx context.Context) int {
	if d, ok := ctx.Value(depthKey{}).(int); ok {
		return d
	}
	return 0
}

func IsWithinTransaction(ctx context.Context) bool {
	return ctx.Value(transactorKey{}) != nil
}
