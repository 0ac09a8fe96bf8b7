package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-loyalty/modules/loyalty/internal/model"
	"go-loyalty/util/errs"
	"go-loyalty/util/storage/sqldb/transactor"
)

type TokenRepository interface {
	Insert(ctx context.Context, customerID int64, code string, expiresAt time.Time) (*model.Token, error)
	AttachMessage(ctx context.Context, customerID int64, code string, messageID int64) error
	FindValidByCodeForUpdate(ctx context.Context, code string, now time.Time) (*model.Token, error)
	DeleteByCode(ctx context.Context, code string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) ([]model.ExpiredToken, error)
}

type tokenRepository struct {
	dbCtx transactor.DBTXContext
}

func NewTokenRepository(dbCtx transactor.DBTXContext) TokenRepository {
	return &tokenRepository{
		dbCtx: dbCtx,
	}
}

func (r *tokenRepository) Insert(ctx context.Context, customerID int64, code string, expiresAt time.Time) (*model.Token, error) {
	query := `
	INSERT INTO redemption_tokens (customer_id, code, expires_at)
	VALUES ($1, $2, $3)
	RETURNING *
	`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var token model.Token
	err := r.dbCtx(ctx).
		QueryRowxContext(ctx, query, customerID, code, expiresAt).
		StructScan(&token)
	if err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while inserting a token: %w", err))
	}
	return &token, nil
}

func (r *tokenRepository) AttachMessage(ctx context.Context, customerID int64, code string, messageID int64) error {
	query := `UPDATE redemption_tokens SET message_id = $3 WHERE customer_id = $1 AND code = $2`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.dbCtx(ctx).ExecContext(ctx, query, customerID, code, messageID)
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("an error occurred while attaching a message to a token: %w", err))
	}
	return nil
}

// FindValidByCodeForUpdate locks the unexpired token row for the rest of the
// enclosing transaction. Expired and unknown codes look the same to callers.
func (r *tokenRepository) FindValidByCodeForUpdate(ctx context.Context, code string, now time.Time) (*model.Token, error) {
	query := `
	SELECT *
	FROM redemption_tokens
	WHERE code = $1 AND expires_at > $2
	FOR UPDATE
	`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var token model.Token
	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, code, now).StructScan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while locking a token by code: %w", err))
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByCode(ctx context.Context, code string) (bool, error) {
	query := `DELETE FROM redemption_tokens WHERE code = $1`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := r.dbCtx(ctx).ExecContext(ctx, query, code)
	if err != nil {
		return false, errs.HandleDBError(fmt.Errorf("an error occurred while deleting a token: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errs.HandleDBError(err)
	}
	return n > 0, nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) ([]model.ExpiredToken, error) {
	query := `
	DELETE FROM redemption_tokens
	WHERE expires_at < $1
	RETURNING customer_id, message_id
	`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var expired []model.ExpiredToken
	if err := r.dbCtx(ctx).SelectContext(ctx, &expired, query, now); err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while deleting expired tokens: %w", err))
	}
	return expired, nil
}
