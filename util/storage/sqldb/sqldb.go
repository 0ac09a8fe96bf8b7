package sqldb

import (
	"context"
	"fmt"
	"time"

	"go-loyalty/util/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type closeDB func() error

type DBContext interface {
	DB() *sqlx.DB
}

type dbContext struct {
	db *sqlx.DB
}

func NewDBContext(dsn string) (DBContext, closeDB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &dbContext{db: db}, func() error {
		logger.Log.Info("Closing database connection pool")
		return db.Close()
	}, nil
}

func (c *dbContext) DB() *sqlx.DB {
	return c.db
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id            BIGINT PRIMARY KEY,
		name          VARCHAR(255) NOT NULL DEFAULT '',
		phone         VARCHAR(30),
		total_spent   NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (total_spent >= 0),
		paid_count    INTEGER NOT NULL DEFAULT 0 CHECK (paid_count >= 0),
		free_credit   INTEGER NOT NULL DEFAULT 0 CHECK (free_credit >= 0),
		registered_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS redemption_tokens (
		id          BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		code        VARCHAR(10) NOT NULL,
		message_id  BIGINT,
		expires_at  TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_redemption_tokens_expires_at ON redemption_tokens (expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_redemption_tokens_code ON redemption_tokens (code)`,
	`CREATE INDEX IF NOT EXISTS idx_redemption_tokens_customer_expires ON redemption_tokens (customer_id, expires_at)`,
	`CREATE TABLE IF NOT EXISTS audit_entries (
		id          BIGSERIAL PRIMARY KEY,
		actor_id    BIGINT NOT NULL,
		actor_name  VARCHAR(255),
		action      VARCHAR(32) NOT NULL,
		customer_id BIGINT,
		amount      NUMERIC(12,2),
		item_count  INTEGER,
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entries_created_at ON audit_entries (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entries_actor_id ON audit_entries (actor_id)`,
}

// EnsureSchema creates missing tables and indexes at startup, in one
// transaction so a half-initialized schema never survives.
func EnsureSchema(ctx context.Context, dbCtx DBContext) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := dbCtx.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	logger.Log.Info("Database schema checked/created successfully")
	return nil
}
