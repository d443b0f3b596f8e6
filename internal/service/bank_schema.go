package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaBootstrapper makes sure the ledger tables exist before the server
// starts taking traffic. The DDL is idempotent, so running it on every
// boot is safe; migrations/ holds the same statements for tooling that
// applies them out of band.
type SchemaBootstrapper struct {
	db *pgxpool.Pool
}

func NewSchemaBootstrapper(db *pgxpool.Pool) *SchemaBootstrapper {
	return &SchemaBootstrapper{db: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		kind TEXT NOT NULL DEFAULT 'checking',
		balance_cents BIGINT NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT NOT NULL REFERENCES accounts(id),
		kind TEXT NOT NULL,
		amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
		description TEXT,
		counterparty_account_id BIGINT,
		receipt_code TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_order
		ON transactions (account_id, created_at, id)`,
	`CREATE TABLE IF NOT EXISTS statements (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT NOT NULL REFERENCES accounts(id),
		period_start TIMESTAMPTZ NOT NULL,
		period_end TIMESTAMPTZ NOT NULL,
		opening_balance_cents BIGINT NOT NULL,
		closing_balance_cents BIGINT NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT NOT NULL REFERENCES accounts(id),
		brand TEXT NOT NULL,
		holder_name TEXT NOT NULL,
		last4 TEXT NOT NULL,
		card_token TEXT NOT NULL UNIQUE,
		exp_month INT NOT NULL,
		exp_year INT NOT NULL,
		cvv_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func (s *SchemaBootstrapper) EnsureSchema(ctx context.Context) error {
	log.Println("🚀 Ensuring ledger schema...")

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	log.Println("✅ Ledger schema ready")
	return nil
}
