package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banking-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the append-only log. Append runs only inside the
// ledger transaction; the id and timestamp come back from the database so
// the (created_at, id) order is assigned at commit time, never by callers.
type TransactionRepository interface {
	Append(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error

	// ListByAccount returns the account's history newest first.
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error)

	// ListBefore returns every transaction with created_at strictly before
	// cutoff, oldest first. This is the statement engine's only read path.
	ListBefore(ctx context.Context, accountID int64, cutoff time.Time) ([]*domain.Transaction, error)
}

type transactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepo(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

const transactionColumns = `id, account_id, kind, amount_cents, description, counterparty_account_id, receipt_code, created_at`

func (r *transactionRepo) Append(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	// Structural well-formedness only; the ledger usecase owns the business
	// rules and has already validated the amount.
	if txn.AmountCents <= 0 {
		return fmt.Errorf("refusing to append non-positive amount %d", txn.AmountCents)
	}
	if !txn.Kind.Valid() {
		return fmt.Errorf("refusing to append unknown kind %q", txn.Kind)
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO transactions (account_id, kind, amount_cents, description, counterparty_account_id, receipt_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at`,
		txn.AccountID, txn.Kind, txn.AmountCents, txn.Description, txn.CounterpartyAccountID, txn.ReceiptCode,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *transactionRepo) ListBefore(ctx context.Context, accountID int64, cutoff time.Time) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND created_at < $2
		ORDER BY created_at ASC, id ASC`,
		accountID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions before %s: %w", cutoff, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.AccountID, &t.Kind, &t.AmountCents,
			&t.Description, &t.CounterpartyAccountID, &t.ReceiptCode, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
