package repository

import (
	"context"
	"errors"
	"fmt"

	"banking-service/internal/domain"
	"banking-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository defines the interface for account persistence.
// Balance writes are only reachable through a pgx.Tx handed out by the
// ledger repository; there is no standalone "set balance" entry point.
type AccountRepository interface {
	Create(ctx context.Context, userID int64, kind string) (*domain.Account, error)
	GetByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// GetOwned resolves lookup and authorization in one step: a missing
	// account and an account owned by someone else both come back as
	// xerrors.ErrAccountNotFound.
	GetOwned(ctx context.Context, accountID, userID int64) (*domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error)

	// Row-locked reads and balance writes, valid only inside a transaction.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error)
	SetBalanceTx(ctx context.Context, tx pgx.Tx, accountID, balanceCents int64) error

	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepo(db *pgxpool.Pool) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const accountColumns = `id, user_id, kind, balance_cents, created_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Kind, &a.BalanceCents, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, userID int64, kind string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO accounts (user_id, kind, balance_cents)
		VALUES ($1, $2, 0)
		RETURNING `+accountColumns,
		userID, kind)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

func (r *accountRepo) GetByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1`,
		accountID)
	return scanAccount(row)
}

func (r *accountRepo) GetOwned(ctx context.Context, accountID, userID int64) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1 AND user_id = $2`,
		accountID, userID)
	return scanAccount(row)
}

func (r *accountRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1
		ORDER BY id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.BalanceCents, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// GetByIDForUpdate fetches the account under a row lock (SELECT FOR UPDATE).
// Callers must lock multiple accounts in ascending id order to stay
// deadlock-free.
func (r *accountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error) {
	if tx == nil {
		return nil, errors.New("transaction cannot be nil for locked query")
	}
	row := tx.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
		FOR UPDATE`,
		accountID)
	return scanAccount(row)
}

func (r *accountRepo) SetBalanceTx(ctx context.Context, tx pgx.Tx, accountID, balanceCents int64) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET balance_cents = $2
		WHERE id = $1`,
		accountID, balanceCents)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrAccountNotFound
	}
	return nil
}
