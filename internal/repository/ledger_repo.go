package repository

import (
	"context"
	"fmt"

	"banking-service/internal/domain"
	"banking-service/pkg/xerrors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository is the single writer of account balances. Every method is
// one database transaction: lock the touched account rows in ascending id
// order, validate under the lock, update balances, append the log rows,
// commit. A precondition failure rolls the whole thing back.
type LedgerRepository interface {
	// ApplyEntry commits one single-account movement (deposit, withdraw,
	// card_charge, card_refund). Debit kinds fail with
	// xerrors.ErrInsufficientFunds when the locked balance cannot cover the
	// amount.
	ApplyEntry(ctx context.Context, accountID int64, kind domain.TransactionKind, amountCents int64, description *string, receiptCode string) (*domain.Transaction, error)

	// ApplyTransfer commits both legs of a transfer as one unit and returns
	// them source leg first.
	ApplyTransfer(ctx context.Context, fromAccountID, toAccountID, amountCents int64, description *string, receiptCode string) ([]*domain.Transaction, error)
}

type ledgerRepo struct {
	db              *pgxpool.Pool
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
}

func NewLedgerRepo(db *pgxpool.Pool, accountRepo AccountRepository, transactionRepo TransactionRepository) LedgerRepository {
	return &ledgerRepo{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

func (r *ledgerRepo) ApplyEntry(ctx context.Context, accountID int64, kind domain.TransactionKind, amountCents int64, description *string, receiptCode string) (*domain.Transaction, error) {
	tx, err := r.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := r.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	newBalance := account.BalanceCents
	if kind.Credits() {
		newBalance += amountCents
	} else {
		if account.BalanceCents < amountCents {
			return nil, xerrors.ErrInsufficientFunds
		}
		newBalance -= amountCents
	}

	if err := r.accountRepo.SetBalanceTx(ctx, tx, accountID, newBalance); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		AccountID:   accountID,
		Kind:        kind,
		AmountCents: amountCents,
		Description: description,
		ReceiptCode: receiptCode,
	}
	if err := r.transactionRepo.Append(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return txn, nil
}

func (r *ledgerRepo) ApplyTransfer(ctx context.Context, fromAccountID, toAccountID, amountCents int64, description *string, receiptCode string) ([]*domain.Transaction, error) {
	tx, err := r.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both rows in ascending id order so two opposite transfers over
	// the same pair cannot deadlock.
	first, second := fromAccountID, toAccountID
	if second < first {
		first, second = second, first
	}

	locked := make(map[int64]*domain.Account, 2)
	for _, id := range []int64{first, second} {
		account, err := r.accountRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = account
	}

	from, to := locked[fromAccountID], locked[toAccountID]
	if from.BalanceCents < amountCents {
		return nil, xerrors.ErrInsufficientFunds
	}

	if err := r.accountRepo.SetBalanceTx(ctx, tx, from.ID, from.BalanceCents-amountCents); err != nil {
		return nil, err
	}
	if err := r.accountRepo.SetBalanceTx(ctx, tx, to.ID, to.BalanceCents+amountCents); err != nil {
		return nil, err
	}

	outLeg := &domain.Transaction{
		AccountID:             from.ID,
		Kind:                  domain.KindTransferOut,
		AmountCents:           amountCents,
		Description:           description,
		CounterpartyAccountID: &to.ID,
		ReceiptCode:           receiptCode,
	}
	inLeg := &domain.Transaction{
		AccountID:             to.ID,
		Kind:                  domain.KindTransferIn,
		AmountCents:           amountCents,
		Description:           description,
		CounterpartyAccountID: &from.ID,
		ReceiptCode:           receiptCode,
	}

	// Both legs share the transaction's now(); their BIGSERIAL ids break the
	// timestamp tie, out leg first.
	if err := r.transactionRepo.Append(ctx, tx, outLeg); err != nil {
		return nil, err
	}
	if err := r.transactionRepo.Append(ctx, tx, inLeg); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return []*domain.Transaction{outLeg, inLeg}, nil
}
