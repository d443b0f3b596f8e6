package usecase

import (
	"context"
	"fmt"
	"log"

	"banking-service/internal/domain"
	"banking-service/internal/pub"
	"banking-service/internal/repository"
	"banking-service/pkg/utils"
	"banking-service/pkg/xerrors"

	"github.com/redis/go-redis/v9"
)

// LedgerUsecase is the write side of the ledger. Every mutation either
// commits one atomic unit (balance update plus log rows) or leaves no
// trace at all.
type LedgerUsecase struct {
	ledgerRepo  repository.LedgerRepository
	accountRepo repository.AccountRepository
	redisClient *redis.Client
	publisher   pub.EventPublisher
	tokens      *utils.TokenGenerator
}

func NewLedgerUsecase(
	ledgerRepo repository.LedgerRepository,
	accountRepo repository.AccountRepository,
	redisClient *redis.Client,
	publisher pub.EventPublisher,
	tokens *utils.TokenGenerator,
) *LedgerUsecase {
	return &LedgerUsecase{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		redisClient: redisClient,
		publisher:   publisher,
		tokens:      tokens,
	}
}

// Deposit credits amountCents to an account the caller owns.
func (uc *LedgerUsecase) Deposit(ctx context.Context, userID, accountID, amountCents int64, description *string) (*domain.Transaction, error) {
	if amountCents <= 0 {
		return nil, xerrors.ErrInvalidAmount
	}
	if _, err := uc.accountRepo.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}

	txn, err := uc.ledgerRepo.ApplyEntry(ctx, accountID, domain.KindDeposit, amountCents, description, uc.tokens.ReceiptCode())
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, userID, "transaction.completed", txn)
	return txn, nil
}

// Withdraw debits amountCents from an account the caller owns. The
// sufficiency check happens under the row lock inside the repository, so
// concurrent withdrawals cannot overdraw.
func (uc *LedgerUsecase) Withdraw(ctx context.Context, userID, accountID, amountCents int64, description *string) (*domain.Transaction, error) {
	if amountCents <= 0 {
		return nil, xerrors.ErrInvalidAmount
	}
	if _, err := uc.accountRepo.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}

	txn, err := uc.ledgerRepo.ApplyEntry(ctx, accountID, domain.KindWithdraw, amountCents, description, uc.tokens.ReceiptCode())
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, userID, "transaction.completed", txn)
	return txn, nil
}

// Transfer moves amountCents between two accounts. The source must belong
// to the caller; the destination only has to exist, it may belong to any
// user. Returns the source leg first, then the destination leg.
func (uc *LedgerUsecase) Transfer(ctx context.Context, userID, fromAccountID, toAccountID, amountCents int64, description *string) ([]*domain.Transaction, error) {
	if amountCents <= 0 {
		return nil, xerrors.ErrInvalidAmount
	}
	if fromAccountID == toAccountID {
		return nil, xerrors.ErrSameAccount
	}
	if _, err := uc.accountRepo.GetOwned(ctx, fromAccountID, userID); err != nil {
		return nil, err
	}
	if _, err := uc.accountRepo.GetByID(ctx, toAccountID); err != nil {
		return nil, err
	}

	legs, err := uc.ledgerRepo.ApplyTransfer(ctx, fromAccountID, toAccountID, amountCents, description, uc.tokens.ReceiptCode())
	if err != nil {
		return nil, err
	}

	for _, leg := range legs {
		uc.afterCommit(ctx, userID, "transfer.completed", leg)
	}
	return legs, nil
}

// afterCommit handles the non-transactional tail of a ledger write:
// dropping the cached balance and emitting the event. Failures here are
// logged, never surfaced, because the ledger row is already durable.
func (uc *LedgerUsecase) afterCommit(ctx context.Context, userID int64, eventType string, txn *domain.Transaction) {
	if uc.redisClient != nil {
		cacheKey := fmt.Sprintf("balance:account:%d", txn.AccountID)
		if err := uc.redisClient.Del(ctx, cacheKey).Err(); err != nil {
			log.Printf("⚠️ failed to invalidate %s: %v", cacheKey, err)
		}
	}

	if uc.publisher != nil {
		event := &pub.TransactionEvent{
			EventType:       eventType,
			UserID:          userID,
			TransactionID:   txn.ID,
			TransactionType: string(txn.Kind),
			ReceiptCode:     txn.ReceiptCode,
			AccountID:       txn.AccountID,
			CounterpartyID:  txn.CounterpartyAccountID,
			AmountCents:     txn.AmountCents,
		}
		if err := uc.publisher.PublishTransactionEvent(ctx, event); err != nil {
			log.Printf("⚠️ failed to publish %s for receipt %s: %v", eventType, txn.ReceiptCode, err)
		}
	}
}
