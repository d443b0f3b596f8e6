package usecase

import (
	"context"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
)

func farFuture() time.Time {
	return time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// StatementUsecase derives monthly statements from the transaction log.
// Balances are never read from the accounts table here: opening and
// closing figures are folds over log prefixes, so a statement can always
// be re-derived and two runs over the same period agree.
type StatementUsecase struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	statementRepo   repository.StatementRepository
}

func NewStatementUsecase(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	statementRepo repository.StatementRepository,
) *StatementUsecase {
	return &StatementUsecase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		statementRepo:   statementRepo,
	}
}

// Generate builds and persists the statement for one calendar month,
// identified by its "YYYY-MM" label. The account must belong to the
// caller.
func (uc *StatementUsecase) Generate(ctx context.Context, userID, accountID int64, period string) (*domain.Statement, error) {
	if _, err := uc.accountRepo.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}

	periodStart, periodEnd, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	// Opening balance: everything strictly before the period start.
	// Closing balance: everything strictly before the period end, which
	// is the first instant of the next month.
	before, err := uc.transactionRepo.ListBefore(ctx, accountID, periodStart)
	if err != nil {
		return nil, err
	}
	through, err := uc.transactionRepo.ListBefore(ctx, accountID, periodEnd)
	if err != nil {
		return nil, err
	}

	st := &domain.Statement{
		AccountID:           accountID,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		OpeningBalanceCents: domain.FoldBalance(before),
		ClosingBalanceCents: domain.FoldBalance(through),
	}
	if err := uc.statementRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (uc *StatementUsecase) ListStatements(ctx context.Context, userID, accountID int64) ([]*domain.Statement, error) {
	if _, err := uc.accountRepo.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return uc.statementRepo.ListByAccount(ctx, accountID)
}

// BalanceCheck is the result of replaying an account's full log against
// its live balance.
type BalanceCheck struct {
	AccountID        int64 `json:"account_id"`
	LiveBalanceCents int64 `json:"live_balance_cents"`
	LogBalanceCents  int64 `json:"log_balance_cents"`
	Consistent       bool  `json:"consistent"`
}

// VerifyBalance replays the whole transaction log for the account and
// compares the fold against the stored balance. Any drift means a write
// bypassed the ledger path.
func (uc *StatementUsecase) VerifyBalance(ctx context.Context, userID, accountID int64) (*BalanceCheck, error) {
	account, err := uc.accountRepo.GetOwned(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	// A cutoff far in the future captures the entire log.
	all, err := uc.transactionRepo.ListBefore(ctx, accountID, farFuture())
	if err != nil {
		return nil, err
	}

	replayed := domain.FoldBalance(all)
	return &BalanceCheck{
		AccountID:        accountID,
		LiveBalanceCents: account.BalanceCents,
		LogBalanceCents:  replayed,
		Consistent:       replayed == account.BalanceCents,
	}, nil
}
