package usecase

import (
	"context"
	"log"
	"strconv"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const balanceCacheTTL = 30 * time.Second

type AccountUsecase struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	redisClient     *redis.Client
}

func NewAccountUsecase(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	redisClient *redis.Client,
) *AccountUsecase {
	return &AccountUsecase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		redisClient:     redisClient,
	}
}

func (uc *AccountUsecase) CreateAccount(ctx context.Context, userID int64, kind string) (*domain.Account, error) {
	return uc.accountRepo.Create(ctx, userID, utils.NormalizeAccountKind(kind))
}

func (uc *AccountUsecase) ListAccounts(ctx context.Context, userID int64) ([]*domain.Account, error) {
	return uc.accountRepo.ListByUser(ctx, userID)
}

// GetOwnedAccount resolves an account only when the caller owns it;
// anything else is reported as not found.
func (uc *AccountUsecase) GetOwnedAccount(ctx context.Context, userID, accountID int64) (*domain.Account, error) {
	return uc.accountRepo.GetOwned(ctx, accountID, userID)
}

// GetBalance reads the account balance through a short-lived redis cache.
// Ownership is resolved before the cache is consulted: the cache only
// short-circuits the balance read, never the not-found masking, so a
// non-owner gets the same answer whether the key is warm or cold. The
// ledger usecase drops the key on every committed write, so a hit is never
// staler than the cache TTL and usually not stale at all.
func (uc *AccountUsecase) GetBalance(ctx context.Context, userID, accountID int64) (int64, error) {
	account, err := uc.accountRepo.GetOwned(ctx, accountID, userID)
	if err != nil {
		return 0, err
	}

	cacheKey := "balance:account:" + strconv.FormatInt(accountID, 10)
	if uc.redisClient != nil {
		if cached, err := uc.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			if balance, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
				return balance, nil
			}
		}

		err := uc.redisClient.Set(ctx, cacheKey, strconv.FormatInt(account.BalanceCents, 10), balanceCacheTTL).Err()
		if err != nil {
			log.Printf("⚠️ failed to cache %s: %v", cacheKey, err)
		}
	}
	return account.BalanceCents, nil
}

// ListTransactions returns the owned account's history, newest first.
func (uc *AccountUsecase) ListTransactions(ctx context.Context, userID, accountID int64) ([]*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return uc.transactionRepo.ListByAccount(ctx, accountID)
}
