package server

import (
	"context"
	"log"
	"net/http"

	"banking-service/internal/config"
	hrest "banking-service/internal/handler/rest"
	"banking-service/internal/middleware"
	"banking-service/internal/pub"
	"banking-service/internal/repository"
	"banking-service/internal/router"
	"banking-service/internal/service"
	"banking-service/internal/usecase"
	"banking-service/pkg/jwtutil"
	"banking-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewBankHTTPServer wires the whole service and returns a configured
// *http.Server ready to ListenAndServe.
func NewBankHTTPServer(cfg config.AppConfig) (*http.Server, error) {
	// --- DB connection ---
	dbpool, err := config.ConnectDB()
	if err != nil {
		return nil, err
	}

	// --- Schema bootstrap ---
	bootstrapper := service.NewSchemaBootstrapper(dbpool)
	if err := bootstrapper.EnsureSchema(context.Background()); err != nil {
		return nil, err
	}

	// --- Redis client ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	// --- Kafka publisher ---
	publisher := pub.NewKafkaEventPublisher(cfg.KafkaBrokers)

	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	// --- Tokens / JWT ---
	tokens := utils.NewTokenGenerator()
	jwtCfg := jwtutil.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	}
	signer := jwtutil.NewSigner(jwtCfg)
	verifier := jwtutil.NewVerifier(jwtCfg)

	// --- Repositories ---
	accountRepo := repository.NewAccountRepo(dbpool)
	transactionRepo := repository.NewTransactionRepo(dbpool)
	ledgerRepo := repository.NewLedgerRepo(dbpool, accountRepo, transactionRepo)
	userRepo := repository.NewUserRepo(dbpool)
	statementRepo := repository.NewStatementRepo(dbpool)
	cardRepo := repository.NewCardRepo(dbpool)

	// --- Usecases ---
	authUC := usecase.NewAuthUsecase(userRepo, signer)
	accountUC := usecase.NewAccountUsecase(accountRepo, transactionRepo, rdb)
	ledgerUC := usecase.NewLedgerUsecase(ledgerRepo, accountRepo, rdb, publisher, tokens)
	statementUC := usecase.NewStatementUsecase(accountRepo, transactionRepo, statementRepo)
	cardUC := usecase.NewCardUsecase(cardRepo, accountRepo, ledgerRepo, publisher, tokens)

	// --- HTTP handler + router ---
	handler := hrest.NewBankRestHandler(authUC, accountUC, ledgerUC, statementUC, cardUC)
	authMW := middleware.NewAuthMiddleware(verifier, logger)

	r := chi.NewRouter()
	router.SetupRoutes(r, handler, authMW)

	log.Printf("Bank HTTP server listening on %s", cfg.HTTPAddr)
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}, nil
}
