package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// databaseURL assembles the postgres DSN from the DB_* environment, with
// defaults matching the local docker-compose setup.
func databaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "bank"),
		getEnv("DB_PASSWORD", "bank"),
		getEnv("DB_HOST", "postgres"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "bank"),
	)
}

// ConnectDB opens the ledger's pgx pool, retrying with exponential backoff
// so the service survives the database coming up after it.
func ConnectDB() (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL())
	if err != nil {
		log.Printf("[DB] ❌ Failed to parse config: %v", err)
		return nil, err
	}

	// Ledger writes are short row-locked transactions; a deep pool keeps
	// concurrent transfers from queueing on connections.
	poolCfg.MaxConns = 50
	poolCfg.MinConns = 10
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	maxRetries := 5
	delay := 2 * time.Second

	for i := 1; i <= maxRetries; i++ {
		log.Printf("[DB] Attempt %d/%d: connecting to database...", i, maxRetries)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		dbpool, dialErr := pgxpool.NewWithConfig(ctx, poolCfg)
		if dialErr == nil {
			pingErr := dbpool.Ping(ctx)
			cancel()
			if pingErr == nil {
				log.Println("[DB] ✅ Connected successfully!")
				return dbpool, nil
			}
			// The pool came up but the server is not answering yet;
			// release it before the next attempt.
			dbpool.Close()
			err = fmt.Errorf("ping failed: %w", pingErr)
		} else {
			cancel()
			err = dialErr
		}

		log.Printf("[DB] ❌ Connection failed: %v", err)

		if i < maxRetries {
			log.Printf("[DB] Retrying in %s...", delay)
			time.Sleep(delay)
			delay *= 2 // exponential backoff
		}
	}

	return nil, fmt.Errorf("failed to connect to DB after %d attempts: %w", maxRetries, err)
}
