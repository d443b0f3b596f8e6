package repository

import (
	"context"
	"fmt"

	"banking-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatementRepository persists generated statements. Rows here are audit
// artifacts: the statement engine recomputes from the transaction log on
// every generate call and never reads these back into balance logic.
type StatementRepository interface {
	Save(ctx context.Context, st *domain.Statement) error
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Statement, error)
}

type statementRepo struct {
	db *pgxpool.Pool
}

func NewStatementRepo(db *pgxpool.Pool) StatementRepository {
	return &statementRepo{db: db}
}

func (r *statementRepo) Save(ctx context.Context, st *domain.Statement) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO statements (account_id, period_start, period_end, opening_balance_cents, closing_balance_cents, generated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, generated_at`,
		st.AccountID, st.PeriodStart, st.PeriodEnd, st.OpeningBalanceCents, st.ClosingBalanceCents,
	).Scan(&st.ID, &st.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to save statement: %w", err)
	}
	return nil
}

func (r *statementRepo) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Statement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, period_start, period_end, opening_balance_cents, closing_balance_cents, generated_at
		FROM statements
		WHERE account_id = $1
		ORDER BY period_start DESC, generated_at DESC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	defer rows.Close()

	var statements []*domain.Statement
	for rows.Next() {
		var st domain.Statement
		if err := rows.Scan(
			&st.ID, &st.AccountID, &st.PeriodStart, &st.PeriodEnd,
			&st.OpeningBalanceCents, &st.ClosingBalanceCents, &st.GeneratedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		statements = append(statements, &st)
	}
	return statements, rows.Err()
}
