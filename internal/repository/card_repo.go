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

type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Card, error)
	GetByToken(ctx context.Context, cardToken string) (*domain.Card, error)
}

type cardRepo struct {
	db *pgxpool.Pool
}

func NewCardRepo(db *pgxpool.Pool) CardRepository {
	return &cardRepo{db: db}
}

const cardColumns = `id, account_id, brand, holder_name, last4, card_token, exp_month, exp_year, cvv_hash, created_at`

func (r *cardRepo) Create(ctx context.Context, card *domain.Card) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO cards (account_id, brand, holder_name, last4, card_token, exp_month, exp_year, cvv_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		card.AccountID, card.Brand, card.HolderName, card.Last4,
		card.CardToken, card.ExpMonth, card.ExpYear, card.CVVHash,
	).Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *cardRepo) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Card, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE account_id = $1
		ORDER BY id ASC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(
			&c.ID, &c.AccountID, &c.Brand, &c.HolderName, &c.Last4,
			&c.CardToken, &c.ExpMonth, &c.ExpYear, &c.CVVHash, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, &c)
	}
	return cards, rows.Err()
}

func (r *cardRepo) GetByToken(ctx context.Context, cardToken string) (*domain.Card, error) {
	var c domain.Card
	err := r.db.QueryRow(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE card_token = $1`,
		cardToken,
	).Scan(
		&c.ID, &c.AccountID, &c.Brand, &c.HolderName, &c.Last4,
		&c.CardToken, &c.ExpMonth, &c.ExpYear, &c.CVVHash, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card by token: %w", err)
	}
	return &c, nil
}
