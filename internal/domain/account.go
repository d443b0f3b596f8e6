package domain

import "time"

// Account is one user-owned balance. BalanceCents is a materialized cache of
// the signed fold over the account's transactions; only the ledger usecase
// writes it, always in the same database transaction as the log append.
type Account struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	Kind         string    `json:"type"` // free-form label: checking, savings, ...
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"-"`
}

type AccountFilter struct {
	UserID *int64
	Kind   *string
}
