package domain

import "time"

// Card is a payment instrument bound to one account. Only a token and a
// display suffix are stored; the CVV exists solely as a bcrypt hash and is
// never serialized.
type Card struct {
	ID         int64     `json:"id"`
	AccountID  int64     `json:"account_id"`
	Brand      string    `json:"brand"`
	HolderName string    `json:"holder_name"`
	Last4      string    `json:"last4"`
	CardToken  string    `json:"card_token"`
	ExpMonth   int       `json:"exp_month"`
	ExpYear    int       `json:"exp_year"`
	CVVHash    string    `json:"-"`
	CreatedAt  time.Time `json:"-"`
}

// Expired reports whether the card's expiry month has passed at t.
// A card is valid through the last instant of its expiry month.
func (c *Card) Expired(t time.Time) bool {
	endOfMonth := time.Date(c.ExpYear, time.Month(c.ExpMonth)+1, 1, 0, 0, 0, 0, time.UTC)
	return !t.Before(endOfMonth)
}
