package domain

import "time"

// TransactionKind classifies a ledger event. The kind implies the sign of
// the movement; amounts themselves are stored strictly positive.
type TransactionKind string

const (
	KindDeposit     TransactionKind = "deposit"
	KindWithdraw    TransactionKind = "withdraw"
	KindTransferOut TransactionKind = "transfer_out"
	KindTransferIn  TransactionKind = "transfer_in"
	KindCardCharge  TransactionKind = "card_charge"
	KindCardRefund  TransactionKind = "card_refund"
)

// Valid reports whether k is one of the six recorded kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdraw, KindTransferOut, KindTransferIn,
		KindCardCharge, KindCardRefund:
		return true
	}
	return false
}

// Credits reports whether the kind adds to the balance. deposit, transfer_in
// and card_refund add; withdraw, transfer_out and card_charge subtract.
func (k TransactionKind) Credits() bool {
	switch k {
	case KindDeposit, KindTransferIn, KindCardRefund:
		return true
	}
	return false
}

// Transaction is one immutable row of the append-only log. ID is a BIGSERIAL
// assigned by the store, so the (CreatedAt, ID) pair gives a total order per
// account even when the two legs of a transfer share a timestamp.
type Transaction struct {
	ID                    int64           `json:"id"`
	AccountID             int64           `json:"account_id"`
	Kind                  TransactionKind `json:"type"`
	AmountCents           int64           `json:"amount_cents"` // always > 0
	Description           *string         `json:"description,omitempty"`
	CounterpartyAccountID *int64          `json:"counterparty_account_id,omitempty"`
	ReceiptCode           string          `json:"receipt_code,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// SignedAmount applies the kind's sign convention to the stored amount.
func (t *Transaction) SignedAmount() int64 {
	if t.Kind.Credits() {
		return t.AmountCents
	}
	return -t.AmountCents
}

// FoldBalance replays the sign convention over a slice of transactions.
// The statement engine and the consistency check both reduce to this fold.
func FoldBalance(txs []*Transaction) int64 {
	var balance int64
	for _, tx := range txs {
		balance += tx.SignedAmount()
	}
	return balance
}
