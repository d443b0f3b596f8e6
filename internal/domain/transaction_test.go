package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionKindSignConvention(t *testing.T) {
	tests := []struct {
		kind    TransactionKind
		credits bool
	}{
		{KindDeposit, true},
		{KindTransferIn, true},
		{KindCardRefund, true},
		{KindWithdraw, false},
		{KindTransferOut, false},
		{KindCardCharge, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.True(t, tt.kind.Valid())
			assert.Equal(t, tt.credits, tt.kind.Credits())

			txn := &Transaction{Kind: tt.kind, AmountCents: 500}
			if tt.credits {
				assert.Equal(t, int64(500), txn.SignedAmount())
			} else {
				assert.Equal(t, int64(-500), txn.SignedAmount())
			}
		})
	}
}

func TestTransactionKindValid(t *testing.T) {
	assert.False(t, TransactionKind("").Valid())
	assert.False(t, TransactionKind("payment").Valid())
	assert.False(t, TransactionKind("DEPOSIT").Valid())
}

func TestFoldBalance(t *testing.T) {
	txs := []*Transaction{
		{Kind: KindDeposit, AmountCents: 100000},
		{Kind: KindWithdraw, AmountCents: 5000},
		{Kind: KindTransferOut, AmountCents: 2500},
		{Kind: KindCardCharge, AmountCents: 1500},
		{Kind: KindCardRefund, AmountCents: 1500},
		{Kind: KindTransferIn, AmountCents: 300},
	}
	assert.Equal(t, int64(92800), FoldBalance(txs))
	assert.Equal(t, int64(0), FoldBalance(nil))
}
