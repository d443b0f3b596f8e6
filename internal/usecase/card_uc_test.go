package usecase

import (
	"context"
	"testing"
	"time"

	"banking-service/internal/domain"
	"banking-service/pkg/utils"
	"banking-service/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newCardFixture(t *testing.T) (*memStore, *LedgerUsecase, *CardUsecase) {
	t.Helper()
	store := newMemStore()
	tokens := utils.NewTokenGenerator()
	ledger := &memLedger{store: store}
	ledgerUC := NewLedgerUsecase(ledger, store, nil, nil, tokens)
	cardUC := NewCardUsecase(&memCardRepo{store: store}, store, ledger, nil, tokens)
	return store, ledgerUC, cardUC
}

func futureYear() int {
	return time.Now().UTC().Year() + 2
}

func TestIssueCard(t *testing.T) {
	ctx := context.Background()
	store, _, cardUC := newCardFixture(t)
	acct, _ := store.Create(ctx, 1, "checking")

	card, err := cardUC.IssueCard(ctx, 1, acct.ID, "visa", "ALICE SMITH", "123", 12, futureYear())
	require.NoError(t, err)
	assert.Len(t, card.Last4, 4)
	assert.Contains(t, card.CardToken, "CARD-")
	assert.NotEqual(t, "123", card.CVVHash, "the raw CVV is never stored")

	cards, err := cardUC.ListCards(ctx, 1, acct.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, card.CardToken, cards[0].CardToken)
}

func TestIssueCardOnForeignAccountIsMasked(t *testing.T) {
	ctx := context.Background()
	store, _, cardUC := newCardFixture(t)
	other, _ := store.Create(ctx, 2, "checking")

	_, err := cardUC.IssueCard(ctx, 1, other.ID, "visa", "EVE", "123", 12, futureYear())
	assert.ErrorIs(t, err, xerrors.ErrAccountNotFound)
}

func TestChargeAndRefund(t *testing.T) {
	ctx := context.Background()
	store, ledgerUC, cardUC := newCardFixture(t)
	acct, _ := store.Create(ctx, 1, "checking")

	_, err := ledgerUC.Deposit(ctx, 1, acct.ID, 10000, nil)
	require.NoError(t, err)

	card, err := cardUC.IssueCard(ctx, 1, acct.ID, "visa", "ALICE SMITH", "123", 12, futureYear())
	require.NoError(t, err)

	charge, err := cardUC.Charge(ctx, card.CardToken, "123", 3000, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.KindCardCharge, charge.Kind)

	got, _ := store.GetByID(ctx, acct.ID)
	assert.Equal(t, int64(7000), got.BalanceCents)

	refund, err := cardUC.Refund(ctx, card.CardToken, "123", 3000, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.KindCardRefund, refund.Kind)

	got, _ = store.GetByID(ctx, acct.ID)
	assert.Equal(t, int64(10000), got.BalanceCents)
}

func TestChargeRejectsWrongCVV(t *testing.T) {
	ctx := context.Background()
	store, ledgerUC, cardUC := newCardFixture(t)
	acct, _ := store.Create(ctx, 1, "checking")
	_, _ = ledgerUC.Deposit(ctx, 1, acct.ID, 10000, nil)

	card, err := cardUC.IssueCard(ctx, 1, acct.ID, "visa", "ALICE SMITH", "123", 12, futureYear())
	require.NoError(t, err)

	_, err = cardUC.Charge(ctx, card.CardToken, "999", 3000, nil)
	assert.ErrorIs(t, err, xerrors.ErrInvalidCVV)

	got, _ := store.GetByID(ctx, acct.ID)
	assert.Equal(t, int64(10000), got.BalanceCents)
}

func TestChargeRejectsExpiredCard(t *testing.T) {
	ctx := context.Background()
	store, _, cardUC := newCardFixture(t)
	acct, _ := store.Create(ctx, 1, "checking")

	hash, err := bcrypt.GenerateFromPassword([]byte("123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memCardRepo{store: store}
	expired := &domain.Card{
		AccountID:  acct.ID,
		Brand:      "visa",
		HolderName: "ALICE SMITH",
		Last4:      "4242",
		CardToken:  "CARD-EXPIRED",
		ExpMonth:   1,
		ExpYear:    2020,
		CVVHash:    string(hash),
	}
	require.NoError(t, repo.Create(ctx, expired))

	_, err = cardUC.Charge(ctx, expired.CardToken, "123", 100, nil)
	assert.ErrorIs(t, err, xerrors.ErrCardExpiry)
}

func TestChargeUnknownToken(t *testing.T) {
	ctx := context.Background()
	_, _, cardUC := newCardFixture(t)

	_, err := cardUC.Charge(ctx, "CARD-DOES-NOT-EXIST", "123", 100, nil)
	assert.ErrorIs(t, err, xerrors.ErrCardNotFound)
}

func TestChargeSurvivesPublisherOutage(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	tokens := utils.NewTokenGenerator()
	ledger := &memLedger{store: store}
	ledgerUC := NewLedgerUsecase(ledger, store, nil, failingPublisher{}, tokens)
	cardUC := NewCardUsecase(&memCardRepo{store: store}, store, ledger, failingPublisher{}, tokens)

	acct, _ := store.Create(ctx, 1, "checking")
	_, err := ledgerUC.Deposit(ctx, 1, acct.ID, 10000, nil)
	require.NoError(t, err, "the deposit is durable even when its event is not")

	card, err := cardUC.IssueCard(ctx, 1, acct.ID, "visa", "ALICE SMITH", "123", 12, futureYear())
	require.NoError(t, err)

	// The ledger row commits before the event goes out; a broker outage
	// is logged, never surfaced.
	txn, err := cardUC.Charge(ctx, card.CardToken, "123", 3000, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.KindCardCharge, txn.Kind)

	got, _ := store.GetByID(ctx, acct.ID)
	assert.Equal(t, int64(7000), got.BalanceCents)
}

func TestChargeInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	store, _, cardUC := newCardFixture(t)
	acct, _ := store.Create(ctx, 1, "checking")

	card, err := cardUC.IssueCard(ctx, 1, acct.ID, "visa", "ALICE SMITH", "123", 12, futureYear())
	require.NoError(t, err)

	_, err = cardUC.Charge(ctx, card.CardToken, "123", 100, nil)
	assert.ErrorIs(t, err, xerrors.ErrInsufficientFunds)
}
