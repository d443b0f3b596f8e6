package usecase

import (
	"context"
	"log"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/pub"
	"banking-service/internal/repository"
	"banking-service/pkg/utils"
	"banking-service/pkg/xerrors"

	"golang.org/x/crypto/bcrypt"
)

type CardUsecase struct {
	cardRepo    repository.CardRepository
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	publisher   pub.EventPublisher
	tokens      *utils.TokenGenerator
}

func NewCardUsecase(
	cardRepo repository.CardRepository,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	publisher pub.EventPublisher,
	tokens *utils.TokenGenerator,
) *CardUsecase {
	return &CardUsecase{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		publisher:   publisher,
		tokens:      tokens,
	}
}

// IssueCard creates a card on an account the caller owns. The PAN is
// never stored: the card is addressed by an opaque token and displayed
// by its random last four digits. Only a bcrypt hash of the CVV is kept.
func (uc *CardUsecase) IssueCard(ctx context.Context, userID, accountID int64, brand, holderName, cvv string, expMonth, expYear int) (*domain.Card, error) {
	if _, err := uc.accountRepo.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}
	if expMonth < 1 || expMonth > 12 || expYear < time.Now().UTC().Year() {
		return nil, xerrors.ErrCardExpiry
	}
	if len(cvv) < 3 || len(cvv) > 4 {
		return nil, xerrors.ErrInvalidCVV
	}

	cvvHash, err := bcrypt.GenerateFromPassword([]byte(cvv), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	last4, err := utils.RandomLast4()
	if err != nil {
		return nil, err
	}

	card := &domain.Card{
		AccountID:  accountID,
		Brand:      brand,
		HolderName: holderName,
		Last4:      last4,
		CardToken:  uc.tokens.CardToken(),
		ExpMonth:   expMonth,
		ExpYear:    expYear,
		CVVHash:    string(cvvHash),
	}
	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (uc *CardUsecase) ListCards(ctx context.Context, userID, accountID int64) ([]*domain.Card, error) {
	if _, err := uc.accountRepo.GetOwned(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return uc.cardRepo.ListByAccount(ctx, accountID)
}

// Charge debits the card's account. The card token plus CVV is the
// credential here; the caller does not need to own the account.
func (uc *CardUsecase) Charge(ctx context.Context, cardToken, cvv string, amountCents int64, description *string) (*domain.Transaction, error) {
	if amountCents <= 0 {
		return nil, xerrors.ErrInvalidAmount
	}

	card, err := uc.verifyCard(ctx, cardToken, cvv)
	if err != nil {
		return nil, err
	}

	txn, err := uc.ledgerRepo.ApplyEntry(ctx, card.AccountID, domain.KindCardCharge, amountCents, description, uc.tokens.ReceiptCode())
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, "card.charged", txn)
	return txn, nil
}

// Refund credits a previous charge back onto the card's account.
func (uc *CardUsecase) Refund(ctx context.Context, cardToken, cvv string, amountCents int64, description *string) (*domain.Transaction, error) {
	if amountCents <= 0 {
		return nil, xerrors.ErrInvalidAmount
	}

	card, err := uc.verifyCard(ctx, cardToken, cvv)
	if err != nil {
		return nil, err
	}

	txn, err := uc.ledgerRepo.ApplyEntry(ctx, card.AccountID, domain.KindCardRefund, amountCents, description, uc.tokens.ReceiptCode())
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, "card.refunded", txn)
	return txn, nil
}

func (uc *CardUsecase) verifyCard(ctx context.Context, cardToken, cvv string) (*domain.Card, error) {
	card, err := uc.cardRepo.GetByToken(ctx, cardToken)
	if err != nil {
		return nil, err
	}
	if card.Expired(time.Now().UTC()) {
		return nil, xerrors.ErrCardExpiry
	}
	if bcrypt.CompareHashAndPassword([]byte(card.CVVHash), []byte(cvv)) != nil {
		return nil, xerrors.ErrInvalidCVV
	}
	return card, nil
}

func (uc *CardUsecase) publish(ctx context.Context, eventType string, txn *domain.Transaction) {
	if uc.publisher == nil {
		return
	}
	event := &pub.TransactionEvent{
		EventType:       eventType,
		TransactionID:   txn.ID,
		TransactionType: string(txn.Kind),
		ReceiptCode:     txn.ReceiptCode,
		AccountID:       txn.AccountID,
		AmountCents:     txn.AmountCents,
	}
	if err := uc.publisher.PublishTransactionEvent(ctx, event); err != nil {
		log.Printf("⚠️ failed to publish %s for receipt %s: %v", eventType, txn.ReceiptCode, err)
	}
}
