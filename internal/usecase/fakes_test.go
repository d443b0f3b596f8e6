package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/pub"
	"banking-service/internal/repository"
	"banking-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
)

var (
	_ repository.AccountRepository     = (*memStore)(nil)
	_ repository.TransactionRepository = (*memStore)(nil)
	_ repository.LedgerRepository      = (*memLedger)(nil)
	_ repository.StatementRepository   = (*memStatementRepo)(nil)
	_ repository.CardRepository        = (*memCardRepo)(nil)
	_ repository.UserRepository        = (*memUserRepo)(nil)
	_ pub.EventPublisher               = (*recordingPublisher)(nil)
)

// memStore is an in-memory stand-in for the postgres repositories. It
// honors the same contracts: ownership masking, positive-amount inserts,
// the (created_at, id) total order, and all-or-nothing ledger writes.
type memStore struct {
	mu sync.Mutex

	accounts      map[int64]*domain.Account
	nextAccountID int64

	txns       []*domain.Transaction
	nextTxnID  int64
	statements []*domain.Statement
	nextStID   int64
	cards      []*domain.Card
	nextCardID int64
	users      map[string]*domain.User
	nextUserID int64

	// clock ticks one second per append so ordering is deterministic.
	now time.Time
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[int64]*domain.Account),
		users:    make(map[string]*domain.User),
		now:      time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

// SetNow jumps the fake clock; appends after the jump carry the new time.
func (s *memStore) SetNow(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}

// --- AccountRepository ---

func (s *memStore) Create(ctx context.Context, userID int64, kind string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	a := &domain.Account{ID: s.nextAccountID, UserID: userID, Kind: kind, CreatedAt: s.now}
	s.accounts[a.ID] = a
	return a, nil
}

func (s *memStore) GetByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, xerrors.ErrAccountNotFound
	}
	copy := *a
	return &copy, nil
}

func (s *memStore) GetOwned(ctx context.Context, accountID, userID int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, xerrors.ErrAccountNotFound
	}
	copy := *a
	return &copy, nil
}

func (s *memStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			copy := *a
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *memStore) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error) {
	return s.GetByID(ctx, accountID)
}

func (s *memStore) SetBalanceTx(ctx context.Context, tx pgx.Tx, accountID, balanceCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return xerrors.ErrAccountNotFound
	}
	a.BalanceCents = balanceCents
	return nil
}

func (s *memStore) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return nil, nil
}

// --- TransactionRepository ---

func (s *memStore) Append(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(txn, s.tick())
}

func (s *memStore) appendLocked(txn *domain.Transaction, at time.Time) error {
	if txn.AmountCents <= 0 {
		return xerrors.ErrInvalidAmount
	}
	s.nextTxnID++
	txn.ID = s.nextTxnID
	txn.CreatedAt = at
	stored := *txn
	s.txns = append(s.txns, &stored)
	return nil
}

func (s *memStore) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Transaction
	for i := len(s.txns) - 1; i >= 0; i-- {
		if s.txns[i].AccountID == accountID {
			copy := *s.txns[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *memStore) ListBefore(ctx context.Context, accountID int64, cutoff time.Time) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Transaction
	for _, t := range s.txns {
		if t.AccountID == accountID && t.CreatedAt.Before(cutoff) {
			copy := *t
			out = append(out, &copy)
		}
	}
	return out, nil
}

// --- LedgerRepository ---

// memLedger applies ledger writes against a memStore with the same
// semantics as the postgres implementation: validate under the lock,
// then balance update plus log row as one unit, or nothing.
type memLedger struct {
	store *memStore
}

func (l *memLedger) ApplyEntry(ctx context.Context, accountID int64, kind domain.TransactionKind, amountCents int64, description *string, receiptCode string) (*domain.Transaction, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	a, ok := l.store.accounts[accountID]
	if !ok {
		return nil, xerrors.ErrAccountNotFound
	}

	newBalance := a.BalanceCents
	if kind.Credits() {
		newBalance += amountCents
	} else {
		if a.BalanceCents < amountCents {
			return nil, xerrors.ErrInsufficientFunds
		}
		newBalance -= amountCents
	}

	txn := &domain.Transaction{
		AccountID:   accountID,
		Kind:        kind,
		AmountCents: amountCents,
		Description: description,
		ReceiptCode: receiptCode,
	}
	if err := l.store.appendLocked(txn, l.store.tick()); err != nil {
		return nil, err
	}
	a.BalanceCents = newBalance
	return txn, nil
}

func (l *memLedger) ApplyTransfer(ctx context.Context, fromAccountID, toAccountID, amountCents int64, description *string, receiptCode string) ([]*domain.Transaction, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	from, ok := l.store.accounts[fromAccountID]
	if !ok {
		return nil, xerrors.ErrAccountNotFound
	}
	to, ok := l.store.accounts[toAccountID]
	if !ok {
		return nil, xerrors.ErrAccountNotFound
	}
	if from.BalanceCents < amountCents {
		return nil, xerrors.ErrInsufficientFunds
	}

	// Both legs share one timestamp, as in the real transaction.
	at := l.store.tick()

	out := &domain.Transaction{
		AccountID:             fromAccountID,
		Kind:                  domain.KindTransferOut,
		AmountCents:           amountCents,
		Description:           description,
		CounterpartyAccountID: &toAccountID,
		ReceiptCode:           receiptCode,
	}
	in := &domain.Transaction{
		AccountID:             toAccountID,
		Kind:                  domain.KindTransferIn,
		AmountCents:           amountCents,
		Description:           description,
		CounterpartyAccountID: &fromAccountID,
		ReceiptCode:           receiptCode,
	}
	if err := l.store.appendLocked(out, at); err != nil {
		return nil, err
	}
	if err := l.store.appendLocked(in, at); err != nil {
		return nil, err
	}
	from.BalanceCents -= amountCents
	to.BalanceCents += amountCents
	return []*domain.Transaction{out, in}, nil
}

// --- StatementRepository ---

type memStatementRepo struct {
	store *memStore
}

func (r *memStatementRepo) Save(ctx context.Context, st *domain.Statement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextStID++
	st.ID = r.store.nextStID
	st.GeneratedAt = r.store.now
	stored := *st
	r.store.statements = append(r.store.statements, &stored)
	return nil
}

func (r *memStatementRepo) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Statement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Statement
	for i := len(r.store.statements) - 1; i >= 0; i-- {
		if r.store.statements[i].AccountID == accountID {
			copy := *r.store.statements[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

// --- CardRepository ---

type memCardRepo struct {
	store *memStore
}

func (r *memCardRepo) Create(ctx context.Context, card *domain.Card) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextCardID++
	card.ID = r.store.nextCardID
	card.CreatedAt = r.store.now
	stored := *card
	r.store.cards = append(r.store.cards, &stored)
	return nil
}

func (r *memCardRepo) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Card, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Card
	for _, c := range r.store.cards {
		if c.AccountID == accountID {
			copy := *c
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *memCardRepo) GetByToken(ctx context.Context, cardToken string) (*domain.Card, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.cards {
		if c.CardToken == cardToken {
			copy := *c
			return &copy, nil
		}
	}
	return nil, xerrors.ErrCardNotFound
}

// --- UserRepository ---

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(ctx context.Context, email string, fullName *string, passwordHash string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.users[email]; exists {
		return nil, xerrors.ErrUserAlreadyExists
	}
	r.store.nextUserID++
	u := &domain.User{ID: r.store.nextUserID, Email: email, FullName: fullName, PasswordHash: passwordHash, CreatedAt: r.store.now}
	r.store.users[email] = u
	copy := *u
	return &copy, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[email]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.ID == userID {
			copy := *u
			return &copy, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

// --- EventPublisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []*pub.TransactionEvent
}

func (p *recordingPublisher) PublishTransactionEvent(ctx context.Context, event *pub.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []*pub.TransactionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*pub.TransactionEvent(nil), p.events...)
}

// failingPublisher simulates a broker outage.
type failingPublisher struct{}

func (failingPublisher) PublishTransactionEvent(ctx context.Context, event *pub.TransactionEvent) error {
	return errors.New("broker unavailable")
}
