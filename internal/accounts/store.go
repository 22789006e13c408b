// Package accounts owns the three account balances and their transaction
// history. Store is the only way to change either.
package accounts

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/ledger"
	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
)

// Saver persists the current balances after every balance change.
type Saver interface {
	Save(balances map[model.AccountID]decimal.Decimal) error
}

// LedgerSaver persists the full transaction history after every append.
type LedgerSaver interface {
	SaveTransactions(txs []model.Transaction) error
}

// Store holds accounts and ledger behind one mutex, so a transfer's two
// balance changes and its ledger rows are applied together. Reads return
// copies.
type Store struct {
	mu          sync.Mutex
	accounts    map[model.AccountID]*model.Account
	ledger      *ledger.Ledger
	saver       Saver
	ledgerSaver LedgerSaver
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBalances overrides the default balance of the given accounts.
func WithBalances(balances map[model.AccountID]decimal.Decimal) Option {
	return func(s *Store) {
		for acct, bal := range balances {
			if a, ok := s.accounts[acct]; ok {
				a.Balance = bal
			}
		}
	}
}

// WithTransactions preloads ledger history.
func WithTransactions(txs []model.Transaction) Option {
	return func(s *Store) { s.ledger.Append(txs...) }
}

// WithSaver sets where balances are mirrored.
func WithSaver(saver Saver) Option {
	return func(s *Store) { s.saver = saver }
}

// WithLedgerSaver sets where the ledger is mirrored.
func WithLedgerSaver(saver LedgerSaver) Option {
	return func(s *Store) { s.ledgerSaver = saver }
}

// WithClock replaces time.Now for ledger dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a Store holding the default accounts.
func NewStore(opts ...Option) *Store {
	s := &Store{
		accounts: make(map[model.AccountID]*model.Account, 3),
		ledger:   ledger.New(),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, a := range Defaults() {
		acct := a
		s.accounts[a.ID] = &acct
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a snapshot of one account.
func (s *Store) Get(id model.AccountID) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.lookup(id)
	if err != nil {
		return model.Account{}, err
	}
	return *a, nil
}

// All returns snapshots of every account in display order.
func (s *Store) All() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Account, 0, len(s.accounts))
	for _, acct := range model.AllAccountIDs() {
		out = append(out, *s.accounts[acct])
	}
	return out
}

// Balances returns the current balance of every account.
func (s *Store) Balances() map[model.AccountID]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balancesLocked()
}

// UpdateBalance overwrites the balance of id. Any value is accepted,
// including negative ones, and no ledger row is written.
func (s *Store) UpdateBalance(id model.AccountID, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.lookup(id)
	if err != nil {
		return err
	}
	a.Balance = balance
	s.persistBalances()
	return nil
}

// TransferFunds moves amount from one account to another and records a
// debit row on the source and a credit row on the destination under one
// entry ID. Nothing changes if any check fails.
func (s *Store) TransferFunds(from, to model.AccountID, amount decimal.Decimal) ([]model.Transaction, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.lookup(from)
	if err != nil {
		return nil, err
	}
	dst, err := s.lookup(to)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, ErrSameAccount
	}
	if src.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: %s holds %s, transfer needs %s",
			ErrInsufficientFunds, from, src.Balance.StringFixed(2), amount.StringFixed(2))
	}

	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)

	now := s.now()
	entry := s.ledger.NextEntry(now)
	txs := []model.Transaction{
		{
			ID:           entry.Leg(0),
			Account:      from,
			Type:         model.TransactionTransfer,
			Amount:       amount.Neg(),
			Date:         now,
			Counterparty: to,
			Description:  "Transfer to " + dst.Name,
		},
		{
			ID:           entry.Leg(1),
			Account:      to,
			Type:         model.TransactionTransfer,
			Amount:       amount,
			Date:         now,
			Counterparty: from,
			Description:  "Transfer from " + src.Name,
		},
	}
	s.ledger.Append(txs...)

	s.persistBalances()
	s.persistLedger()
	return txs, nil
}

// TopUp adds amount to id and records a topup row.
func (s *Store) TopUp(id model.AccountID, amount decimal.Decimal, description string) (model.Transaction, error) {
	return s.adjust(id, amount, model.TransactionTopUp, description)
}

// Withdraw takes amount out of id and records a withdrawal row.
func (s *Store) Withdraw(id model.AccountID, amount decimal.Decimal, description string) (model.Transaction, error) {
	return s.adjust(id, amount, model.TransactionWithdrawal, description)
}

// Transactions returns the ledger rows of id, newest first.
func (s *Store) Transactions(id model.AccountID) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(id); err != nil {
		return nil, err
	}
	return s.ledger.Query(id), nil
}

func (s *Store) adjust(id model.AccountID, amount decimal.Decimal, typ model.TransactionType, description string) (model.Transaction, error) {
	if err := checkAmount(amount); err != nil {
		return model.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.lookup(id)
	if err != nil {
		return model.Transaction{}, err
	}

	signed := amount
	if typ == model.TransactionWithdrawal {
		if a.Balance.LessThan(amount) {
			return model.Transaction{}, fmt.Errorf("%w: %s holds %s, withdrawal needs %s",
				ErrInsufficientFunds, id, a.Balance.StringFixed(2), amount.StringFixed(2))
		}
		signed = amount.Neg()
	}
	a.Balance = a.Balance.Add(signed)

	now := s.now()
	tx := model.Transaction{
		ID:          s.ledger.NextEntry(now).Leg(0),
		Account:     id,
		Type:        typ,
		Amount:      signed,
		Date:        now,
		Description: description,
	}
	s.ledger.Append(tx)

	s.persistBalances()
	s.persistLedger()
	return tx, nil
}

func (s *Store) lookup(id model.AccountID) (*model.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidAccount, id)
	}
	return a, nil
}

func (s *Store) balancesLocked() map[model.AccountID]decimal.Decimal {
	out := make(map[model.AccountID]decimal.Decimal, len(s.accounts))
	for acct, a := range s.accounts {
		out[acct] = a.Balance
	}
	return out
}

// Persistence failures are logged, never returned: the in-memory change
// has already happened and stays authoritative for the session.
func (s *Store) persistBalances() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(s.balancesLocked()); err != nil {
		s.logger.Warn("saving balances failed", "error", err)
	}
}

func (s *Store) persistLedger() {
	if s.ledgerSaver == nil {
		return
	}
	if err := s.ledgerSaver.SaveTransactions(s.ledger.All()); err != nil {
		s.logger.Warn("saving ledger failed", "error", err, "rows", s.ledger.Len())
	}
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !money.HasCents(amount) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	return nil
}
