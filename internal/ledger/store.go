// Package ledger owns the budget document: the transaction log, initial
// account balances, settings and custom categories. Every mutation is
// persisted through a KV provider before the call returns.
//
// When persisting fails the mutation stays applied in memory and the call
// returns a *core.PersistenceError together with its normal result; the
// caller may retry with Persist.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"budget/internal/categories"
	"budget/internal/core"
	"budget/internal/log"
)

// Placement tells where new entries enter the log.
type Placement int

const (
	// Prepend inserts each entry at the head, so the last one given ends up first.
	Prepend Placement = iota
	// Append adds entries at the tail in the order given.
	Append
)

// DefaultCardName names the single card created by SetInitialAssets.
const DefaultCardName = "信用卡"

type Store struct {
	mu       sync.Mutex
	kv       KV
	key      string
	clock    Clock
	ids      IDGenerator
	logger   *log.Logger
	currency string
	doc      core.Document
	revision uint64

	// invalid holds stored transactions that failed validation on restore.
	invalid []json.RawMessage
}

type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithCurrency sets the currency of fresh and reset documents.
func WithCurrency(currency string) Option {
	return func(s *Store) { s.currency = currency }
}

// New creates a store holding a default document. Call Restore to load
// what the provider has stored, or use Open.
func New(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, key: DefaultStorageKey, clock: SystemClock}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewSequence(s.clock)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	s.doc = s.defaults()
	return s
}

// Open creates a store and restores the stored document.
func Open(ctx context.Context, kv KV, opts ...Option) (*Store, error) {
	s := New(kv, opts...)
	if err := s.Restore(ctx); err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return s, nil
}

func (s *Store) defaults() core.Document {
	doc := core.NewDocument()
	if s.currency != "" {
		doc.Settings.Currency = s.currency
	}
	return doc
}

// Document returns a copy of the whole document.
func (s *Store) Document() core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Transactions returns a copy of the log in stored order.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.doc.Transactions)
}

// Get returns the transaction with the given id.
func (s *Store) Get(id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.doc.Find(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return s.doc.Transactions[i], nil
}

// Revision increases with every change to the document.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Today returns the clock's current calendar date.
func (s *Store) Today() core.Date {
	return today(s.clock)
}

// AddTransaction validates in, assigns a fresh id and inserts the entry at
// the head of the log. A zero date defaults to today.
func (s *Store) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	added, err := s.AddTransactions(ctx, Prepend, in)
	if len(added) == 0 {
		return core.Transaction{}, err
	}
	return added[0], err
}

// AddTransactions inserts several entries as one unit: if any input fails
// validation nothing is written. The document is persisted once.
func (s *Store) AddTransactions(ctx context.Context, placement Placement, ins ...core.TransactionInput) ([]core.Transaction, error) {
	if len(ins) == 0 {
		return nil, nil
	}
	normalized := make([]core.TransactionInput, len(ins))
	for i, in := range ins {
		in = s.normalize(in)
		if err := in.Validate(); err != nil {
			s.logger.LogError(ctx, "Rejected transaction", err, log.OpValidate,
				log.NewFields().With(log.FieldIndex, i))
			return nil, err
		}
		normalized[i] = in
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]core.Transaction, 0, len(normalized))
	for _, in := range normalized {
		t := in.Build(s.ids.NextID())
		if placement == Append {
			s.doc.Transactions = append(s.doc.Transactions, t)
		} else {
			s.doc.Transactions = slices.Insert(s.doc.Transactions, 0, t)
		}
		added = append(added, t)
		s.logger.InfoContext(ctx, "Transaction added", log.NewFields().WithOperation(log.OpCreate).WithTransaction(t).ToSlice()...)
	}
	s.revision++
	return added, s.persistLocked(ctx)
}

// UpdateTransaction replaces every field except the id.
func (s *Store) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	in = s.normalize(in)
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.doc.Find(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, core.ErrNotFound)
	}
	t := in.Build(id)
	s.doc.Transactions[i] = t
	s.revision++
	s.logger.InfoContext(ctx, "Transaction updated", log.NewFields().WithOperation(log.OpUpdate).WithTransaction(t).ToSlice()...)
	return t, s.persistLocked(ctx)
}

// DeleteTransaction removes the entry with the given id. The other leg of a
// composite pair is left untouched.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.doc.Find(id)
	if i < 0 {
		return fmt.Errorf("delete transaction %d: %w", id, core.ErrNotFound)
	}
	s.doc.Transactions = slices.Delete(s.doc.Transactions, i, i+1)
	s.revision++
	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldOperation, log.OpDelete, log.FieldTransactionID, id)
	return s.persistLocked(ctx)
}

func (s *Store) normalize(in core.TransactionInput) core.TransactionInput {
	if in.Date.IsZero() {
		in.Date = today(s.clock)
	}
	in.Category = strings.TrimSpace(in.Category)
	return in
}

// SetInitialAssets overwrites the initial balances. A non-zero credit total
// collapses all cards into a single card holding it; zero clears the list.
func (s *Store) SetInitialAssets(ctx context.Context, bank, cash, creditTotal decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Assets.Bank = bank
	s.doc.Assets.Cash = cash
	if creditTotal.IsZero() {
		s.doc.Assets.CreditCards = []core.CreditCard{}
	} else {
		s.doc.Assets.CreditCards = []core.CreditCard{{Name: DefaultCardName, Balance: creditTotal}}
	}
	s.revision++
	s.logger.InfoContext(ctx, "Initial assets set",
		"bank", bank.String(), "cash", cash.String(), "credit", creditTotal.String())
	return s.persistLocked(ctx)
}

// SetAccountBalance overwrites the initial balance of the bank or cash
// account. Credit balances are managed through the card list.
func (s *Store) SetAccountBalance(ctx context.Context, a core.Account, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a {
	case core.Bank:
		s.doc.Assets.Bank = amount
	case core.Cash:
		s.doc.Assets.Cash = amount
	default:
		return fmt.Errorf("%w: initial balance of %q is set per card", core.ErrInvalidAccount, a)
	}
	s.revision++
	s.logger.InfoContext(ctx, "Initial balance set", log.FieldAccount, a.String(), log.FieldAmount, amount.String())
	return s.persistLocked(ctx)
}

// CreditCards returns a copy of the card list.
func (s *Store) CreditCards() []core.CreditCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.doc.Assets.CreditCards)
}

func (s *Store) AddCreditCard(ctx context.Context, name string, balance decimal.Decimal) error {
	if err := core.ValidateCardName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Assets.CreditCards = append(s.doc.Assets.CreditCards, core.CreditCard{Name: strings.TrimSpace(name), Balance: balance})
	s.revision++
	s.logger.InfoContext(ctx, "Credit card added", "name", name, log.FieldAmount, balance.String())
	return s.persistLocked(ctx)
}

func (s *Store) UpdateCreditCard(ctx context.Context, index int, name string, balance decimal.Decimal) error {
	if err := core.ValidateCardName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCardIndex(index); err != nil {
		return err
	}
	s.doc.Assets.CreditCards[index] = core.CreditCard{Name: strings.TrimSpace(name), Balance: balance}
	s.revision++
	s.logger.InfoContext(ctx, "Credit card updated", log.FieldIndex, index, "name", name, log.FieldAmount, balance.String())
	return s.persistLocked(ctx)
}

func (s *Store) RemoveCreditCard(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCardIndex(index); err != nil {
		return err
	}
	s.doc.Assets.CreditCards = slices.Delete(s.doc.Assets.CreditCards, index, index+1)
	s.revision++
	s.logger.InfoContext(ctx, "Credit card removed", log.FieldIndex, index)
	return s.persistLocked(ctx)
}

func (s *Store) checkCardIndex(index int) error {
	if index < 0 || index >= len(s.doc.Assets.CreditCards) {
		return fmt.Errorf("credit card %d of %d: %w", index, len(s.doc.Assets.CreditCards), core.ErrIndex)
	}
	return nil
}

// RegisterCustomCategory records name as a custom category of t the first
// time it is used. It reports whether the name was new; nothing is
// persisted when it was not.
func (s *Store) RegisterCustomCategory(ctx context.Context, t core.TxType, name string) (bool, error) {
	if !t.Valid() {
		return false, fmt.Errorf("%w: %q", core.ErrInvalidType, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !categories.Register(&s.doc.CustomCategories, t, name) {
		return false, nil
	}
	s.revision++
	s.logger.InfoContext(ctx, "Custom category registered", log.FieldType, t.String(), log.FieldCategory, name)
	return true, s.persistLocked(ctx)
}

// SetCurrency changes the display currency.
func (s *Store) SetCurrency(ctx context.Context, currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return fmt.Errorf("%w: empty currency", core.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Settings.Currency = currency
	s.revision++
	return s.persistLocked(ctx)
}

// ResetAll replaces the document with the defaults, discarding every
// transaction and custom category.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = s.defaults()
	s.invalid = nil
	s.revision++
	s.logger.InfoContext(ctx, "Document reset", log.FieldOperation, log.OpReset)
	return s.persistLocked(ctx)
}
