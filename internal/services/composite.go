package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"budget/internal/balance"
	"budget/internal/categories"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

const (
	allowanceNotePrefix = "領取零用錢 - "
	paymentNotePrefix   = "信用卡繳清 - "
)

// AllowanceStage is a withdrawal waiting for confirmation.
type AllowanceStage struct {
	Input core.TransactionInput
	// BankBalance is the bank balance when the stage was created.
	BankBalance decimal.Decimal
}

// Payment describes a credit card payoff.
type Payment struct {
	Amount decimal.Decimal
	Date   core.Date
	Notes  string
	// Source is the account the payoff is drawn from: bank or cash.
	Source core.Account
}

// Builder writes the workflows where one user action yields two ledger
// entries. The legs are not linked: deleting one leaves the other in place.
type Builder struct {
	store  *ledger.Store
	logger *log.Logger

	mu      sync.Mutex
	pending *AllowanceStage
}

func NewBuilder(store *ledger.Store, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{store: store, logger: logger.WithComponent(log.ComponentServices)}
}

// StageAllowance validates a withdrawal of amount from bank to cash and holds
// it until ConfirmAllowance or CancelAllowance. A new stage replaces any
// pending one.
func (b *Builder) StageAllowance(ctx context.Context, amount decimal.Decimal, date core.Date, notes string) (AllowanceStage, error) {
	if date.IsZero() {
		date = b.store.Today()
	}
	in := core.TransactionInput{
		Type:     core.Income,
		Amount:   amount,
		Category: categories.Allowance,
		Date:     date,
		Notes:    notes,
		Account:  core.Cash,
	}
	if err := in.Validate(); err != nil {
		return AllowanceStage{}, err
	}

	stage := AllowanceStage{Input: in, BankBalance: balance.Bank(b.store.Document())}

	b.mu.Lock()
	b.pending = &stage
	b.mu.Unlock()

	b.logger.InfoContext(ctx, "Allowance withdrawal staged",
		log.FieldOperation, log.OpStage,
		log.FieldAmount, amount.String(),
		"bank_balance", stage.BankBalance.String())
	return stage, nil
}

// Pending returns the staged withdrawal, if any.
func (b *Builder) Pending() (AllowanceStage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return AllowanceStage{}, false
	}
	return *b.pending, true
}

// ConfirmAllowance writes the staged withdrawal as a cash income and a bank
// expense of the same amount and date, then clears the stage. The bank leg
// ends up first in the log.
func (b *Builder) ConfirmAllowance(ctx context.Context) ([]core.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return nil, core.ErrNoPendingAllowance
	}
	cashIn := b.pending.Input
	bankOut := core.TransactionInput{
		Type:     core.Expense,
		Amount:   cashIn.Amount,
		Category: categories.Allowance,
		Date:     cashIn.Date,
		Notes:    allowanceNotePrefix + cashIn.Notes,
		Account:  core.Bank,
	}

	added, err := b.store.AddTransactions(ctx, ledger.Prepend, cashIn, bankOut)
	if len(added) == 0 {
		return nil, fmt.Errorf("confirm allowance: %w", err)
	}
	b.pending = nil
	b.logger.InfoContext(ctx, "Allowance withdrawal confirmed",
		log.FieldOperation, log.OpConfirm, log.FieldAmount, cashIn.Amount.String())
	return added, err
}

// CancelAllowance drops the staged withdrawal. It reports whether one was pending.
func (b *Builder) CancelAllowance(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	had := b.pending != nil
	b.pending = nil
	if had {
		b.logger.InfoContext(ctx, "Allowance withdrawal cancelled", log.FieldOperation, log.OpCancel)
	}
	return had
}

// PayCreditCard records a payoff as a credit expense categorized payment and
// an expense on the source account categorized credit_payment. Both legs are
// appended to the log. Neither is written if either fails validation.
func (b *Builder) PayCreditCard(ctx context.Context, p Payment) ([]core.Transaction, error) {
	if p.Source != core.Bank && p.Source != core.Cash {
		return nil, fmt.Errorf("%w: got %q", core.ErrMissingPaymentSource, p.Source)
	}
	if p.Date.IsZero() {
		p.Date = b.store.Today()
	}
	charge := core.TransactionInput{
		Type:     core.Expense,
		Amount:   p.Amount,
		Category: categories.Payment,
		Date:     p.Date,
		Notes:    p.Notes,
		Account:  core.Credit,
	}
	outflow := core.TransactionInput{
		Type:     core.Expense,
		Amount:   p.Amount,
		Category: categories.CreditPayment,
		Date:     p.Date,
		Notes:    paymentNotePrefix + p.Notes,
		Account:  p.Source,
	}

	added, err := b.store.AddTransactions(ctx, ledger.Append, charge, outflow)
	if err != nil && !errors.Is(err, core.ErrPersistence) {
		return nil, fmt.Errorf("pay credit card: %w", err)
	}
	b.logger.InfoContext(ctx, "Credit card payment recorded",
		log.FieldAmount, p.Amount.String(), "source", p.Source.String())
	return added, err
}
