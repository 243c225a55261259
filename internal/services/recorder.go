package services

import (
	"context"

	"github.com/shopspring/decimal"

	"budget/internal/categories"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

// Entry is a transaction as entered in the quick-add form.
type Entry struct {
	Type    core.TxType
	Amount  decimal.Decimal
	Account core.Account
	// Category is the picker selection. Selecting categories.Custom makes
	// CustomName the category.
	Category   string
	CustomName string
	Date       core.Date
	Notes      string
	// PaymentSource funds a credit card payoff.
	PaymentSource core.Account
}

// Outcome tells which path Record took.
type Outcome int

const (
	Recorded Outcome = iota
	AllowanceStaged
	CreditCardPaid
)

func (o Outcome) String() string {
	switch o {
	case AllowanceStaged:
		return "allowance_staged"
	case CreditCardPaid:
		return "credit_card_paid"
	default:
		return "recorded"
	}
}

type Result struct {
	Outcome      Outcome
	Transactions []core.Transaction
	// Stage is set when Outcome is AllowanceStaged.
	Stage *AllowanceStage
}

// Recorder routes quick-add entries: cash income categorized allowance is
// staged as a withdrawal, credit expense categorized payment becomes a card
// payoff, and everything else is added as is.
type Recorder struct {
	store   *ledger.Store
	builder *Builder
	logger  *log.Logger
}

func NewRecorder(store *ledger.Store, builder *Builder, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{store: store, builder: builder, logger: logger.WithComponent(log.ComponentServices)}
}

func (r *Recorder) Record(ctx context.Context, e Entry) (Result, error) {
	in, err := r.prepare(ctx, e)
	if err != nil {
		return Result{}, err
	}

	switch {
	case in.Account == core.Cash && in.Type == core.Income && in.Category == categories.Allowance:
		stage, err := r.builder.StageAllowance(ctx, in.Amount, in.Date, in.Notes)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: AllowanceStaged, Stage: &stage}, nil

	case in.Account == core.Credit && in.Type == core.Expense && in.Category == categories.Payment:
		txs, err := r.builder.PayCreditCard(ctx, Payment{
			Amount: in.Amount,
			Date:   in.Date,
			Notes:  in.Notes,
			Source: e.PaymentSource,
		})
		return Result{Outcome: CreditCardPaid, Transactions: txs}, err

	default:
		t, err := r.store.AddTransaction(ctx, in)
		if t.ID == 0 {
			return Result{}, err
		}
		return Result{Outcome: Recorded, Transactions: []core.Transaction{t}}, err
	}
}

// Update replaces an existing transaction from an edited entry. Edits never
// trigger the composite workflows.
func (r *Recorder) Update(ctx context.Context, id int64, e Entry) (core.Transaction, error) {
	in, err := r.prepare(ctx, e)
	if err != nil {
		return core.Transaction{}, err
	}
	return r.store.UpdateTransaction(ctx, id, in)
}

// prepare resolves the picker selection and validates the entry. A new
// custom category is registered only once the entry is known to be valid.
func (r *Recorder) prepare(ctx context.Context, e Entry) (core.TransactionInput, error) {
	category, err := categories.Choose(e.Category, e.CustomName)
	if err != nil {
		return core.TransactionInput{}, err
	}
	if e.Date.IsZero() {
		e.Date = r.store.Today()
	}
	in := core.TransactionInput{
		Type:     e.Type,
		Amount:   e.Amount,
		Category: category,
		Date:     e.Date,
		Notes:    e.Notes,
		Account:  e.Account,
	}
	if err := in.Validate(); err != nil {
		return core.TransactionInput{}, err
	}

	if e.Category == categories.Custom {
		if _, err := r.store.RegisterCustomCategory(ctx, in.Type, category); err != nil {
			r.logger.LogError(ctx, "Failed to register custom category", err, log.OpCreate,
				log.NewFields().With(log.FieldCategory, category))
		}
	}
	return in, nil
}
