package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Bank   Account = "bank"
	Cash   Account = "cash"
	Credit Account = "credit"

	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// Account is one of the three money pools a transaction posts against.
	Account string

	// TxType tells whether a transaction adds to or subtracts from its account.
	TxType string

	Transaction struct {
		ID       int64           `json:"id"`
		Type     TxType          `json:"type"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
		Date     Date            `json:"date"`
		Notes    string          `json:"notes"`
		Account  Account         `json:"account"`
	}

	// TransactionInput carries every Transaction field except the id.
	TransactionInput struct {
		Type     TxType          `validate:"required,oneof=income expense"`
		Amount   decimal.Decimal `validate:"gt=0"`
		Category string
		Date     Date    `validate:"required"`
		Notes    string
		Account  Account `validate:"required,oneof=bank cash credit"`
	}

	CreditCard struct {
		Name    string          `json:"name"`
		Balance decimal.Decimal `json:"balance"`
	}

	// Assets holds initial balances. Current balances are derived from the ledger.
	Assets struct {
		Bank        decimal.Decimal `json:"bank"`
		Cash        decimal.Decimal `json:"cash"`
		CreditCards []CreditCard    `json:"creditCards"`
	}

	CustomCategories struct {
		Income  []string `json:"income"`
		Expense []string `json:"expense"`
	}

	Settings struct {
		Currency string `json:"currency"`
	}
)

// Accounts lists every known account in display order.
func Accounts() []Account {
	return []Account{Bank, Cash, Credit}
}

func ParseAccount(s string) (Account, error) {
	a := Account(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccount, s)
	}
	return a, nil
}

func (a Account) Valid() bool {
	switch a {
	case Bank, Cash, Credit:
		return true
	default:
		return false
	}
}

func (a Account) String() string {
	return string(a)
}

func ParseTxType(s string) (TxType, error) {
	t := TxType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

func (t TxType) String() string {
	return string(t)
}

// Signed returns the amount as it affects the account balance:
// income adds, expense subtracts.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Input returns the mutable part of the transaction.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Type:     t.Type,
		Amount:   t.Amount,
		Category: t.Category,
		Date:     t.Date,
		Notes:    t.Notes,
		Account:  t.Account,
	}
}

// Build assigns id to the input.
func (in TransactionInput) Build(id int64) Transaction {
	return Transaction{
		ID:       id,
		Type:     in.Type,
		Amount:   in.Amount,
		Category: in.Category,
		Date:     in.Date,
		Notes:    in.Notes,
		Account:  in.Account,
	}
}

// CreditTotal returns the summed initial balance of all cards.
func (a Assets) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range a.CreditCards {
		total = total.Add(c.Balance)
	}
	return total
}

// For returns the custom categories registered for the given type.
func (c CustomCategories) For(t TxType) []string {
	if t == Income {
		return c.Income
	}
	return c.Expense
}
