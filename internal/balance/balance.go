// Package balance derives current account balances from a document.
// Every function is pure; nothing is cached or stored.
package balance

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Of returns the current balance of a: its initial balance plus the signed
// sum of every transaction posted against it.
func Of(doc core.Document, a core.Account) decimal.Decimal {
	total := initial(doc.Assets, a)
	for _, t := range doc.Transactions {
		if t.Account == a {
			total = total.Add(t.Signed())
		}
	}
	return total
}

func initial(assets core.Assets, a core.Account) decimal.Decimal {
	switch a {
	case core.Bank:
		return assets.Bank
	case core.Cash:
		return assets.Cash
	case core.Credit:
		return assets.CreditTotal()
	default:
		return decimal.Zero
	}
}

func Bank(doc core.Document) decimal.Decimal {
	return Of(doc, core.Bank)
}

func Cash(doc core.Document) decimal.Decimal {
	return Of(doc, core.Cash)
}

// Credit sums over the aggregate of all cards; transactions never reference
// an individual card.
func Credit(doc core.Document) decimal.Decimal {
	return Of(doc, core.Credit)
}

func TotalAssets(doc core.Document) decimal.Decimal {
	return Bank(doc).Add(Cash(doc)).Add(Credit(doc))
}

// All computes every account in one pass over the ledger.
func All(doc core.Document) core.Balances {
	b := core.Balances{
		Bank:   doc.Assets.Bank,
		Cash:   doc.Assets.Cash,
		Credit: doc.Assets.CreditTotal(),
	}
	for _, t := range doc.Transactions {
		switch t.Account {
		case core.Bank:
			b.Bank = b.Bank.Add(t.Signed())
		case core.Cash:
			b.Cash = b.Cash.Add(t.Signed())
		case core.Credit:
			b.Credit = b.Credit.Add(t.Signed())
		}
	}
	b.Total = b.Bank.Add(b.Cash).Add(b.Credit)
	return b
}

// Day totals income and expense of the transactions dated on day.
func Day(doc core.Document, day core.Date) core.DaySummary {
	s := core.DaySummary{Date: day, Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range doc.Transactions {
		if !t.Date.SameDay(day) {
			continue
		}
		switch t.Type {
		case core.Income:
			s.Income = s.Income.Add(t.Amount)
		case core.Expense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}
