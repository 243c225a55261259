// Package filter selects, sorts, aggregates and pages ledger transactions.
package filter

import (
	"fmt"
	"slices"
	"time"

	"budget/internal/core"
)

const (
	Daily   Mode = "daily"
	Monthly Mode = "monthly"
	Yearly  Mode = "yearly"
	Custom  Mode = "custom"
)

// Mode is the time-range window applied to chart and detail views.
type Mode string

func (m Mode) Valid() bool {
	switch m {
	case Daily, Monthly, Yearly, Custom:
		return true
	default:
		return false
	}
}

// Range is a time-range selection. Daily, Monthly and Yearly compare against
// Reference; Custom matches Month and Year exactly and ignores Reference.
type Range struct {
	Mode      Mode
	Reference core.Date
	Month     time.Month
	Year      int
}

// Contains reports whether d falls inside the range. An unknown mode
// contains nothing.
func (r Range) Contains(d core.Date) bool {
	switch r.Mode {
	case Daily:
		return d.SameDay(r.Reference)
	case Monthly:
		return d.SameMonth(r.Reference)
	case Yearly:
		return d.Year() == r.Reference.Year()
	case Custom:
		return d.Year() == r.Year && d.Month() == r.Month
	default:
		return false
	}
}

// Label renders the range for headers, e.g. "2024-03-01", "2024-03", "2024".
func (r Range) Label() string {
	switch r.Mode {
	case Daily:
		return r.Reference.String()
	case Monthly:
		return fmt.Sprintf("%04d-%02d", r.Reference.Year(), int(r.Reference.Month()))
	case Yearly:
		return fmt.Sprintf("%04d", r.Reference.Year())
	case Custom:
		return fmt.Sprintf("%04d-%02d", r.Year, int(r.Month))
	default:
		return ""
	}
}

// ByTimeRange keeps the transactions dated inside r, preserving order.
func ByTimeRange(txs []core.Transaction, r Range) []core.Transaction {
	return where(txs, func(t core.Transaction) bool {
		return r.Contains(t.Date)
	})
}

// ExpensesForChart is ByTimeRange restricted to cash and credit expenses.
// Bank expenses are left out of the category breakdown since they are
// mostly transfers rather than spending.
func ExpensesForChart(txs []core.Transaction, r Range) []core.Transaction {
	return where(txs, func(t core.Transaction) bool {
		return t.Type == core.Expense &&
			(t.Account == core.Cash || t.Account == core.Credit) &&
			r.Contains(t.Date)
	})
}

// ByCategory keeps the transactions of one category, newest first.
func ByCategory(txs []core.Transaction, category string) []core.Transaction {
	out := where(txs, func(t core.Transaction) bool {
		return t.Category == category
	})
	SortByDateDesc(out)
	return out
}

// ByType keeps the transactions of one type, preserving order.
func ByType(txs []core.Transaction, typ core.TxType) []core.Transaction {
	return where(txs, func(t core.Transaction) bool {
		return t.Type == typ
	})
}

// ByAccount keeps the transactions posted against one account.
func ByAccount(txs []core.Transaction, a core.Account) []core.Transaction {
	return where(txs, func(t core.Transaction) bool {
		return t.Account == a
	})
}

// ByMonth matches type, year and month exactly, regardless of any active
// time range.
func ByMonth(txs []core.Transaction, typ core.TxType, year int, month time.Month) []core.Transaction {
	return where(txs, func(t core.Transaction) bool {
		return t.Type == typ && t.Date.Year() == year && t.Date.Month() == month
	})
}

// SortByDateDesc orders txs newest first in place. Ties keep their order.
func SortByDateDesc(txs []core.Transaction) {
	slices.SortStableFunc(txs, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
}

func where(txs []core.Transaction, keep func(core.Transaction) bool) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
