package filter

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// AggregateByCategory sums amounts per category. Categories appear in the
// order they are first seen.
func AggregateByCategory(txs []core.Transaction) []core.CategoryAmount {
	index := make(map[string]int)
	var out []core.CategoryAmount
	for _, t := range txs {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryAmount{Category: t.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// Sum totals the amounts of txs ignoring their type.
func Sum(txs []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total
}

// Page is one page of a longer sequence.
type Page[T any] struct {
	Items       []T
	TotalPages  int
	CurrentPage int
}

// HasPrev and HasNext tell the caller whether to enable its page buttons.
func (p Page[T]) HasPrev() bool { return p.CurrentPage > 1 }
func (p Page[T]) HasNext() bool { return p.CurrentPage < p.TotalPages }

// Paginate returns page number page (1-based) of size items. Pages outside
// [1, TotalPages] come back empty but keep the requested page number;
// clamping is left to the caller.
func Paginate[T any](items []T, page, size int) Page[T] {
	p := Page[T]{Items: []T{}, CurrentPage: page}
	if size <= 0 {
		return p
	}
	p.TotalPages = (len(items) + size - 1) / size
	if page < 1 {
		return p
	}
	start := (page - 1) * size
	if start >= len(items) {
		return p
	}
	end := min(start+size, len(items))
	p.Items = slices.Clone(items[start:end])
	return p
}

// DetailLists returns the income and expense lists of the detail view,
// newest first. A selected month overrides the time range.
func DetailLists(txs []core.Transaction, r Range, selected *MonthKey) (income, expense []core.Transaction) {
	if selected != nil {
		income = ByMonth(txs, core.Income, selected.Year, selected.Month)
		expense = ByMonth(txs, core.Expense, selected.Year, selected.Month)
	} else {
		inRange := ByTimeRange(txs, r)
		income = ByType(inRange, core.Income)
		expense = ByType(inRange, core.Expense)
	}
	SortByDateDesc(income)
	SortByDateDesc(expense)
	return income, expense
}

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// RecentMonths lists n months ending with the month of ref, newest first.
// It feeds the month selector.
func RecentMonths(ref core.Date, n int) []MonthKey {
	out := make([]MonthKey, 0, max(n, 0))
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, -i, 0)
		out = append(out, MonthKey{Year: m.Year(), Month: m.Month()})
	}
	return out
}
