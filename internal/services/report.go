package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/balance"
	"budget/internal/cache"
	"budget/internal/categories"
	"budget/internal/core"
	"budget/internal/filter"
	"budget/internal/ledger"
	"budget/internal/log"
)

// CategoryLine is one slice of the spending chart.
type CategoryLine struct {
	categories.Info
	Amount decimal.Decimal
}

// Breakdown is the chart content for one time range.
type Breakdown struct {
	Label string
	Lines []CategoryLine
	Total decimal.Decimal
}

// Overview is the dashboard header: current balances and today's totals.
type Overview struct {
	Currency string
	Balances core.Balances
	Today    core.DaySummary
}

// Details is one page of the income and expense lists.
type Details struct {
	Label   string
	Income  filter.Page[core.Transaction]
	Expense filter.Page[core.Transaction]
}

// ReportKey identifies a cached breakdown. Any change to the ledger bumps
// the revision, so stale entries are never hit. They are purged the first
// time a newer revision is asked for.
type ReportKey struct {
	Revision  uint64
	Mode      filter.Mode
	Reference string
	Month     time.Month
	Year      int
}

// ReportService answers the read-side queries of the dashboard.
type ReportService struct {
	store    *ledger.Store
	pageSize int
	cache    cache.Cache[ReportKey, Breakdown]
	logger   *log.Logger

	mu       sync.Mutex
	revision uint64
}

type ReportOption func(*ReportService)

// WithCache caches category breakdowns. Without it every call recomputes.
func WithCache(c cache.Cache[ReportKey, Breakdown]) ReportOption {
	return func(s *ReportService) { s.cache = c }
}

func WithPageSize(n int) ReportOption {
	return func(s *ReportService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithReportLogger(l *log.Logger) ReportOption {
	return func(s *ReportService) { s.logger = l }
}

// DefaultPageSize matches the detail lists of the dashboard.
const DefaultPageSize = 3

func NewReportService(store *ledger.Store, opts ...ReportOption) *ReportService {
	s := &ReportService{
		store:    store,
		pageSize: DefaultPageSize,
		cache:    cache.Nop[ReportKey, Breakdown]{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.logger = s.logger.WithComponent(log.ComponentReport)
	return s
}

// Overview returns the current balances and the summary of today.
func (s *ReportService) Overview() Overview {
	doc := s.store.Document()
	return Overview{
		Currency: doc.Settings.Currency,
		Balances: balance.All(doc),
		Today:    balance.Day(doc, s.store.Today()),
	}
}

// CategoryBreakdown sums cash and credit expenses inside r per category, in
// order of first appearance, with display labels resolved.
func (s *ReportService) CategoryBreakdown(ctx context.Context, r filter.Range) Breakdown {
	key := ReportKey{
		Revision:  s.store.Revision(),
		Mode:      r.Mode,
		Reference: r.Reference.String(),
		Month:     r.Month,
		Year:      r.Year,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if key.Revision != s.revision {
		s.cache.Purge()
		s.revision = key.Revision
	}
	if b, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "Category breakdown cache hit", "range", r.Label())
		return b.clone()
	}
	if n := s.cache.CleanExpired(); n > 0 {
		s.logger.DebugContext(ctx, "Expired breakdowns removed", log.FieldCount, n)
	}

	doc := s.store.Document()
	expenses := filter.ExpensesForChart(doc.Transactions, r)
	b := Breakdown{Label: r.Label(), Lines: []CategoryLine{}, Total: filter.Sum(expenses)}
	for _, ca := range filter.AggregateByCategory(expenses) {
		b.Lines = append(b.Lines, CategoryLine{
			Info:   categories.Resolve(core.Expense, ca.Category),
			Amount: ca.Amount,
		})
	}

	s.cache.Set(key, b.clone())
	return b
}

func (b Breakdown) clone() Breakdown {
	b.Lines = slices.Clone(b.Lines)
	return b
}

// Details pages the income and expense lists of the detail view. A selected
// month overrides r.
func (s *ReportService) Details(r filter.Range, selected *filter.MonthKey, incomePage, expensePage int) Details {
	doc := s.store.Document()
	income, expense := filter.DetailLists(doc.Transactions, r, selected)
	label := r.Label()
	if selected != nil {
		label = filter.Range{Mode: filter.Custom, Year: selected.Year, Month: selected.Month}.Label()
	}
	return Details{
		Label:   label,
		Income:  filter.Paginate(income, incomePage, s.pageSize),
		Expense: filter.Paginate(expense, expensePage, s.pageSize),
	}
}

// AccountDetails pages the transactions posted against one account inside r,
// newest first.
func (s *ReportService) AccountDetails(a core.Account, r filter.Range, page int) filter.Page[core.Transaction] {
	doc := s.store.Document()
	txs := filter.ByAccount(filter.ByTimeRange(doc.Transactions, r), a)
	filter.SortByDateDesc(txs)
	return filter.Paginate(txs, page, s.pageSize)
}

// CategoryDetails pages every transaction of one category, newest first.
func (s *ReportService) CategoryDetails(category string, page int) filter.Page[core.Transaction] {
	doc := s.store.Document()
	return filter.Paginate(filter.ByCategory(doc.Transactions, category), page, s.pageSize)
}

// Months lists the month selector options ending with the current month.
func (s *ReportService) Months(n int) []filter.MonthKey {
	return filter.RecentMonths(s.store.Today(), n)
}
