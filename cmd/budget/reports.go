package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"budget/internal/categories"
	"budget/internal/cli"
	"budget/internal/core"
	"budget/internal/filter"
)

// rangeFlags select the time range of the chart and detail views.
type rangeFlags struct {
	Mode  string `short:"m" enum:"daily,monthly,yearly,custom" default:"monthly" help:"Time range (daily, monthly, yearly, custom)."`
	Date  string `short:"d" help:"Reference date (YYYY-MM-DD), defaults to today."`
	Month int    `help:"Month for the custom range (1-12)."`
	Year  int    `help:"Year for the custom range."`
}

func (f rangeFlags) build(today core.Date) (filter.Range, error) {
	ref, err := parseOptionalDate(f.Date)
	if err != nil {
		return filter.Range{}, err
	}
	if ref.IsZero() {
		ref = today
	}
	r := filter.Range{Mode: filter.Mode(f.Mode), Reference: ref, Month: time.Month(f.Month), Year: f.Year}
	if r.Mode == filter.Custom {
		if r.Month == 0 {
			r.Month = ref.Month()
		}
		if r.Year == 0 {
			r.Year = ref.Year()
		}
		if r.Month < time.January || r.Month > time.December {
			return filter.Range{}, fmt.Errorf("%w: month %d", core.ErrValidation, f.Month)
		}
	}
	return r, nil
}

type balanceCmd struct{}

func (c *balanceCmd) Run(app *cli.App, k *kong.Context) error {
	ov := app.Reports.Overview()
	doc := app.Store.Document()
	w := k.Stdout

	fmt.Fprintf(w, "Total assets  %s\n", core.FormatAmount(ov.Currency, ov.Balances.Total))
	fmt.Fprintf(w, "  Bank        %s\n", core.FormatAmount(ov.Currency, ov.Balances.Bank))
	fmt.Fprintf(w, "  Cash        %s\n", core.FormatAmount(ov.Currency, ov.Balances.Cash))
	fmt.Fprintf(w, "  Credit      %s\n", core.FormatAmount(ov.Currency, ov.Balances.Credit))
	for i, card := range doc.Assets.CreditCards {
		fmt.Fprintf(w, "    [%d] %s  %s\n", i, card.Name, core.FormatAmount(ov.Currency, card.Balance))
	}
	fmt.Fprintf(w, "Today %s  income %s  expense %s  net %s\n",
		ov.Today.Date,
		core.FormatAmount(ov.Currency, ov.Today.Income),
		core.FormatAmount(ov.Currency, ov.Today.Expense),
		core.FormatAmount(ov.Currency, ov.Today.Net))
	return nil
}

type reportCmd struct {
	Range rangeFlags `embed:""`
}

func (c *reportCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	r, err := c.Range.build(app.Store.Today())
	if err != nil {
		return err
	}
	b := app.Reports.CategoryBreakdown(ctx, r)
	currency := app.Store.Document().Settings.Currency

	fmt.Fprintf(k.Stdout, "Spending %s (cash and credit)\n", b.Label)
	if len(b.Lines) == 0 {
		fmt.Fprintln(k.Stdout, "  no expenses")
		return nil
	}
	for _, line := range b.Lines {
		pct := line.Amount.Div(b.Total).Mul(decimal.NewFromInt(100)).Round(0)
		fmt.Fprintf(k.Stdout, "  %s %-12s %s  %s%%\n", line.Icon, line.Label, core.FormatAmount(currency, line.Amount), pct)
	}
	fmt.Fprintf(k.Stdout, "  Total %s\n", core.FormatAmount(currency, b.Total))
	return nil
}

type listCmd struct {
	Range       rangeFlags `embed:""`
	Select      string     `short:"s" help:"Show one month (YYYY-MM) regardless of the range."`
	IncomePage  int        `default:"1" help:"Income page."`
	ExpensePage int        `default:"1" help:"Expense page."`
}

func (c *listCmd) Run(app *cli.App, k *kong.Context) error {
	r, err := c.Range.build(app.Store.Today())
	if err != nil {
		return err
	}
	var selected *filter.MonthKey
	if c.Select != "" {
		t, err := time.Parse("2006-01", c.Select)
		if err != nil {
			return fmt.Errorf("%w: month %q", core.ErrInvalidDate, c.Select)
		}
		selected = &filter.MonthKey{Year: t.Year(), Month: t.Month()}
	}

	d := app.Reports.Details(r, selected, c.IncomePage, c.ExpensePage)
	fmt.Fprintf(k.Stdout, "Details %s\n", d.Label)
	printPage(k.Stdout, app, "Income", d.Income)
	printPage(k.Stdout, app, "Expense", d.Expense)
	return nil
}

type accountCmd struct {
	Account string     `arg enum:"bank,cash,credit" help:"Account (bank, cash or credit)."`
	Range   rangeFlags `embed:""`
	Page    int        `default:"1" help:"Page number."`
}

func (c *accountCmd) Run(app *cli.App, k *kong.Context) error {
	r, err := c.Range.build(app.Store.Today())
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s %s", c.Account, r.Label())
	printPage(k.Stdout, app, title, app.Reports.AccountDetails(core.Account(c.Account), r, c.Page))
	return nil
}

type categoryCmd struct {
	Key  string `arg help:"Category key or custom name."`
	Page int    `default:"1" help:"Page number."`
}

func (c *categoryCmd) Run(app *cli.App, k *kong.Context) error {
	info := categories.Resolve(core.Expense, c.Key)
	printPage(k.Stdout, app, info.Icon+" "+info.Label, app.Reports.CategoryDetails(c.Key, c.Page))
	return nil
}

type monthsCmd struct {
	Count int `default:"24" help:"How many months to list."`
}

func (c *monthsCmd) Run(app *cli.App, k *kong.Context) error {
	for _, m := range app.Reports.Months(c.Count) {
		fmt.Fprintf(k.Stdout, "%04d-%02d\n", m.Year, int(m.Month))
	}
	return nil
}

type categoriesCmd struct {
	Type string `arg optional enum:"income,expense" default:"expense" help:"Transaction type (income or expense)."`
}

func (c *categoriesCmd) Run(app *cli.App, k *kong.Context) error {
	cc := app.Store.Document().CustomCategories
	for _, info := range categories.Options(core.TxType(c.Type), cc) {
		fmt.Fprintf(k.Stdout, "%s %-14s %s\n", info.Icon, info.Key, info.Label)
	}
	return nil
}

func printPage(w io.Writer, app *cli.App, title string, p filter.Page[core.Transaction]) {
	fmt.Fprintf(w, "%s (page %d of %d)\n", title, p.CurrentPage, max(p.TotalPages, 1))
	if len(p.Items) == 0 {
		fmt.Fprintln(w, "  nothing here")
		return
	}
	printTransactions(w, app, p.Items)
}
