package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"budget/internal/categories"
	"budget/internal/cli"
	"budget/internal/core"
	"budget/internal/services"
)

// entryFlags are the quick-add form fields.
type entryFlags struct {
	Type     string `short:"t" enum:"income,expense" default:"expense" help:"Transaction type (income or expense)."`
	Account  string `short:"a" enum:"bank,cash,credit" default:"cash" help:"Account (bank, cash or credit)."`
	Amount   string `arg help:"Amount, e.g. 120 or 12,50."`
	Category string `short:"c" required help:"Category key, or 'custom' together with --custom."`
	Custom   string `help:"Name of a custom category when --category=custom."`
	Date     string `short:"d" help:"Date (YYYY-MM-DD), defaults to today."`
	Notes    string `short:"n" help:"Free-form notes."`
	Source   string `help:"Account that pays a credit card payment (bank or cash)."`
}

func (f entryFlags) entry() (services.Entry, error) {
	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return services.Entry{}, err
	}
	date, err := parseOptionalDate(f.Date)
	if err != nil {
		return services.Entry{}, err
	}
	return services.Entry{
		Type:          core.TxType(f.Type),
		Amount:        amount,
		Account:       core.Account(f.Account),
		Category:      f.Category,
		CustomName:    f.Custom,
		Date:          date,
		Notes:         f.Notes,
		PaymentSource: core.Account(f.Source),
	}, nil
}

type addCmd struct {
	Entry entryFlags `embed:""`
	Yes   bool       `short:"y" help:"Confirm an allowance withdrawal without asking."`
}

func (c *addCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	e, err := c.Entry.entry()
	if err != nil {
		return err
	}
	res, err := app.Recorder.Record(ctx, e)
	if err != nil && len(res.Transactions) == 0 {
		return err
	}
	switch res.Outcome {
	case services.AllowanceStaged:
		return finishAllowance(ctx, app, k, c.Yes)
	case services.CreditCardPaid:
		fmt.Fprintln(k.Stdout, "Credit card payment recorded.")
	}
	printTransactions(k.Stdout, app, res.Transactions)
	return err
}

type updateCmd struct {
	ID    int64      `arg help:"Transaction id."`
	Entry entryFlags `embed:""`
}

func (c *updateCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	e, err := c.Entry.entry()
	if err != nil {
		return err
	}
	t, err := app.Recorder.Update(ctx, c.ID, e)
	if t.ID == 0 {
		return err
	}
	printTransactions(k.Stdout, app, []core.Transaction{t})
	return err
}

type deleteCmd struct {
	ID int64 `arg help:"Transaction id."`
}

func (c *deleteCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	if err := app.Store.DeleteTransaction(ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(k.Stdout, "Deleted transaction %d.\n", c.ID)
	return nil
}

type allowanceCmd struct {
	Amount string `arg help:"Amount to withdraw."`
	Date   string `short:"d" help:"Date (YYYY-MM-DD), defaults to today."`
	Notes  string `short:"n" help:"Free-form notes."`
	Yes    bool   `short:"y" help:"Confirm without asking."`
}

func (c *allowanceCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	amount, err := core.ParseAmount(c.Amount)
	if err != nil {
		return err
	}
	date, err := parseOptionalDate(c.Date)
	if err != nil {
		return err
	}
	if _, err := app.Builder.StageAllowance(ctx, amount, date, c.Notes); err != nil {
		return err
	}
	return finishAllowance(ctx, app, k, c.Yes)
}

// finishAllowance shows the staged withdrawal and confirms or cancels it.
func finishAllowance(ctx context.Context, app *cli.App, k *kong.Context, yes bool) error {
	stage, ok := app.Builder.Pending()
	if !ok {
		return core.ErrNoPendingAllowance
	}
	currency := app.Store.Document().Settings.Currency
	fmt.Fprintf(k.Stdout, "Withdraw %s from the bank into cash (bank balance %s).\n",
		core.FormatAmount(currency, stage.Input.Amount),
		core.FormatAmount(currency, stage.BankBalance))

	if !yes && !confirm(os.Stdin, k.Stdout, "Confirm?") {
		app.Builder.CancelAllowance(ctx)
		fmt.Fprintln(k.Stdout, "Cancelled.")
		return nil
	}
	added, err := app.Builder.ConfirmAllowance(ctx)
	if len(added) == 0 {
		return err
	}
	fmt.Fprintln(k.Stdout, "Allowance withdrawn; the bank balance was reduced accordingly.")
	printTransactions(k.Stdout, app, added)
	return err
}

type payCardCmd struct {
	Amount string `arg help:"Amount paid off."`
	Source string `short:"s" required enum:"bank,cash" help:"Account the payment comes from (bank or cash)."`
	Date   string `short:"d" help:"Date (YYYY-MM-DD), defaults to today."`
	Notes  string `short:"n" help:"Free-form notes."`
}

func (c *payCardCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	amount, err := core.ParseAmount(c.Amount)
	if err != nil {
		return err
	}
	date, err := parseOptionalDate(c.Date)
	if err != nil {
		return err
	}
	added, err := app.Builder.PayCreditCard(ctx, services.Payment{
		Amount: amount,
		Date:   date,
		Notes:  c.Notes,
		Source: core.Account(c.Source),
	})
	if len(added) == 0 {
		return err
	}
	fmt.Fprintln(k.Stdout, "Credit card payment recorded.")
	printTransactions(k.Stdout, app, added)
	return err
}

func parseOptionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printTransactions(w io.Writer, app *cli.App, txs []core.Transaction) {
	currency := app.Store.Document().Settings.Currency
	for _, t := range txs {
		info := categories.Resolve(t.Type, t.Category)
		sign := "+"
		if t.Type == core.Expense {
			sign = "-"
		}
		fmt.Fprintf(w, "%d  %s  %-6s %s %s  %s %s",
			t.ID, t.Date, t.Account, sign, core.FormatAmount(currency, t.Amount), info.Icon, info.Label)
		if t.Notes != "" {
			fmt.Fprintf(w, "  (%s)", t.Notes)
		}
		fmt.Fprintln(w)
	}
}
