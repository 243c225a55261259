package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"budget/internal/cli"
	"budget/internal/core"
)

type assetsCmd struct {
	Set     assetsSetCmd     `cmd help:"Overwrite the initial bank, cash and total credit balances."`
	Account assetsAccountCmd `cmd help:"Overwrite the initial balance of the bank or cash account."`
}

type assetsSetCmd struct {
	Bank   string `default:"0" help:"Initial bank balance."`
	Cash   string `default:"0" help:"Initial cash balance."`
	Credit string `default:"0" help:"Total initial credit balance; replaces all cards with one card."`
}

func (c *assetsSetCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	bank, err := core.ParseBalance(c.Bank)
	if err != nil {
		return err
	}
	cash, err := core.ParseBalance(c.Cash)
	if err != nil {
		return err
	}
	credit, err := core.ParseBalance(c.Credit)
	if err != nil {
		return err
	}
	if err := app.Store.SetInitialAssets(ctx, bank, cash, credit); err != nil {
		return err
	}
	fmt.Fprintln(k.Stdout, "Initial assets saved.")
	return nil
}

type assetsAccountCmd struct {
	Account string `arg enum:"bank,cash" help:"Account (bank or cash)."`
	Amount  string `arg help:"Initial balance."`
}

func (c *assetsAccountCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	amount, err := core.ParseBalance(c.Amount)
	if err != nil {
		return err
	}
	if err := app.Store.SetAccountBalance(ctx, core.Account(c.Account), amount); err != nil {
		return err
	}
	fmt.Fprintf(k.Stdout, "Initial %s balance saved.\n", c.Account)
	return nil
}

type cardCmd struct {
	List   cardListCmd   `cmd help:"List credit cards."`
	Add    cardAddCmd    `cmd help:"Add a credit card."`
	Update cardUpdateCmd `cmd help:"Rename a card or change its initial balance."`
	Remove cardRemoveCmd `cmd help:"Remove a credit card."`
}

type cardListCmd struct{}

func (c *cardListCmd) Run(app *cli.App, k *kong.Context) error {
	doc := app.Store.Document()
	cards := doc.Assets.CreditCards
	if len(cards) == 0 {
		fmt.Fprintln(k.Stdout, "No credit cards.")
		return nil
	}
	for i, card := range cards {
		fmt.Fprintf(k.Stdout, "[%d] %s  %s\n", i, card.Name, core.FormatAmount(doc.Settings.Currency, card.Balance))
	}
	fmt.Fprintf(k.Stdout, "Total %s\n", core.FormatAmount(doc.Settings.Currency, doc.Assets.CreditTotal()))
	return nil
}

type cardAddCmd struct {
	Name    string `arg help:"Card name."`
	Balance string `arg optional default:"0" help:"Initial balance, usually negative."`
}

func (c *cardAddCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	balance, err := core.ParseBalance(c.Balance)
	if err != nil {
		return err
	}
	if err := app.Store.AddCreditCard(ctx, c.Name, balance); err != nil {
		return err
	}
	fmt.Fprintf(k.Stdout, "Added card %q.\n", c.Name)
	return nil
}

type cardUpdateCmd struct {
	Index   int    `arg help:"Card position as shown by 'card list'."`
	Name    string `arg help:"Card name."`
	Balance string `arg help:"Initial balance."`
}

func (c *cardUpdateCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	balance, err := core.ParseBalance(c.Balance)
	if err != nil {
		return err
	}
	if err := app.Store.UpdateCreditCard(ctx, c.Index, c.Name, balance); err != nil {
		return err
	}
	fmt.Fprintf(k.Stdout, "Updated card %d.\n", c.Index)
	return nil
}

type cardRemoveCmd struct {
	Index int `arg help:"Card position as shown by 'card list'."`
}

func (c *cardRemoveCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	if err := app.Store.RemoveCreditCard(ctx, c.Index); err != nil {
		return err
	}
	fmt.Fprintf(k.Stdout, "Removed card %d.\n", c.Index)
	return nil
}

type currencyCmd struct {
	Code string `arg help:"Three-letter currency code."`
}

func (c *currencyCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	if err := app.Store.SetCurrency(ctx, c.Code); err != nil {
		return err
	}
	fmt.Fprintf(k.Stdout, "Currency set to %s.\n", app.Store.Document().Settings.Currency)
	return nil
}

type resetCmd struct {
	Yes bool `short:"y" help:"Reset without asking."`
}

func (c *resetCmd) Run(app *cli.App, ctx context.Context, k *kong.Context) error {
	if !c.Yes && !confirm(os.Stdin, k.Stdout, "Delete every transaction, card and custom category?") {
		fmt.Fprintln(k.Stdout, "Cancelled.")
		return nil
	}
	if err := app.Store.ResetAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(k.Stdout, "All data reset.")
	return nil
}
