// Command budget is a terminal front end for the personal budget ledger.
package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"budget/internal/cli"
)

var commands struct {
	LogLevel string `name:"log-level" env:"LOG_LEVEL" help:"Log level (debug, info, warn, error)."`

	Add        addCmd        `cmd help:"Record a transaction."`
	Update     updateCmd     `cmd help:"Edit a transaction."`
	Delete     deleteCmd     `cmd help:"Delete a transaction."`
	List       listCmd       `cmd help:"Show income and expense details for a time range."`
	Category   categoryCmd   `cmd help:"Show every transaction of one category."`
	Account    accountCmd    `cmd help:"Show the transactions of one account for a time range."`
	Balance    balanceCmd    `cmd help:"Show account balances and today's summary."`
	Report     reportCmd     `cmd help:"Show spending per category for a time range."`
	Months     monthsCmd     `cmd help:"List the selectable months."`
	Allowance  allowanceCmd  `cmd help:"Withdraw allowance from the bank into cash."`
	PayCard    payCardCmd    `cmd name:"pay-card" help:"Pay off credit card debt from bank or cash."`
	Assets     assetsCmd     `cmd help:"Set initial account balances."`
	Card       cardCmd       `cmd help:"Manage credit cards."`
	Categories categoriesCmd `cmd help:"List the categories of a transaction type."`
	Currency   currencyCmd   `cmd help:"Change the display currency."`
	Reset      resetCmd      `cmd help:"Delete all data."`
}

func main() {
	cli.LoadEnvFile()

	ctx := context.Background()
	k := kong.Parse(&commands,
		kong.Name("budget"),
		kong.Description("Track income, expenses and balances across bank, cash and credit."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)))

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		k.Fatalf("%v", err)
	}
	if commands.LogLevel != "" {
		cfg.LogLevel = commands.LogLevel
	}
	logger := cli.SetupLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.Open(ctx, cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to open ledger", err)
	}

	err = k.Run(app)
	if cerr := app.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	k.FatalIfErrorf(err)
}
