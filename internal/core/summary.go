package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category key.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Balances holds the derived current balance of every account.
type Balances struct {
	Bank   decimal.Decimal
	Cash   decimal.Decimal
	Credit decimal.Decimal
	Total  decimal.Decimal
}

// DaySummary is the income/expense overview for a single calendar day.
type DaySummary struct {
	Date    Date
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}
