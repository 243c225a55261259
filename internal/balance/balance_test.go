package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"budget/internal/core"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func tx(id int64, typ core.TxType, acct core.Account, amount int64, day int) core.Transaction {
	return core.Transaction{
		ID:       id,
		Type:     typ,
		Account:  acct,
		Amount:   dec(amount),
		Category: "food",
		Date:     core.NewDate(2024, time.March, day),
	}
}

func sampleDoc() core.Document {
	doc := core.NewDocument()
	doc.Assets.Bank = dec(1000)
	doc.Assets.Cash = dec(50)
	doc.Assets.CreditCards = []core.CreditCard{
		{Name: "A", Balance: dec(-300)},
		{Name: "B", Balance: dec(-200)},
	}
	doc.Transactions = []core.Transaction{
		tx(1, core.Income, core.Bank, 500, 1),
		tx(2, core.Expense, core.Bank, 120, 2),
		tx(3, core.Expense, core.Cash, 30, 2),
		tx(4, core.Expense, core.Credit, 80, 3),
		tx(5, core.Income, core.Credit, 10, 3),
	}
	return doc
}

func TestAccountBalances(t *testing.T) {
	doc := sampleDoc()

	assert.True(t, Bank(doc).Equal(dec(1380)), "bank: %s", Bank(doc))
	assert.True(t, Cash(doc).Equal(dec(20)), "cash: %s", Cash(doc))
	assert.True(t, Credit(doc).Equal(dec(-570)), "credit: %s", Credit(doc))
	assert.True(t, TotalAssets(doc).Equal(dec(830)), "total: %s", TotalAssets(doc))
}

func TestAllMatchesIndividualBalances(t *testing.T) {
	doc := sampleDoc()
	b := All(doc)

	assert.True(t, b.Bank.Equal(Bank(doc)))
	assert.True(t, b.Cash.Equal(Cash(doc)))
	assert.True(t, b.Credit.Equal(Credit(doc)))
	assert.True(t, b.Total.Equal(b.Bank.Add(b.Cash).Add(b.Credit)))
}

func TestBalancesAreOrderIndependent(t *testing.T) {
	doc := sampleDoc()
	reversed := doc.Clone()
	for i, j := 0, len(reversed.Transactions)-1; i < j; i, j = i+1, j-1 {
		reversed.Transactions[i], reversed.Transactions[j] = reversed.Transactions[j], reversed.Transactions[i]
	}
	assert.Equal(t, All(doc).Total.String(), All(reversed).Total.String())
}

func TestAddingTransactionShiftsBalanceLinearly(t *testing.T) {
	doc := sampleDoc()
	before := Cash(doc)

	withIncome := doc.Clone()
	withIncome.Transactions = append(withIncome.Transactions, tx(6, core.Income, core.Cash, 75, 4))
	assert.True(t, Cash(withIncome).Equal(before.Add(dec(75))))

	withExpense := doc.Clone()
	withExpense.Transactions = append(withExpense.Transactions, tx(6, core.Expense, core.Cash, 75, 4))
	assert.True(t, Cash(withExpense).Equal(before.Sub(dec(75))))
}

func TestEmptyDocumentIsZero(t *testing.T) {
	var doc core.Document
	b := All(doc)
	assert.True(t, b.Total.IsZero())
	assert.True(t, TotalAssets(doc).IsZero())
}

func TestDay(t *testing.T) {
	doc := sampleDoc()
	s := Day(doc, core.NewDate(2024, time.March, 3))

	assert.True(t, s.Income.Equal(dec(10)))
	assert.True(t, s.Expense.Equal(dec(80)))
	assert.True(t, s.Net.Equal(dec(-70)))

	none := Day(doc, core.NewDate(2024, time.April, 1))
	assert.True(t, none.Net.IsZero())
}
