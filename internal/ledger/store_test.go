package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/balance"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/storage/memory"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, kv KV) *Store {
	t.Helper()
	if kv == nil {
		kv = memory.New()
	}
	s, err := Open(context.Background(), kv,
		WithClock(ClockFunc(func() time.Time { return fixedNow })),
		WithLogger(log.Discard()))
	require.NoError(t, err)
	return s
}

func input(typ core.TxType, acct core.Account, amount int64, cat string) core.TransactionInput {
	return core.TransactionInput{
		Type:     typ,
		Amount:   decimal.NewFromInt(amount),
		Category: cat,
		Date:     core.NewDate(2024, time.March, 10),
		Account:  acct,
	}
}

// flakyKV fails writes while broken is set.
type flakyKV struct {
	*memory.Store
	broken bool
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.broken {
		return errors.New("quota exceeded")
	}
	return f.Store.Set(ctx, key, value)
}

func TestAddTransactionPrependsAndAssignsUniqueIDs(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	first, err := s.AddTransaction(ctx, input(core.Expense, core.Cash, 100, "food"))
	require.NoError(t, err)
	second, err := s.AddTransaction(ctx, input(core.Income, core.Bank, 500, "salary"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	txs := s.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, second.ID, txs[0].ID, "newest entry should be first")
	assert.Equal(t, first.ID, txs[1].ID)

	got, err := s.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestAddTransactionDefaultsDateToToday(t *testing.T) {
	s := newTestStore(t, nil)
	in := input(core.Expense, core.Cash, 10, "food")
	in.Date = core.Date{}

	tx, err := s.AddTransaction(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", tx.Date.String())
}

func TestAddTransactionRejectsInvalidInput(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   core.TransactionInput
		want error
	}{
		{"zero amount", input(core.Expense, core.Cash, 0, "food"), core.ErrInvalidAmount},
		{"negative amount", input(core.Expense, core.Cash, -5, "food"), core.ErrInvalidAmount},
		{"bad account", input(core.Expense, core.Account("wallet"), 5, "food"), core.ErrInvalidAccount},
		{"bad type", input(core.TxType("transfer"), core.Cash, 5, "food"), core.ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddTransaction(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
	assert.Empty(t, s.Transactions())
	assert.Equal(t, uint64(1), s.Revision(), "only the restore should bump the revision")
}

func TestAddTransactionsIsAllOrNothing(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.AddTransactions(context.Background(), Prepend,
		input(core.Income, core.Cash, 200, "allowance"),
		input(core.Expense, core.Bank, 0, "allowance"))
	require.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Empty(t, s.Transactions())
}

func TestAddTransactionsPlacement(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	seed, err := s.AddTransaction(ctx, input(core.Expense, core.Cash, 1, "food"))
	require.NoError(t, err)

	pre, err := s.AddTransactions(ctx, Prepend,
		input(core.Income, core.Cash, 200, "allowance"),
		input(core.Expense, core.Bank, 200, "allowance"))
	require.NoError(t, err)
	app, err := s.AddTransactions(ctx, Append,
		input(core.Expense, core.Bank, 50, "payment"),
		input(core.Income, core.Credit, 50, "payment"))
	require.NoError(t, err)

	var got []int64
	for _, tx := range s.Transactions() {
		got = append(got, tx.ID)
	}
	assert.Equal(t, []int64{pre[1].ID, pre[0].ID, seed.ID, app[0].ID, app[1].ID}, got)
}

func TestBalancesAreLinearInTheLog(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	require.NoError(t, s.SetInitialAssets(ctx, decimal.NewFromInt(1000), decimal.NewFromInt(100), decimal.NewFromInt(-300)))

	before := balance.All(s.Document())
	tx, err := s.AddTransaction(ctx, input(core.Expense, core.Credit, 120, "shopping"))
	require.NoError(t, err)

	after := balance.All(s.Document())
	assert.True(t, after.Credit.Equal(before.Credit.Sub(decimal.NewFromInt(120))))
	assert.True(t, after.Total.Equal(before.Total.Sub(decimal.NewFromInt(120))))
	assert.True(t, after.Bank.Equal(before.Bank))

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	restored := balance.All(s.Document())
	assert.True(t, restored.Total.Equal(before.Total), "deleting should undo the contribution")
}

func TestUpdateTransaction(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	tx, err := s.AddTransaction(ctx, input(core.Expense, core.Cash, 100, "food"))
	require.NoError(t, err)

	updated, err := s.UpdateTransaction(ctx, tx.ID, input(core.Expense, core.Bank, 250, "  rent "))
	require.NoError(t, err)
	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, core.Bank, updated.Account)
	assert.Equal(t, "rent", updated.Category)

	_, err = s.UpdateTransaction(ctx, 42, input(core.Expense, core.Bank, 1, "x"))
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Len(t, s.Transactions(), 1)
}

func TestDeleteUnknownTransaction(t *testing.T) {
	s := newTestStore(t, nil)
	err := s.DeleteTransaction(context.Background(), 99)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreditCards(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.AddCreditCard(ctx, "Visa", decimal.NewFromInt(-100)))
	require.NoError(t, s.AddCreditCard(ctx, "Master", decimal.NewFromInt(-50)))
	assert.ErrorIs(t, s.AddCreditCard(ctx, "   ", decimal.Zero), core.ErrEmptyCardName)

	require.NoError(t, s.UpdateCreditCard(ctx, 1, "Master Gold", decimal.NewFromInt(-80)))
	assert.ErrorIs(t, s.UpdateCreditCard(ctx, 2, "x", decimal.Zero), core.ErrIndex)
	assert.ErrorIs(t, s.RemoveCreditCard(ctx, -1), core.ErrIndex)

	require.NoError(t, s.RemoveCreditCard(ctx, 0))
	cards := s.CreditCards()
	require.Len(t, cards, 1)
	assert.Equal(t, "Master Gold", cards[0].Name)
	assert.True(t, balance.Credit(s.Document()).Equal(decimal.NewFromInt(-80)))
}

func TestSetInitialAssetsCollapsesCards(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	require.NoError(t, s.AddCreditCard(ctx, "Visa", decimal.NewFromInt(-100)))
	require.NoError(t, s.AddCreditCard(ctx, "Master", decimal.NewFromInt(-50)))

	require.NoError(t, s.SetInitialAssets(ctx, decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.NewFromInt(-150)))
	cards := s.CreditCards()
	require.Len(t, cards, 1)
	assert.Equal(t, DefaultCardName, cards[0].Name)

	require.NoError(t, s.SetInitialAssets(ctx, decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.Zero))
	assert.Empty(t, s.CreditCards())
}

func TestSetAccountBalance(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	require.NoError(t, s.SetAccountBalance(ctx, core.Bank, decimal.NewFromInt(700)))
	require.NoError(t, s.SetAccountBalance(ctx, core.Cash, decimal.NewFromInt(30)))
	assert.ErrorIs(t, s.SetAccountBalance(ctx, core.Credit, decimal.NewFromInt(1)), core.ErrInvalidAccount)

	doc := s.Document()
	assert.True(t, doc.Assets.Bank.Equal(decimal.NewFromInt(700)))
	assert.True(t, doc.Assets.Cash.Equal(decimal.NewFromInt(30)))
}

func TestRegisterCustomCategory(t *testing.T) {
	kv := memory.New()
	s := newTestStore(t, kv)
	ctx := context.Background()

	added, err := s.RegisterCustomCategory(ctx, core.Expense, "Pets")
	require.NoError(t, err)
	assert.True(t, added)
	writes := kv.Writes()

	added, err = s.RegisterCustomCategory(ctx, core.Expense, "Pets")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, writes, kv.Writes(), "a known name should not be persisted again")
	assert.Equal(t, []string{"Pets"}, s.Document().CustomCategories.Expense)
}

func TestSetCurrency(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	require.NoError(t, s.SetCurrency(ctx, " usd "))
	assert.Equal(t, "USD", s.Document().Settings.Currency)
	assert.ErrorIs(t, s.SetCurrency(ctx, ""), core.ErrValidation)
}

func TestResetAll(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	_, err := s.AddTransaction(ctx, input(core.Expense, core.Cash, 100, "food"))
	require.NoError(t, err)
	_, err = s.RegisterCustomCategory(ctx, core.Income, "Gift")
	require.NoError(t, err)

	require.NoError(t, s.ResetAll(ctx))
	doc := s.Document()
	assert.Empty(t, doc.Transactions)
	assert.Empty(t, doc.CustomCategories.Income)
	assert.Equal(t, core.DefaultCurrency, doc.Settings.Currency)
}

func TestStateSurvivesReopen(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	s := newTestStore(t, kv)
	require.NoError(t, s.SetInitialAssets(ctx, decimal.NewFromInt(1000), decimal.Zero, decimal.Zero))
	tx, err := s.AddTransaction(ctx, input(core.Expense, core.Bank, 40, "food"))
	require.NoError(t, err)

	reopened := newTestStore(t, kv)
	restored := reopened.Transactions()
	require.Len(t, restored, 1)
	assert.Equal(t, tx.ID, restored[0].ID)
	assert.True(t, restored[0].Amount.Equal(tx.Amount))
	assert.True(t, restored[0].Date.SameDay(tx.Date))
	assert.True(t, balance.All(reopened.Document()).Total.Equal(balance.All(s.Document()).Total))

	next, err := reopened.AddTransaction(ctx, input(core.Expense, core.Bank, 1, "food"))
	require.NoError(t, err)
	assert.Greater(t, next.ID, tx.ID, "ids must not collide with restored ones")
}

func TestRestoreMergesMissingKeysWithDefaults(t *testing.T) {
	raw := `{
		"assets": {"bank": 500, "cash": 20, "creditCards": null},
		"transactions": [
			{"id": 1, "type": "expense", "amount": 10, "category": "food", "date": "2024-03-01", "notes": "", "account": "cash"},
			{"id": 2, "type": "expense", "amount": -3, "category": "food", "date": "2024-03-01", "notes": "", "account": "cash"},
			{"id": 3, "type": "expense", "amount": 5, "category": "food", "date": "not a date", "notes": "", "account": "cash"}
		]
	}`
	kv := memory.NewWithSeed(map[string]string{DefaultStorageKey: raw})
	s := newTestStore(t, kv)

	doc := s.Document()
	assert.True(t, doc.Assets.Bank.Equal(decimal.NewFromInt(500)))
	assert.NotNil(t, doc.Assets.CreditCards)
	assert.Equal(t, core.DefaultCurrency, doc.Settings.Currency)
	assert.NotNil(t, doc.CustomCategories.Income)
	assert.NotNil(t, doc.CustomCategories.Expense)
	require.Len(t, doc.Transactions, 1, "invalid entries stay out of queries")
	assert.Equal(t, int64(1), doc.Transactions[0].ID)
}

func TestRestoreKeepsInvalidTransactionsOnWrite(t *testing.T) {
	raw := `{
		"assets": {"bank": 0, "cash": 0, "creditCards": []},
		"transactions": [
			{"id": 1, "type": "expense", "amount": 10, "category": "food", "date": "2024-03-01", "notes": "", "account": "cash"},
			{"id": 9000000000000, "type": "expense", "amount": 4, "category": "food", "date": "2024-03-02", "notes": "draft", "account": null}
		]
	}`
	kv := memory.NewWithSeed(map[string]string{DefaultStorageKey: raw})
	s := newTestStore(t, kv)
	ctx := context.Background()

	require.Len(t, s.Transactions(), 1)
	added, err := s.AddTransaction(ctx, input(core.Income, core.Bank, 50, "salary"))
	require.NoError(t, err)
	assert.Greater(t, added.ID, int64(9000000000000), "ids skip past kept entries")

	stored, ok, err := kv.Get(ctx, DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, ok)

	var doc struct {
		Transactions []map[string]any `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal([]byte(stored), &doc))
	require.Len(t, doc.Transactions, 3)
	kept := doc.Transactions[2]
	assert.Equal(t, "draft", kept["notes"])
	assert.Nil(t, kept["account"])

	// The kept entry survives a reopen too.
	again := newTestStore(t, kv)
	assert.Len(t, again.Transactions(), 2)

	require.NoError(t, again.ResetAll(ctx))
	stored, _, _ = kv.Get(ctx, DefaultStorageKey)
	require.NoError(t, json.Unmarshal([]byte(stored), &doc))
	assert.Empty(t, doc.Transactions)
}

func TestRestoreCorruptDocument(t *testing.T) {
	kv := memory.NewWithSeed(map[string]string{DefaultStorageKey: "{not json"})
	_, err := Open(context.Background(), kv, WithLogger(log.Discard()))
	assert.ErrorIs(t, err, core.ErrPersistence)
}

func TestPersistFailureKeepsChangeInMemory(t *testing.T) {
	kv := &flakyKV{Store: memory.New()}
	s := newTestStore(t, kv)
	ctx := context.Background()

	kv.broken = true
	tx, err := s.AddTransaction(ctx, input(core.Expense, core.Cash, 100, "food"))
	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.NotZero(t, tx.ID, "the added entry is still returned")
	assert.Len(t, s.Transactions(), 1)

	_, stored, _ := kv.Get(ctx, DefaultStorageKey)
	assert.False(t, stored)

	kv.broken = false
	require.NoError(t, s.Persist(ctx))
	raw, stored, _ := kv.Get(ctx, DefaultStorageKey)
	require.True(t, stored)

	var doc core.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Len(t, doc.Transactions, 1)
}

func TestWithKey(t *testing.T) {
	kv := memory.New()
	s, err := Open(context.Background(), kv, WithKey("other"), WithLogger(log.Discard()))
	require.NoError(t, err)
	require.NoError(t, s.SetCurrency(context.Background(), "eur"))

	_, ok, _ := kv.Get(context.Background(), "other")
	assert.True(t, ok)
	_, ok, _ = kv.Get(context.Background(), DefaultStorageKey)
	assert.False(t, ok)
}

func TestSequenceNeverRepeats(t *testing.T) {
	seq := NewSequence(ClockFunc(func() time.Time { return fixedNow }))
	a := seq.NextID()
	b := seq.NextID()
	assert.Equal(t, a+1, b)

	seq.Observe(b + 100)
	assert.Equal(t, b+101, seq.NextID())
}
