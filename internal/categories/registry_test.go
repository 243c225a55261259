package categories

import (
	"errors"
	"testing"

	"budget/internal/core"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		typ   core.TxType
		key   string
		label string
		icon  string
	}{
		{core.Expense, "food", "餐飲", "🍽️"},
		{core.Income, "salary", "薪資", "💰"},
		{core.Expense, Allowance, "零用錢", "💵"},
		{core.Expense, Payment, "已繳清", "💳"},
		{core.Expense, CreditPayment, "信用卡繳款", "💳"},
		{core.Expense, "pets", "pets", DefaultIcon},
		{core.Income, "food", "餐飲", "🍽️"},
	}
	for _, tc := range cases {
		got := Resolve(tc.typ, tc.key)
		if got.Label != tc.label || got.Icon != tc.icon || got.Key != tc.key {
			t.Fatalf("Resolve(%s, %q) = %+v, want label %q icon %q", tc.typ, tc.key, got, tc.label, tc.icon)
		}
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	var cc core.CustomCategories
	if !Register(&cc, core.Expense, "pets") {
		t.Fatalf("first registration should add")
	}
	if Register(&cc, core.Expense, " pets ") {
		t.Fatalf("second registration should be a no-op")
	}
	if !Register(&cc, core.Income, "pets") {
		t.Fatalf("types are tracked separately")
	}
	if len(cc.Expense) != 1 || len(cc.Income) != 1 {
		t.Fatalf("unexpected categories: %+v", cc)
	}
}

func TestRegisterRejectsReservedAndBase(t *testing.T) {
	var cc core.CustomCategories
	for _, name := range []string{"", "  ", Custom, Payment, CreditPayment, "food", Allowance} {
		if Register(&cc, core.Expense, name) {
			t.Fatalf("%q should not be registered", name)
		}
	}
	if len(cc.Expense) != 0 {
		t.Fatalf("unexpected categories: %v", cc.Expense)
	}
}

func TestChoose(t *testing.T) {
	if got, err := Choose("food", "ignored"); err != nil || got != "food" {
		t.Fatalf("unexpected: %q %v", got, err)
	}
	if got, err := Choose(Custom, " pets "); err != nil || got != "pets" {
		t.Fatalf("unexpected: %q %v", got, err)
	}
	if _, err := Choose(Custom, " "); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	cc := core.CustomCategories{Expense: []string{"pets"}}
	opts := Options(core.Expense, cc)
	if len(opts) != len(Base(core.Expense))+1 {
		t.Fatalf("unexpected option count %d", len(opts))
	}
	if last := opts[len(opts)-1]; last.Key != "pets" {
		t.Fatalf("custom categories should follow base ones, got %+v", last)
	}
	if len(Options(core.Income, cc)) != len(Base(core.Income)) {
		t.Fatalf("expense customs leaked into income options")
	}
}
