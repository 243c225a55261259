// Package categories maps category keys to display metadata and tracks the
// user's custom categories per transaction type.
package categories

import (
	"slices"
	"strings"

	"budget/internal/core"
)

// Reserved keys. They drive composite workflows and the category picker and
// are never stored as custom category names.
const (
	Custom        = "custom"
	Allowance     = "allowance"
	Payment       = "payment"
	CreditPayment = "credit_payment"
)

// DefaultIcon is shown for custom categories and unknown keys.
const DefaultIcon = "📦"

// Info describes how a category is displayed.
type Info struct {
	Key   string
	Label string
	Icon  string
}

var base = map[core.TxType][]Info{
	core.Income: {
		{Key: "salary", Label: "薪資", Icon: "💰"},
		{Key: Allowance, Label: "零用錢", Icon: "💵"},
		{Key: "interest", Label: "利息", Icon: "💹"},
		{Key: "dividend", Label: "配息", Icon: "📈"},
		{Key: Custom, Label: "自訂", Icon: "✏️"},
	},
	core.Expense: {
		{Key: "food", Label: "餐飲", Icon: "🍽️"},
		{Key: "clothing", Label: "服飾", Icon: "👕"},
		{Key: "housing", Label: "居住", Icon: "🏠"},
		{Key: "transport", Label: "交通", Icon: "🚗"},
		{Key: "daily", Label: "日常", Icon: "📅"},
		{Key: "entertainment", Label: "娛樂", Icon: "🎬"},
		{Key: Payment, Label: "已繳清", Icon: "💳"},
		{Key: Custom, Label: "自訂", Icon: "✏️"},
	},
}

// system keys are written by composite workflows but never offered in the picker.
var system = map[string]Info{
	CreditPayment: {Key: CreditPayment, Label: "信用卡繳款", Icon: "💳"},
}

// Base returns the fixed category table for t.
func Base(t core.TxType) []Info {
	return slices.Clone(base[t])
}

// Resolve looks key up in the base table for t, then in the table of the
// other type (allowance legs post as bank expenses), then among system keys.
// Anything else is a literal custom name.
func Resolve(t core.TxType, key string) Info {
	if info, ok := lookup(t, key); ok {
		return info
	}
	other := core.Income
	if t == core.Income {
		other = core.Expense
	}
	if info, ok := lookup(other, key); ok && key != Custom {
		return info
	}
	if info, ok := system[key]; ok {
		return info
	}
	return Info{Key: key, Label: key, Icon: DefaultIcon}
}

func lookup(t core.TxType, key string) (Info, bool) {
	for _, info := range base[t] {
		if info.Key == key {
			return info, true
		}
	}
	return Info{}, false
}

// IsReserved reports whether key is a sentinel with special handling.
func IsReserved(key string) bool {
	switch key {
	case Custom, Payment, CreditPayment:
		return true
	default:
		return false
	}
}

// IsBase reports whether key is one of the fixed categories of any type.
func IsBase(key string) bool {
	_, inc := lookup(core.Income, key)
	_, exp := lookup(core.Expense, key)
	return inc || exp
}

// Register adds name to the custom categories of t unless it is already
// present, blank, reserved or a base key. It returns whether name was added.
func Register(cc *core.CustomCategories, t core.TxType, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || IsReserved(name) || IsBase(name) {
		return false
	}
	list := &cc.Expense
	if t == core.Income {
		list = &cc.Income
	}
	if slices.Contains(*list, name) {
		return false
	}
	*list = append(*list, name)
	return true
}

// Choose turns a picker selection into the category key to store. Picking
// Custom requires a non-blank customName, which becomes the category.
func Choose(selected, customName string) (string, error) {
	if selected != Custom {
		return selected, nil
	}
	name := strings.TrimSpace(customName)
	if name == "" {
		return "", core.ErrEmptyCategory
	}
	return name, nil
}

// Options returns the picker content for t: base categories followed by the
// custom categories registered so far.
func Options(t core.TxType, cc core.CustomCategories) []Info {
	out := Base(t)
	for _, name := range cc.For(t) {
		out = append(out, Info{Key: name, Label: name, Icon: "✏️"})
	}
	return out
}
