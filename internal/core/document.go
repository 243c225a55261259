package core

import "github.com/shopspring/decimal"

func init() {
	// Amounts are stored as JSON numbers, matching documents written by
	// earlier versions of the app.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is the currency a fresh document starts with.
const DefaultCurrency = "TWD"

// Document is the aggregate root persisted as one JSON blob.
// Transactions are kept in insertion order, newest usually first.
type Document struct {
	Assets           Assets           `json:"assets"`
	Transactions     []Transaction    `json:"transactions"`
	Settings         Settings         `json:"settings"`
	CustomCategories CustomCategories `json:"customCategories"`
}

// NewDocument returns the zero-valued document used on first run and reset.
func NewDocument() Document {
	return Document{
		Assets:           Assets{CreditCards: []CreditCard{}},
		Transactions:     []Transaction{},
		Settings:         Settings{Currency: DefaultCurrency},
		CustomCategories: CustomCategories{Income: []string{}, Expense: []string{}},
	}
}

// Clone returns a deep copy so callers cannot mutate the store's state.
func (d Document) Clone() Document {
	out := d
	out.Assets.CreditCards = append([]CreditCard{}, d.Assets.CreditCards...)
	out.Transactions = append([]Transaction{}, d.Transactions...)
	out.CustomCategories = CustomCategories{
		Income:  append([]string{}, d.CustomCategories.Income...),
		Expense: append([]string{}, d.CustomCategories.Expense...),
	}
	return out
}

// Find returns the position of the transaction with the given id, or -1.
func (d Document) Find(id int64) int {
	for i, t := range d.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}
