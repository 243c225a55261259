package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"budget/internal/core"
	"budget/internal/log"
)

// DefaultStorageKey is the key the whole document is stored under.
const DefaultStorageKey = "budgetAppData"

// KV is the key-value persistence provider the store writes through.
// Get reports ok=false when nothing is stored under key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Persist writes the whole document to the provider.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := s.encodeLocked()
	if err != nil {
		return core.Persistence("encode document", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		perr := core.Persistence("persist document", err)
		s.logger.LogError(ctx, "Failed to persist document", perr, log.OpPersist,
			log.NewFields().With(log.FieldStorageKey, s.key))
		return perr
	}
	return nil
}

// encodeLocked marshals the document. Stored entries that did not validate
// on restore are written back after the live transactions.
func (s *Store) encodeLocked() ([]byte, error) {
	if len(s.invalid) == 0 {
		return json.Marshal(s.doc)
	}
	items := make([]json.RawMessage, 0, len(s.doc.Transactions)+len(s.invalid))
	for _, t := range s.doc.Transactions {
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	items = append(items, s.invalid...)
	return json.Marshal(struct {
		core.Document
		Transactions []json.RawMessage `json:"transactions"`
	}{s.doc, items})
}

// Restore replaces the in-memory document with the stored one. A missing
// document leaves the defaults in place. Stored top-level keys are merged
// onto the defaults one by one, so documents written before a field existed
// still load. Stored transactions that do not validate are kept aside:
// they are hidden from every query but written back on each persist.
func (s *Store) Restore(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return core.Persistence("load document", err)
	}

	doc := s.defaults()
	var invalid []json.RawMessage
	if ok && raw != "" {
		doc, invalid, err = decode(raw, doc)
		if err != nil {
			return core.Persistence("decode document", err)
		}
		if len(invalid) > 0 {
			s.logger.Warn("Stored document holds invalid transactions, keeping them aside",
				log.FieldCount, len(invalid), log.FieldStorageKey, s.key)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.invalid = invalid
	for _, t := range doc.Transactions {
		s.ids.Observe(t.ID)
	}
	for _, item := range invalid {
		var ref struct {
			ID int64 `json:"id"`
		}
		if json.Unmarshal(item, &ref) == nil {
			s.ids.Observe(ref.ID)
		}
	}
	s.revision++
	s.logger.Info("Document restored",
		log.FieldStorageKey, s.key,
		log.FieldCount, len(doc.Transactions),
		"found", ok)
	return nil
}

// decode shallow-merges the stored top-level keys onto doc. Transactions that
// do not validate are returned raw instead of failing the load.
func decode(raw string, doc core.Document) (core.Document, []json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return doc, nil, fmt.Errorf("parse document: %w", err)
	}

	targets := map[string]any{
		"assets":           &doc.Assets,
		"settings":         &doc.Settings,
		"customCategories": &doc.CustomCategories,
	}
	for key, target := range targets {
		if msg, ok := top[key]; ok {
			if err := json.Unmarshal(msg, target); err != nil {
				return doc, nil, fmt.Errorf("parse %s: %w", key, err)
			}
		}
	}

	var invalid []json.RawMessage
	if msg, ok := top["transactions"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil {
			return doc, nil, fmt.Errorf("parse transactions: %w", err)
		}
		doc.Transactions = make([]core.Transaction, 0, len(items))
		for _, item := range items {
			var t core.Transaction
			if err := json.Unmarshal(item, &t); err != nil || t.Input().Validate() != nil {
				invalid = append(invalid, item)
				continue
			}
			doc.Transactions = append(doc.Transactions, t)
		}
	}

	normalize(&doc)
	return doc, invalid, nil
}

// normalize replaces nil slices left by explicit nulls with empty ones.
func normalize(doc *core.Document) {
	if doc.Assets.CreditCards == nil {
		doc.Assets.CreditCards = []core.CreditCard{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []core.Transaction{}
	}
	if doc.CustomCategories.Income == nil {
		doc.CustomCategories.Income = []string{}
	}
	if doc.CustomCategories.Expense == nil {
		doc.CustomCategories.Expense = []string{}
	}
	if doc.Settings.Currency == "" {
		doc.Settings.Currency = core.DefaultCurrency
	}
}
