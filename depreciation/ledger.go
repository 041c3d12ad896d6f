/*
ledger.go - Append-only depreciation history

PURPOSE:
  The Ledger is the history of every depreciation charge. The book value
  of an asset is read from its latest entry; there is no separate balance
  field that can drift.

INVARIANTS:
  1. APPEND-ONLY: entries are never edited
  2. REVERSAL = DELETE: a wrong entry is removed whole
  3. NO RECOMPUTATION: removing an entry does not touch later entries;
     the next computation continues from whatever entry is now latest

SEE ALSO:
  - store.go:  EntryStore
  - engine.go: the only caller of AppendEntry
*/
package depreciation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Ledger struct {
	Store EntryStore
	Clock func() time.Time
}

// AppendEntry assigns id and fechaRegistro, then stores the entry.
func (l *Ledger) AppendEntry(ctx context.Context, e *Entry) error {
	e.ID = uuid.NewString()
	e.CreatedAt = now(l.Clock)
	return l.Store.AppendEntry(ctx, *e)
}

// ListEntries returns entries sorted by fecha, newest first unless
// OrderAsc is requested.
func (l *Ledger) ListEntries(ctx context.Context, f EntryFilter) ([]Entry, error) {
	if f.Order != "" && f.Order != OrderAsc && f.Order != OrderDesc {
		return nil, fieldError("orden", "must be one of asc, desc")
	}
	entries, err := l.Store.ListEntries(ctx, f.AssetID)
	if err != nil {
		return nil, err
	}
	// Store order is ascending by (fecha, fechaRegistro).
	if f.Order != OrderAsc {
		sort.SliceStable(entries, func(i, j int) bool {
			return entryAfter(entries[i], entries[j])
		})
	}
	return entries, nil
}

func (l *Ledger) GetEntry(ctx context.Context, id string) (*Entry, error) {
	e, err := l.Store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &NotFoundError{Kind: "entry", ID: id}
	}
	return e, nil
}

// DeleteEntry removes an entry. Later entries are left as they are.
func (l *Ledger) DeleteEntry(ctx context.Context, id string) error {
	e, err := l.Store.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return &NotFoundError{Kind: "entry", ID: id}
	}
	return l.Store.DeleteEntry(ctx, id)
}

func entryAfter(a, b Entry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
