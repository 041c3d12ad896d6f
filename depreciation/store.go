/*
store.go - Persistence interface for categories, assets and entries

PURPOSE:
  Defines the boundary between the engine and the database. Categories
  and assets are mutable aggregates saved with full-replace semantics;
  depreciation entries are append-only and can only be removed whole.

APPEND-ONLY CONTRACT FOR ENTRIES:
  - AppendEntry(): the only write for entries
  - DeleteEntry(): hard removal, used as a reversal
  - NO UpdateEntry() exists

NOT FOUND:
  Get* methods return (nil, nil) when the row does not exist. The
  registry/ledger layers turn that into a NotFoundError.

ATOMICITY:
  WithTx runs fn against a transactional view. If fn returns an error
  nothing it wrote is kept. Check-then-write sequences (referential checks,
  entry + asset cache refresh) always run inside WithTx.

IMPLEMENTATIONS:
  - depreciation/store/memory.go: in-memory, for tests and demos
  - store/sqlite/sqlite.go:       SQLite

SEE ALSO:
  - ledger.go: DepreciationLedger over EntryStore
  - engine.go: uses WithTx for append + cache refresh
*/
package depreciation

import "context"

// CategoryStore persists categories.
type CategoryStore interface {
	SaveCategory(ctx context.Context, c Category) error
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// AssetStore persists assets.
type AssetStore interface {
	SaveAsset(ctx context.Context, a Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]Asset, error)
	DeleteAsset(ctx context.Context, id string) error

	// CountAssetsByCategory backs the category delete guard.
	CountAssetsByCategory(ctx context.Context, categoryID string) (int, error)
}

// EntryStore persists depreciation entries. Append-only.
type EntryStore interface {
	AppendEntry(ctx context.Context, e Entry) error
	GetEntry(ctx context.Context, id string) (*Entry, error)

	// ListEntries returns entries ordered by date ascending, then creation.
	// An empty assetID returns every entry.
	ListEntries(ctx context.Context, assetID string) ([]Entry, error)

	// LatestEntry returns the most recent entry for an asset, or nil.
	LatestEntry(ctx context.Context, assetID string) (*Entry, error)

	DeleteEntry(ctx context.Context, id string) error
	CountEntriesByAsset(ctx context.Context, assetID string) (int, error)
}

// RunStore persists batch close runs.
type RunStore interface {
	SaveRun(ctx context.Context, r CloseRun) error
	ListRuns(ctx context.Context) ([]CloseRun, error)
}

// Store is everything the engine needs from persistence.
type Store interface {
	CategoryStore
	AssetStore
	EntryStore
	RunStore

	// WithTx executes fn within a transaction.
	// If fn returns error, everything it wrote is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
