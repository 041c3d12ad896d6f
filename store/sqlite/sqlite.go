/*
Package sqlite provides a SQLite-backed implementation of depreciation.Store.

PURPOSE:
  Persists categories, assets, depreciation entries and close runs. The
  same schema ports to PostgreSQL with minor dialect changes.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on depreciation_entries
  - DELETE only by id (entry reversal)

KEY TABLES:
  categories:           Asset categories
  assets:               Fixed assets (FK -> categories)
  depreciation_entries: Depreciation history (FK -> assets)
  close_runs:           Batch close audit records

ENCODING:
  - decimals as TEXT via shopspring/decimal's sql.Scanner/driver.Valuer
  - calendar dates as TEXT YYYY-MM-DD, so string order is date order
  - timestamps as fixed-width UTC TEXT, same reason

CONCURRENCY:
  Uses sync.RWMutex around a single connection. WithTx holds the write
  lock for the whole transaction, so check-then-write sequences run alone.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./depreciacion.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := depreciation.New(store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - depreciation/store.go: Interface definitions
  - depreciation/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/asset-depreciation/depreciation"
)

// timestampLayout is fixed width so TEXT ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements depreciation.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
	q  queries
}

var _ depreciation.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: ":memory:" databases are per connection, and SQLite
	// has a single writer anyway.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, q: queries{db: db}}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection (health endpoint).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		default_useful_life INTEGER NOT NULL,
		annual_rate TEXT NOT NULL,
		accounting_code TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		type TEXT,
		brand TEXT,
		model TEXT,
		zone TEXT,
		cost TEXT NOT NULL,
		purchase_date TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES categories(id),
		useful_life_years INTEGER NOT NULL,
		status TEXT NOT NULL,
		residual_value TEXT NOT NULL,
		method TEXT NOT NULL,
		estimated_units TEXT,
		annual_depreciation TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_assets_category
		ON assets(category_id);

	-- Depreciation history (append-only)
	CREATE TABLE IF NOT EXISTS depreciation_entries (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL REFERENCES assets(id),
		entry_date TEXT NOT NULL,
		charge TEXT NOT NULL,
		book_value TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		applied_rate TEXT,
		notes TEXT,
		method TEXT NOT NULL,
		periods INTEGER NOT NULL,
		units_produced TEXT,
		created_at TEXT NOT NULL
	);

	-- Latest-entry lookup (hot path of every computation)
	CREATE INDEX IF NOT EXISTS idx_entries_asset_date
		ON depreciation_entries(asset_id, entry_date DESC, created_at DESC);

	CREATE TABLE IF NOT EXISTS close_runs (
		id TEXT PRIMARY KEY,
		run_date TEXT NOT NULL,
		processed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		total TEXT NOT NULL,
		details_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOCKED ENTRY POINTS (depreciation.Store interface)
// =============================================================================

func (s *Store) SaveCategory(ctx context.Context, c depreciation.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.SaveCategory(ctx, c)
}

func (s *Store) GetCategory(ctx context.Context, id string) (*depreciation.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.GetCategory(ctx, id)
}

func (s *Store) ListCategories(ctx context.Context) ([]depreciation.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.ListCategories(ctx)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.DeleteCategory(ctx, id)
}

func (s *Store) SaveAsset(ctx context.Context, a depreciation.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.SaveAsset(ctx, a)
}

func (s *Store) GetAsset(ctx context.Context, id string) (*depreciation.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.GetAsset(ctx, id)
}

func (s *Store) ListAssets(ctx context.Context) ([]depreciation.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.ListAssets(ctx)
}

func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.DeleteAsset(ctx, id)
}

func (s *Store) CountAssetsByCategory(ctx context.Context, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.CountAssetsByCategory(ctx, categoryID)
}

func (s *Store) AppendEntry(ctx context.Context, e depreciation.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.AppendEntry(ctx, e)
}

func (s *Store) GetEntry(ctx context.Context, id string) (*depreciation.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.GetEntry(ctx, id)
}

func (s *Store) ListEntries(ctx context.Context, assetID string) ([]depreciation.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.ListEntries(ctx, assetID)
}

func (s *Store) LatestEntry(ctx context.Context, assetID string) (*depreciation.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.LatestEntry(ctx, assetID)
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.DeleteEntry(ctx, id)
}

func (s *Store) CountEntriesByAsset(ctx context.Context, assetID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.CountEntriesByAsset(ctx, assetID)
}

func (s *Store) SaveRun(ctx context.Context, r depreciation.CloseRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.SaveRun(ctx, r)
}

func (s *Store) ListRuns(ctx context.Context) ([]depreciation.CloseRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.ListRuns(ctx)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store depreciation.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{queries{db: sqlTx}}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type txStore struct {
	queries
}

// WithTx joins the surrounding transaction.
func (ts *txStore) WithTx(ctx context.Context, fn func(store depreciation.Store) error) error {
	return fn(ts)
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for demo catalogs).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Children first, for the foreign keys.
	tables := []string{"depreciation_entries", "close_runs", "assets", "categories"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// QUERIES - Unlocked SQL against a *sql.DB or *sql.Tx
// =============================================================================

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

type scanner interface {
	Scan(dest ...any) error
}

// Categories

const categoryColumns = `id, name, description, status, default_useful_life, annual_rate,
	accounting_code, created_at, updated_at`

func (q queries) SaveCategory(ctx context.Context, c depreciation.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			status = excluded.status,
			default_useful_life = excluded.default_useful_life,
			annual_rate = excluded.annual_rate,
			accounting_code = excluded.accounting_code,
			updated_at = excluded.updated_at
	`
	_, err := q.db.ExecContext(ctx, query,
		c.ID, c.Name, nullString(c.Description), c.Status, c.DefaultUsefulLife, c.AnnualRate,
		nullString(c.AccountingCode), formatTimestamp(c.CreatedAt), formatTimestampPtr(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (q queries) GetCategory(ctx context.Context, id string) (*depreciation.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (q queries) ListCategories(ctx context.Context) ([]depreciation.Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []depreciation.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (q queries) DeleteCategory(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func scanCategory(row scanner) (depreciation.Category, error) {
	var (
		c                 depreciation.Category
		description, code sql.NullString
		createdAt         string
		updatedAt         sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.Name, &description, &c.Status, &c.DefaultUsefulLife, &c.AnnualRate,
		&code, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("failed to scan category: %w", err)
	}
	c.Description = description.String
	c.AccountingCode = code.String
	c.CreatedAt = parseTimestamp(createdAt)
	c.UpdatedAt = parseTimestampPtr(updatedAt)
	return c, nil
}

// Assets

const assetColumns = `id, description, type, brand, model, zone, cost, purchase_date,
	category_id, useful_life_years, status, residual_value, method, estimated_units,
	annual_depreciation, created_at, updated_at`

func (q queries) SaveAsset(ctx context.Context, a depreciation.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			type = excluded.type,
			brand = excluded.brand,
			model = excluded.model,
			zone = excluded.zone,
			cost = excluded.cost,
			purchase_date = excluded.purchase_date,
			category_id = excluded.category_id,
			useful_life_years = excluded.useful_life_years,
			status = excluded.status,
			residual_value = excluded.residual_value,
			method = excluded.method,
			estimated_units = excluded.estimated_units,
			annual_depreciation = excluded.annual_depreciation,
			updated_at = excluded.updated_at
	`
	_, err := q.db.ExecContext(ctx, query,
		a.ID, a.Description, a.Type, a.Brand, a.Model, a.Zone, a.Cost, a.PurchaseDate.String(),
		a.CategoryID, a.UsefulLifeYears, a.Status, a.ResidualValue, a.Method,
		nullDecimal(a.EstimatedUnits), nullDecimal(a.AnnualDepreciation),
		formatTimestamp(a.CreatedAt), formatTimestampPtr(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

func (q queries) GetAsset(ctx context.Context, id string) (*depreciation.Asset, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (q queries) ListAssets(ctx context.Context) ([]depreciation.Asset, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := []depreciation.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (q queries) DeleteAsset(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

func (q queries) CountAssetsByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets WHERE category_id = ?`, categoryID).Scan(&n)
	return n, err
}

func scanAsset(row scanner) (depreciation.Asset, error) {
	var (
		a                          depreciation.Asset
		typ, brand, model, zone    sql.NullString
		purchaseDate, createdAt    string
		updatedAt                  sql.NullString
		estimatedUnits, annualDepr decimal.NullDecimal
	)
	err := row.Scan(
		&a.ID, &a.Description, &typ, &brand, &model, &zone, &a.Cost, &purchaseDate,
		&a.CategoryID, &a.UsefulLifeYears, &a.Status, &a.ResidualValue, &a.Method,
		&estimatedUnits, &annualDepr, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("failed to scan asset: %w", err)
	}
	a.Type, a.Brand, a.Model, a.Zone = typ.String, brand.String, model.String, zone.String
	if a.PurchaseDate, err = depreciation.ParseDate(purchaseDate); err != nil {
		return a, fmt.Errorf("asset %s: %w", a.ID, err)
	}
	a.EstimatedUnits = decimalPtr(estimatedUnits)
	a.AnnualDepreciation = decimalPtr(annualDepr)
	a.CreatedAt = parseTimestamp(createdAt)
	a.UpdatedAt = parseTimestampPtr(updatedAt)
	return a, nil
}

// Entries

const entryColumns = `id, asset_id, entry_date, charge, book_value, year, month,
	applied_rate, notes, method, periods, units_produced, created_at`

func (q queries) AppendEntry(ctx context.Context, e depreciation.Entry) error {
	query := `
		INSERT INTO depreciation_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.db.ExecContext(ctx, query,
		e.ID, e.AssetID, e.Date.String(), e.Charge, e.BookValue, e.Year, e.Month,
		nullDecimal(e.AppliedRate), nullString(e.Notes), e.Method, e.Periods,
		nullDecimal(e.UnitsProduced), formatTimestamp(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

func (q queries) GetEntry(ctx context.Context, id string) (*depreciation.Entry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM depreciation_entries WHERE id = ?`, id)
	return scanOptionalEntry(row)
}

func (q queries) ListEntries(ctx context.Context, assetID string) ([]depreciation.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM depreciation_entries`
	var args []any
	if assetID != "" {
		query += ` WHERE asset_id = ?`
		args = append(args, assetID)
	}
	query += ` ORDER BY entry_date ASC, created_at ASC, id ASC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []depreciation.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (q queries) LatestEntry(ctx context.Context, assetID string) (*depreciation.Entry, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM depreciation_entries
		WHERE asset_id = ?
		ORDER BY entry_date DESC, created_at DESC, id DESC
		LIMIT 1
	`, assetID)
	return scanOptionalEntry(row)
}

func (q queries) DeleteEntry(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM depreciation_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (q queries) CountEntriesByAsset(ctx context.Context, assetID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM depreciation_entries WHERE asset_id = ?`, assetID).Scan(&n)
	return n, err
}

func scanOptionalEntry(row scanner) (*depreciation.Entry, error) {
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEntry(row scanner) (depreciation.Entry, error) {
	var (
		e                  depreciation.Entry
		entryDate          string
		createdAt          string
		notes              sql.NullString
		appliedRate, units decimal.NullDecimal
	)
	err := row.Scan(
		&e.ID, &e.AssetID, &entryDate, &e.Charge, &e.BookValue, &e.Year, &e.Month,
		&appliedRate, &notes, &e.Method, &e.Periods, &units, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}
	if e.Date, err = depreciation.ParseDate(entryDate); err != nil {
		return e, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.AppliedRate = decimalPtr(appliedRate)
	e.UnitsProduced = decimalPtr(units)
	e.Notes = notes.String
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}

// Close runs

func (q queries) SaveRun(ctx context.Context, r depreciation.CloseRun) error {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return fmt.Errorf("failed to encode run details: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO close_runs (id, run_date, processed, skipped, failed, total, details_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Date.String(), r.Processed, r.Skipped, r.Failed, r.Total, string(details), formatTimestamp(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save close run: %w", err)
	}
	return nil
}

func (q queries) ListRuns(ctx context.Context) ([]depreciation.CloseRun, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, run_date, processed, skipped, failed, total, details_json, created_at
		FROM close_runs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query close runs: %w", err)
	}
	defer rows.Close()

	runs := []depreciation.CloseRun{}
	for rows.Next() {
		var (
			r                  depreciation.CloseRun
			runDate, createdAt string
			details            string
		)
		if err := rows.Scan(&r.ID, &runDate, &r.Processed, &r.Skipped, &r.Failed, &r.Total, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan close run: %w", err)
		}
		if r.Date, err = depreciation.ParseDate(runDate); err != nil {
			return nil, fmt.Errorf("close run %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(details), &r.Details); err != nil {
			return nil, fmt.Errorf("close run %s: failed to decode details: %w", r.ID, err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Helper functions

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimestampPtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(timestampLayout, s)
	return t
}

func parseTimestampPtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTimestamp(s.String)
	return &t
}
