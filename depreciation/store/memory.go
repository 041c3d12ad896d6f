// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/asset-depreciation/depreciation"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex
	state
}

type state struct {
	categories map[string]depreciation.Category
	assets     map[string]depreciation.Asset
	entries    map[string]depreciation.Entry
	runs       []depreciation.CloseRun
}

func newState() state {
	return state{
		categories: make(map[string]depreciation.Category),
		assets:     make(map[string]depreciation.Asset),
		entries:    make(map[string]depreciation.Entry),
	}
}

func NewMemory() *Memory {
	return &Memory{state: newState()}
}

var _ depreciation.Store = (*Memory)(nil)

// Categories

func (m *Memory) SaveCategory(ctx context.Context, c depreciation.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SaveCategory(ctx, c)
}

func (m *Memory) GetCategory(ctx context.Context, id string) (*depreciation.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.GetCategory(ctx, id)
}

func (m *Memory) ListCategories(ctx context.Context) ([]depreciation.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ListCategories(ctx)
}

func (m *Memory) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeleteCategory(ctx, id)
}

// Assets

func (m *Memory) SaveAsset(ctx context.Context, a depreciation.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SaveAsset(ctx, a)
}

func (m *Memory) GetAsset(ctx context.Context, id string) (*depreciation.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.GetAsset(ctx, id)
}

func (m *Memory) ListAssets(ctx context.Context) ([]depreciation.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ListAssets(ctx)
}

func (m *Memory) DeleteAsset(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeleteAsset(ctx, id)
}

func (m *Memory) CountAssetsByCategory(ctx context.Context, categoryID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.CountAssetsByCategory(ctx, categoryID)
}

// Entries

func (m *Memory) AppendEntry(ctx context.Context, e depreciation.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.AppendEntry(ctx, e)
}

func (m *Memory) GetEntry(ctx context.Context, id string) (*depreciation.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.GetEntry(ctx, id)
}

func (m *Memory) ListEntries(ctx context.Context, assetID string) ([]depreciation.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ListEntries(ctx, assetID)
}

func (m *Memory) LatestEntry(ctx context.Context, assetID string) (*depreciation.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LatestEntry(ctx, assetID)
}

func (m *Memory) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeleteEntry(ctx, id)
}

func (m *Memory) CountEntriesByAsset(ctx context.Context, assetID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.CountEntriesByAsset(ctx, assetID)
}

// Runs

func (m *Memory) SaveRun(ctx context.Context, r depreciation.CloseRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SaveRun(ctx, r)
}

func (m *Memory) ListRuns(ctx context.Context) ([]depreciation.CloseRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ListRuns(ctx)
}

// Reset drops everything. Used when loading a demo catalog.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = newState()
	return nil
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(depreciation.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(&txView{state: &m.state}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// =============================================================================
// TRANSACTIONAL VIEW - Runs against state while WithTx holds the lock
// =============================================================================

type txView struct {
	*state
}

func (tv *txView) WithTx(ctx context.Context, fn func(depreciation.Store) error) error {
	// Already inside a transaction; nested calls join it.
	return fn(tv)
}

// =============================================================================
// STATE - Unlocked operations shared by Memory and txView
// =============================================================================

func (s *state) clone() state {
	c := newState()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.assets {
		c.assets[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	c.runs = append(c.runs, s.runs...)
	return c
}

func (s *state) SaveCategory(_ context.Context, c depreciation.Category) error {
	s.categories[c.ID] = c
	return nil
}

func (s *state) GetCategory(_ context.Context, id string) (*depreciation.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *state) ListCategories(_ context.Context) ([]depreciation.Category, error) {
	result := make([]depreciation.Category, 0, len(s.categories))
	for _, c := range s.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *state) DeleteCategory(_ context.Context, id string) error {
	delete(s.categories, id)
	return nil
}

func (s *state) SaveAsset(_ context.Context, a depreciation.Asset) error {
	s.assets[a.ID] = a
	return nil
}

func (s *state) GetAsset(_ context.Context, id string) (*depreciation.Asset, error) {
	a, ok := s.assets[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *state) ListAssets(_ context.Context) ([]depreciation.Asset, error) {
	result := make([]depreciation.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *state) DeleteAsset(_ context.Context, id string) error {
	delete(s.assets, id)
	return nil
}

func (s *state) CountAssetsByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	for _, a := range s.assets {
		if a.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *state) AppendEntry(_ context.Context, e depreciation.Entry) error {
	s.entries[e.ID] = e
	return nil
}

func (s *state) GetEntry(_ context.Context, id string) (*depreciation.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *state) ListEntries(_ context.Context, assetID string) ([]depreciation.Entry, error) {
	result := make([]depreciation.Entry, 0)
	for _, e := range s.entries {
		if assetID == "" || e.AssetID == assetID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return entryBefore(result[i], result[j])
	})
	return result, nil
}

func (s *state) LatestEntry(_ context.Context, assetID string) (*depreciation.Entry, error) {
	var latest *depreciation.Entry
	for _, e := range s.entries {
		if e.AssetID != assetID {
			continue
		}
		if latest == nil || entryBefore(*latest, e) {
			e := e
			latest = &e
		}
	}
	return latest, nil
}

func (s *state) DeleteEntry(_ context.Context, id string) error {
	delete(s.entries, id)
	return nil
}

func (s *state) CountEntriesByAsset(_ context.Context, assetID string) (int, error) {
	n := 0
	for _, e := range s.entries {
		if e.AssetID == assetID {
			n++
		}
	}
	return n, nil
}

func (s *state) SaveRun(_ context.Context, r depreciation.CloseRun) error {
	s.runs = append(s.runs, r)
	return nil
}

func (s *state) ListRuns(_ context.Context) ([]depreciation.CloseRun, error) {
	result := make([]depreciation.CloseRun, len(s.runs))
	copy(result, s.runs)
	return result, nil
}

// entryBefore orders by fecha, then fechaRegistro, then id.
func entryBefore(a, b depreciation.Entry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
