package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/storage"
	"github.com/shopspring/decimal"
)

type mockCatalog struct {
	mu     sync.RWMutex
	prices map[int64]string
	err    error
}

func newMockCatalog(prices map[int64]string) *mockCatalog {
	return &mockCatalog{prices: prices}
}

func (m *mockCatalog) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockCatalog) ListCategories(context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockCatalog) ListProducts(context.Context, string) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return domain.Product{}, m.err
	}
	price, ok := m.prices[id]
	if !ok {
		return domain.Product{}, catalog.ErrProductNotFound
	}
	return domain.Product{
		ID:           id,
		Title:        "product",
		Price:        decimal.RequireFromString(price),
		ThumbnailURL: "thumb.png",
	}, nil
}

var errWriteFailed = errors.New("write failed")

// failingStore fails every write once armed.
type failingStore struct {
	*storage.Store
	mu   sync.Mutex
	fail bool
}

func (f *failingStore) arm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = true
}

func (f *failingStore) WriteCart(ctx context.Context, c domain.Cart) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errWriteFailed
	}
	return f.Store.WriteCart(ctx, c)
}

func (f *failingStore) ClearCart(ctx context.Context) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errWriteFailed
	}
	return f.Store.ClearCart(ctx)
}

func newTestEngine(prices map[int64]string) (*Engine, *mockCatalog, *storage.MemoryStore) {
	kv := storage.NewMemoryStore()
	cat := newMockCatalog(prices)
	e := NewEngine(storage.NewStore(kv, "test", nil), cat, DefaultShippingPolicy(), nil)
	return e, cat, kv
}
