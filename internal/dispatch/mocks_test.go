package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/storage"
	"github.com/fjod/go_storefront/internal/view"
	"github.com/shopspring/decimal"
)

type mockCatalog struct {
	products map[int64]domain.Product
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{products: map[int64]domain.Product{
		1: {ID: 1, Title: "Mascara", Category: "beauty", Price: decimal.RequireFromString("9.99")},
		2: {ID: 2, Title: "Laptop", Category: "laptops", Price: decimal.RequireFromString("45.00")},
	}}
}

func (m *mockCatalog) ListCategories(context.Context) ([]string, error) {
	return []string{"beauty", "laptops"}, nil
}

func (m *mockCatalog) ListProducts(context.Context, string) ([]domain.Product, error) {
	return []domain.Product{m.products[1], m.products[2]}, nil
}

func (m *mockCatalog) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

type mockNotifier struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (m *mockNotifier) NotifyOrder(o domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type fixture struct {
	table    *Table
	engine   *cart.Engine
	flow     *checkout.Flow
	tracker  *view.Tracker
	notifier *mockNotifier
}

func newFixture() fixture {
	cat := newMockCatalog()
	engine := cart.NewEngine(storage.NewStore(storage.NewMemoryStore(), "dispatch", nil), cat, cart.DefaultShippingPolicy(), nil)
	n := &mockNotifier{}
	clock := func() time.Time { return time.UnixMilli(1_700_000_000_042) }
	flow := checkout.NewFlow(engine, n, checkout.NewOrderNumbers(clock), nil)
	tracker := view.NewTracker()
	renderer := view.NewRenderer(engine, flow, cat, tracker, nil)
	return fixture{
		table:    NewTable(engine, flow, renderer, nil),
		engine:   engine,
		flow:     flow,
		tracker:  tracker,
		notifier: n,
	}
}
