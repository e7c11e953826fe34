package http

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/dispatch"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/storage"
	"github.com/fjod/go_storefront/internal/view"
	"github.com/shopspring/decimal"
)

type CatalogMock struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	err      error
}

func newCatalogMock() *CatalogMock {
	return &CatalogMock{products: map[int64]domain.Product{
		1: {ID: 1, Title: "Mascara", Category: "beauty", Price: decimal.RequireFromString("9.99")},
		2: {ID: 2, Title: "Laptop", Category: "laptops", Price: decimal.RequireFromString("45.00")},
	}}
}

func (c *CatalogMock) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *CatalogMock) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *CatalogMock) ListCategories(context.Context) ([]string, error) {
	if err := c.failure(); err != nil {
		return nil, err
	}
	return []string{"beauty", "laptops"}, nil
}

func (c *CatalogMock) ListProducts(_ context.Context, category string) ([]domain.Product, error) {
	if err := c.failure(); err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, id := range []int64{1, 2} {
		if p := c.products[id]; category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *CatalogMock) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	if err := c.failure(); err != nil {
		return domain.Product{}, err
	}
	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

type NotifierMock struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (n *NotifierMock) NotifyOrder(o domain.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o)
}

type testServer struct {
	handler *Handler
	engine  *cart.Engine
	flow    *checkout.Flow
	catalog *CatalogMock
	toasts  *view.ToastFeed
	tracker *view.Tracker
}

func newTestServer() testServer {
	cat := newCatalogMock()
	engine := cart.NewEngine(storage.NewStore(storage.NewMemoryStore(), "http", nil), cat, cart.DefaultShippingPolicy(), nil)
	flow := checkout.NewFlow(engine, &NotifierMock{}, checkout.NewOrderNumbers(nil), nil)
	tracker := view.NewTracker()
	renderer := view.NewRenderer(engine, flow, cat, tracker, nil)
	toasts := view.NewToastFeed(0)

	h := NewHandler(Options{
		Renderer:      renderer,
		Dispatcher:    dispatch.NewTable(engine, flow, renderer, nil),
		Counters:      engine,
		Notifications: toasts,
		Checkout:      flow,
	})
	return testServer{
		handler: h,
		engine:  engine,
		flow:    flow,
		catalog: cat,
		toasts:  toasts,
		tracker: tracker,
	}
}
