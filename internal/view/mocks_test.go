package view

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/storage"
	"github.com/shopspring/decimal"
)

// gateCatalog blocks GetProduct until release is closed, when set.
type gateCatalog struct {
	mu         sync.Mutex
	products   map[int64]domain.Product
	categories []string
	err        error
	started    chan struct{}
	release    chan struct{}
}

func newGateCatalog() *gateCatalog {
	return &gateCatalog{
		products: map[int64]domain.Product{
			1: {ID: 1, Title: "Phone", Category: "smartphones", Price: decimal.RequireFromString("30.00"), DiscountPercentage: decimal.NewFromInt(25), ThumbnailURL: "p.png"},
			2: {ID: 2, Title: "Lamp", Category: "home-decoration", Price: decimal.RequireFromString("25.50")},
		},
		categories: []string{"smartphones", "home-decoration", "groceries"},
	}
}

func (g *gateCatalog) gate() {
	g.mu.Lock()
	started, release := g.started, g.release
	g.mu.Unlock()
	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if release != nil {
		<-release
	}
}

func (g *gateCatalog) ListCategories(context.Context) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.categories, nil
}

func (g *gateCatalog) ListProducts(_ context.Context, category string) ([]domain.Product, error) {
	if g.err != nil {
		return nil, g.err
	}
	var out []domain.Product
	for _, id := range []int64{1, 2} {
		if p := g.products[id]; category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *gateCatalog) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	g.gate()
	if g.err != nil {
		return domain.Product{}, g.err
	}
	p, ok := g.products[id]
	if !ok {
		return domain.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

type fixedCheckout struct {
	view checkout.View
}

func (f fixedCheckout) View() checkout.View { return f.view }

func newTestRenderer() (*Renderer, *cart.Engine, *gateCatalog) {
	cat := newGateCatalog()
	engine := cart.NewEngine(storage.NewStore(storage.NewMemoryStore(), "view", nil), cat, cart.DefaultShippingPolicy(), nil)
	r := NewRenderer(engine, fixedCheckout{view: checkout.View{State: domain.CheckoutStateIdle}}, cat, NewTracker(), nil)
	return r, engine, cat
}
