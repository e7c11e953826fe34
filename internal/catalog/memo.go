package catalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Memo caches products by id for the lifetime of the process. There is no
// eviction. Concurrent lookups of the same id share one upstream call.
type Memo struct {
	next ProductCatalog

	mu       sync.RWMutex
	products map[int64]domain.Product
	sfg      singleflight.Group
}

func NewMemo(next ProductCatalog) *Memo {
	return &Memo{
		next:     next,
		products: make(map[int64]domain.Product),
	}
}

func (m *Memo) ListCategories(ctx context.Context) ([]string, error) {
	return m.next.ListCategories(ctx)
}

// ListProducts always goes upstream and remembers every product it returns.
func (m *Memo) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := m.next.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	for _, p := range products {
		m.products[p.ID] = p
	}
	m.mu.Unlock()
	return products, nil
}

// GetProduct serves from the cache or joins a shared upstream lookup. The
// shared lookup runs detached from any one caller's cancellation; each caller
// stops waiting when its own ctx is done.
func (m *Memo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if p, ok := m.cached(id); ok {
		return p, nil
	}

	upstream := context.WithoutCancel(ctx)
	ch := m.sfg.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		if p, ok := m.cached(id); ok {
			return p, nil
		}
		p, err := m.next.GetProduct(upstream, id)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.products[id] = p
		m.mu.Unlock()
		return p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.Product{}, res.Err
		}
		return res.Val.(domain.Product), nil
	case <-ctx.Done():
		return domain.Product{}, ctx.Err()
	}
}

func (m *Memo) cached(id int64) (domain.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	return p, ok
}

// Len is the number of memoized products.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

// ResolveProducts looks up all ids concurrently and returns the products in
// the order of ids. The first failure cancels the remaining lookups.
func ResolveProducts(ctx context.Context, c ProductCatalog, ids []int64) ([]domain.Product, error) {
	products := make([]domain.Product, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := c.GetProduct(gctx, id)
			if err != nil {
				return err
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}
