package checkout

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// MockCart implements Cart for testing
type MockCart struct {
	Snapshot  domain.CartSnapshot
	TotalsErr error
	ClearErr  error
	Cleared   int

	// Entered receives a value on every GetCartTotals call and Block, when
	// set, holds the call until closed.
	Entered chan struct{}
	Block   chan struct{}
}

func (m *MockCart) GetCartTotals(context.Context) (domain.CartSnapshot, error) {
	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Block != nil {
		<-m.Block
	}
	if m.TotalsErr != nil {
		return domain.CartSnapshot{}, m.TotalsErr
	}
	return m.Snapshot.Clone(), nil
}

func (m *MockCart) ClearCart(context.Context) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Cleared++
	m.Snapshot = domain.CartSnapshot{}
	return nil
}

// MockNotifier captures orders passed to NotifyOrder
type MockNotifier struct {
	mu     sync.Mutex
	Orders []domain.Order
}

func (m *MockNotifier) NotifyOrder(order domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders = append(m.Orders, order)
}

func (m *MockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Orders)
}
