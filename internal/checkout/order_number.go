package checkout

import (
	"fmt"
	"sync"
	"time"
)

const orderNumberModulus = 100_000_000

// OrderNumbers generates "ORD-" plus the last eight digits of the unix
// millisecond clock. A number that would not be greater than the previous
// one is bumped, so numbers stay unique within the process.
type OrderNumbers struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewOrderNumbers(now func() time.Time) *OrderNumbers {
	if now == nil {
		now = time.Now
	}
	return &OrderNumbers{now: now, last: -1}
}

func (g *OrderNumbers) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli() % orderNumberModulus
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return fmt.Sprintf("ORD-%08d", n)
}
