package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const Currency = "USD"

// Signal tells the caller what a mutator actually did.
type Signal string

const (
	SignalItemAdded       Signal = "item_added"
	SignalQuantityUpdated Signal = "quantity_updated"
	SignalRemoved         Signal = "removed"
	SignalWishlistAdded   Signal = "wishlist_added"
	SignalAlreadyPresent  Signal = "already_present"
	SignalNoop            Signal = "noop"
)

type Counters struct {
	CartLines     int `json:"cart_lines"`
	CartQuantity  int `json:"cart_quantity"`
	WishlistItems int `json:"wishlist_items"`
}

// Result is returned by every mutator with counters recomputed after the write.
type Result struct {
	Signal   Signal   `json:"signal"`
	Counters Counters `json:"counters"`
}

// Store is the persistence the engine writes through to.
type Store interface {
	ReadCart(ctx context.Context) (domain.Cart, error)
	WriteCart(ctx context.Context, cart domain.Cart) error
	ClearCart(ctx context.Context) error
	ReadWishlist(ctx context.Context) (domain.Wishlist, error)
	WriteWishlist(ctx context.Context, w domain.Wishlist) error
}

// Engine is the only writer of the cart and wishlist. Every mutator reads
// the current state from the store and writes it back before returning.
type Engine struct {
	store    Store
	catalog  catalog.ProductCatalog
	shipping ShippingPolicy
	logger   *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewEngine returns an engine over store. A nil logger discards output.
func NewEngine(store Store, c catalog.ProductCatalog, shipping ShippingPolicy, l *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		catalog:  c,
		shipping: shipping,
		logger:   logger.OrNop(l),
		now:      time.Now,
	}
}

// AddToCart adds one unit of productID, creating the line if it is new.
func (e *Engine) AddToCart(ctx context.Context, productID int64) (Result, error) {
	if productID <= 0 {
		return Result{}, ErrInvalidProductID
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.store.ReadCart(ctx)
	if err != nil {
		return Result{}, err
	}
	signal := e.addLine(&c, productID)
	if err := e.store.WriteCart(ctx, c); err != nil {
		return Result{}, err
	}

	e.log(ctx, "add to cart", productID, signal)
	return e.result(ctx, signal)
}

func (e *Engine) addLine(c *domain.Cart, productID int64) Signal {
	if q, ok := c.Quantity(productID); ok {
		c.Set(productID, q+1)
		return SignalQuantityUpdated
	}
	c.Set(productID, 1)
	return SignalItemAdded
}

// RemoveFromCart deletes the whole line. An absent line reports SignalNoop.
func (e *Engine) RemoveFromCart(ctx context.Context, productID int64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.store.ReadCart(ctx)
	if err != nil {
		return Result{}, err
	}
	signal := SignalNoop
	if c.Remove(productID) {
		signal = SignalRemoved
	}
	if err := e.store.WriteCart(ctx, c); err != nil {
		return Result{}, err
	}

	e.log(ctx, "remove from cart", productID, signal)
	return e.result(ctx, signal)
}

// ChangeQuantity adds delta to an existing line. A result at or below zero
// deletes the line. A missing line is left alone.
func (e *Engine) ChangeQuantity(ctx context.Context, productID int64, delta int) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.store.ReadCart(ctx)
	if err != nil {
		return Result{}, err
	}
	q, ok := c.Quantity(productID)
	if !ok {
		return e.result(ctx, SignalNoop)
	}

	signal := SignalQuantityUpdated
	if q+delta <= 0 {
		signal = SignalRemoved
	}
	c.Set(productID, q+delta)
	if err := e.store.WriteCart(ctx, c); err != nil {
		return Result{}, err
	}

	e.log(ctx, "change quantity", productID, signal, zap.Int("delta", delta))
	return e.result(ctx, signal)
}

// AddToWishlist appends productID unless it is already saved.
func (e *Engine) AddToWishlist(ctx context.Context, productID int64) (Result, error) {
	if productID <= 0 {
		return Result{}, ErrInvalidProductID
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.store.ReadWishlist(ctx)
	if err != nil {
		return Result{}, err
	}
	if !w.Add(productID) {
		return e.result(ctx, SignalAlreadyPresent)
	}
	if err := e.store.WriteWishlist(ctx, w); err != nil {
		return Result{}, err
	}

	e.log(ctx, "add to wishlist", productID, SignalWishlistAdded)
	return e.result(ctx, SignalWishlistAdded)
}

func (e *Engine) RemoveFromWishlist(ctx context.Context, productID int64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.store.ReadWishlist(ctx)
	if err != nil {
		return Result{}, err
	}
	signal := SignalNoop
	if w.Remove(productID) {
		signal = SignalRemoved
	}
	if err := e.store.WriteWishlist(ctx, w); err != nil {
		return Result{}, err
	}

	e.log(ctx, "remove from wishlist", productID, signal)
	return e.result(ctx, signal)
}

// MoveToCart takes productID off the wishlist and adds one unit to the cart.
// The returned signal is the cart signal.
func (e *Engine) MoveToCart(ctx context.Context, productID int64) (Result, error) {
	if productID <= 0 {
		return Result{}, ErrInvalidProductID
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.store.ReadCart(ctx)
	if err != nil {
		return Result{}, err
	}
	w, err := e.store.ReadWishlist(ctx)
	if err != nil {
		return Result{}, err
	}

	signal := e.addLine(&c, productID)
	if err := e.store.WriteCart(ctx, c); err != nil {
		return Result{}, err
	}
	if w.Remove(productID) {
		if err := e.store.WriteWishlist(ctx, w); err != nil {
			return Result{}, err
		}
	}

	e.log(ctx, "move to cart", productID, signal)
	return e.result(ctx, signal)
}

// ClearCart empties the persisted cart. The wishlist is untouched.
func (e *Engine) ClearCart(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.ClearCart(ctx); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	logger.WithContext(ctx, e.logger).Info("cart cleared")
	return nil
}

// Cart returns a copy of the persisted cart.
func (e *Engine) Cart(ctx context.Context) (domain.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ReadCart(ctx)
}

func (e *Engine) Wishlist(ctx context.Context) (domain.Wishlist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ReadWishlist(ctx)
}

// Counters recomputes every badge count from the store.
func (e *Engine) Counters(ctx context.Context) (Counters, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counters(ctx)
}

// CartItemCount is the number of distinct lines.
func (e *Engine) CartItemCount(ctx context.Context) (int, error) {
	c, err := e.Counters(ctx)
	return c.CartLines, err
}

// CartQuantityCount is the sum of all line quantities.
func (e *Engine) CartQuantityCount(ctx context.Context) (int, error) {
	c, err := e.Counters(ctx)
	return c.CartQuantity, err
}

func (e *Engine) WishlistItemCount(ctx context.Context) (int, error) {
	c, err := e.Counters(ctx)
	return c.WishlistItems, err
}

// GetCartTotals prices every line through the catalog, concurrently, and
// returns the lines in cart order with subtotal, shipping and total.
func (e *Engine) GetCartTotals(ctx context.Context) (domain.CartSnapshot, error) {
	c, err := e.Cart(ctx)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return e.price(ctx, c)
}

func (e *Engine) price(ctx context.Context, c domain.Cart) (domain.CartSnapshot, error) {
	lines := c.Lines()
	snapshot := domain.CartSnapshot{
		Items:      make([]domain.CartSnapshotItem, 0, len(lines)),
		Subtotal:   decimal.Zero,
		Currency:   Currency,
		CapturedAt: e.now(),
	}

	products, err := catalog.ResolveProducts(ctx, e.catalog, c.ProductIDs())
	if err != nil {
		logger.WithContext(ctx, e.logger).Warn("failed to resolve cart products", zap.Error(err))
		return domain.CartSnapshot{}, fmt.Errorf("%w: %w", ErrTotalsUnavailable, err)
	}

	for i, line := range lines {
		p := products[i]
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		snapshot.Items = append(snapshot.Items, domain.CartSnapshotItem{
			ProductID:   line.ProductID,
			ProductName: p.Title,
			Thumbnail:   p.Thumbnail(),
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			Subtotal:    subtotal,
		})
		snapshot.Subtotal = snapshot.Subtotal.Add(subtotal)
	}

	snapshot.Shipping = e.shipping.Shipping(snapshot.Subtotal)
	snapshot.Total = snapshot.Subtotal.Add(snapshot.Shipping)
	return snapshot, nil
}

// WishlistProducts resolves the wishlist through the catalog, in wishlist order.
func (e *Engine) WishlistProducts(ctx context.Context) ([]domain.Product, error) {
	w, err := e.Wishlist(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.ResolveProducts(ctx, e.catalog, w.IDs())
}

func (e *Engine) counters(ctx context.Context) (Counters, error) {
	c, err := e.store.ReadCart(ctx)
	if err != nil {
		return Counters{}, err
	}
	w, err := e.store.ReadWishlist(ctx)
	if err != nil {
		return Counters{}, err
	}
	return Counters{
		CartLines:     c.Len(),
		CartQuantity:  c.TotalQuantity(),
		WishlistItems: w.Len(),
	}, nil
}

func (e *Engine) result(ctx context.Context, signal Signal) (Result, error) {
	counters, err := e.counters(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Signal: signal, Counters: counters}, nil
}

func (e *Engine) log(ctx context.Context, msg string, productID int64, signal Signal, fields ...zap.Field) {
	fields = append(fields, zap.Int64("product_id", productID), zap.String("signal", string(signal)))
	logger.WithContext(ctx, e.logger).Debug(msg, fields...)
}
